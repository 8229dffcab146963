// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[string, int](nil, func(s string) int { return len(s) }))
	assert.Equal(t, []int{2, 4}, slice.Map([]string{"go", "rust"}, func(s string) int { return len(s) }))
}

func TestFilter(t *testing.T) {
	got := slice.Filter([]string{"go", "", "rust"}, func(s string) bool { return s != "" })
	assert.Equal(t, []string{"go", "rust"}, got)

	none := slice.Filter([]string{"go"}, func(string) bool { return false })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

/*
TestUniqueBy verifies first-occurrence-wins semantics.
*/
func TestUniqueBy(t *testing.T) {
	got := slice.UniqueBy([]string{"Python", "python", "Go", "PYTHON", "go"}, strings.ToLower)
	assert.Equal(t, []string{"Python", "Go"}, got)
	assert.Nil(t, slice.UniqueBy[string, string](nil, strings.ToLower))
}
