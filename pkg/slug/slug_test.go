// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/slug"
)

/*
TestFrom covers the canonical transformations, including the empty-result edge cases.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses_whitespace_and_symbols", "Data   Science!", "data-science"},
		{"trims_hyphens_and_spaces", "  --Hello--  ", "hello"},
		{"empty", "", ""},
		{"all_symbols", "!!! ??? ---", ""},
		{"mixed_case", "Machine Learning", "machine-learning"},
		{"plus_signs", "C++", "c"},
		{"spaced_plus_signs", "c  ++", "c"},
		{"digits_kept", "Web 3.0", "web-3-0"},
		{"underscores", "snake_case_name", "snake-case-name"},
		{"non_ascii_runs", "café crème", "caf-cr-me"},
		{"tabs_and_newlines", "\tGo\nLang\t", "go-lang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Deterministic verifies that repeated calls agree and that output is a fixed point.
*/
func TestFrom_Deterministic(t *testing.T) {
	inputs := []string{"Rust", "  Go  Programming ", "Data   Science!", "ÅÄÖ", "a--b__c"}

	for _, input := range inputs {
		first := slug.From(input)
		assert.Equal(t, first, slug.From(input))
		assert.Equal(t, first, slug.From(first), "slug of a slug must be unchanged")
	}
}

/*
TestFrom_CanonicalCharacters checks the output alphabet on awkward inputs.
*/
func TestFrom_CanonicalCharacters(t *testing.T) {
	inputs := []string{"-a-", "__x__", "Hello, World!", "1 + 1 = 2", "ünïcödé", " ~~ tilde ~~ "}

	for _, input := range inputs {
		out := slug.From(input)
		if out == "" {
			continue
		}
		assert.True(t, slug.Valid(out), "slug %q from %q is not canonical", out, input)
	}
}

/*
TestValid tests the canonical-form check used for URL parameters.
*/
func TestValid(t *testing.T) {
	assert.True(t, slug.Valid("data-science"))
	assert.True(t, slug.Valid("go"))
	assert.False(t, slug.Valid(""))
	assert.False(t, slug.Valid("-go"))
	assert.False(t, slug.Valid("go-"))
	assert.False(t, slug.Valid("go--lang"))
	assert.False(t, slug.Valid("Go"))
}
