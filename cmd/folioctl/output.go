// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/taibuivan/folio/internal/core/label"
)

var (
	faint   = color.New(color.Faint).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	success = func(message string) string { return green("✓ ") + message }
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

// labelView is the machine-readable shape of a label.
type labelView struct {
	Name        string `yaml:"name" json:"name"`
	Slug        string `yaml:"slug" json:"slug"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
	Featured    bool   `yaml:"featured,omitempty" json:"featured,omitempty"`
	Derived     bool   `yaml:"derived,omitempty" json:"derived,omitempty"`
}

func viewOf(item *label.Label) labelView {
	view := labelView{Name: item.Name, Slug: item.Slug, Featured: item.Featured, Derived: item.Derived}
	if item.Description != nil {
		view.Description = *item.Description
	}
	if item.Color != nil {
		view.Color = *item.Color
	}
	return view
}

func writeLabels(out io.Writer, format string, labels []*label.Label) error {
	views := make([]labelView, 0, len(labels))
	for _, item := range labels {
		views = append(views, viewOf(item))
	}

	switch format {
	case outputYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(views); err != nil {
			return err
		}
		return encoder.Close()
	case outputJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(views)
	case outputTable:
		if len(views) == 0 {
			fmt.Fprintln(out, faint("No labels found."))
			return nil
		}
		for _, view := range views {
			fmt.Fprintln(out, formatLabelLine(view))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, outputTable, outputYAML, outputJSON)
	}
}

func formatLabelLine(view labelView) string {
	var line strings.Builder
	line.WriteString("  ")
	if view.Featured {
		line.WriteString(yellow("★ "))
	} else {
		line.WriteString("  ")
	}
	line.WriteString(bold(view.Name))
	line.WriteString("  ")
	line.WriteString(faint(view.Slug))
	if view.Derived {
		line.WriteString("  ")
		line.WriteString(cyan("(from content)"))
	}
	return line.String()
}
