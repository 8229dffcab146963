// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/folio/internal/core/article"
)

func (app *cli) newArticlesCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "articles",
		Short: "Move articles in and out as Markdown",
	}
	command.AddCommand(app.newArticlesExportCmd(), app.newArticlesImportCmd())
	return command
}

func (app *cli) newArticlesExportCmd() *cobra.Command {
	var target string

	command := &cobra.Command{
		Use:   "export <id-or-slug>",
		Short: "Write an article as Markdown with front matter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer services.Close()

			found, err := services.Articles.Get(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			document, err := article.ExportMarkdown(found)
			if err != nil {
				return err
			}

			if target == "" {
				_, err = cmd.OutOrStdout().Write(document)
				return err
			}
			if err := os.WriteFile(target, document, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), success("exported "+found.Slug+" to "+target))
			return nil
		},
	}
	command.Flags().StringVarP(&target, "file", "f", "", "write to this file instead of stdout")
	return command
}

func (app *cli) newArticlesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md>",
		Short: "Create an article from a Markdown file with front matter",
		Long: `Front matter keys: title, slug, excerpt, cover, tags, categories,
published, featured. Tags and categories go through the same normalization
as the API, so "go" joins an existing "Go" tag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			input, err := article.ParseMarkdown(source)
			if err != nil {
				return err
			}

			services, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer services.Close()

			created, err := services.Articles.Create(cmd.Context(), *input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("imported %s (%s)", created.Slug, created.ID)))
			return nil
		},
	}
}
