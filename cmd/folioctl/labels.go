// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/folio/internal/core/label"
)

func (app *cli) newLabelsCmd() *cobra.Command {
	var namespace string

	command := &cobra.Command{
		Use:   "labels",
		Short: "Inspect and assign tags or categories",
	}
	command.PersistentFlags().StringVarP(&namespace, "ns", "n", string(label.NamespaceTag), "label namespace: tags or categories")

	resolve := func() (label.Namespace, error) {
		return label.ParseNamespace(namespace)
	}

	command.AddCommand(
		app.newLabelsListCmd(resolve),
		app.newLabelsShowCmd(resolve),
		app.newLabelsTagCmd(resolve),
	)
	return command
}

func (app *cli) newLabelsListCmd(resolve func() (label.Namespace, error)) *cobra.Command {
	var format string

	command := &cobra.Command{
		Use:   "list",
		Short: "List every label of a namespace, including names only found on content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			namespace, err := resolve()
			if err != nil {
				return err
			}

			services, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer services.Close()

			labels, err := services.Labels.All(cmd.Context(), namespace)
			if err != nil {
				return fmt.Errorf("list %s: %w", namespace, err)
			}
			return writeLabels(cmd.OutOrStdout(), format, labels)
		},
	}
	command.Flags().StringVarP(&format, "output", "o", outputTable, "output format: table, yaml or json")
	return command
}

func (app *cli) newLabelsShowCmd(resolve func() (label.Namespace, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a label and the content carrying it, drafts included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace, err := resolve()
			if err != nil {
				return err
			}

			services, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer services.Close()

			found, err := services.Labels.GetBySlug(cmd.Context(), namespace, args[0])
			if err != nil {
				return err
			}
			items, err := services.Labels.ItemsFor(cmd.Context(), namespace, found, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatLabelLine(viewOf(found)))
			for _, item := range items {
				state := ""
				if !item.Published {
					state = yellow(" draft")
				}
				fmt.Fprintf(out, "      %s %s%s\n", faint(string(item.Kind)), item.Title, state)
			}
			return nil
		},
	}
}

func (app *cli) newLabelsTagCmd(resolve func() (label.Namespace, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <article|project> <id> [names...]",
		Short: "Replace the labels of one article or project",
		Long:  `Replaces the whole label set of the item. Passing no names clears it. Names may also be given comma separated.`,
		Example: `  folioctl labels tag article 7c9e... Go "Web Dev"
  folioctl labels --ns categories tag project 1f2a... Tools,CLI`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace, err := resolve()
			if err != nil {
				return err
			}
			kind, err := label.ParseContentKind(args[0])
			if err != nil {
				return err
			}

			services, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer services.Close()

			ref := label.ContentRef{Kind: kind, ID: args[1]}
			labels, err := services.Labels.Tag(cmd.Context(), ref, namespace, splitNames(args[2:]))
			if err != nil {
				return err
			}

			names := make([]string, 0, len(labels))
			for _, item := range labels {
				names = append(names, item.Name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("%s %s now has %s: [%s]", kind, ref.ID, namespace, strings.Join(names, ", "))))
			return nil
		},
	}
}

// splitNames accepts both separate arguments and comma separated lists.
func splitNames(args []string) []string {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		for name := range strings.SplitSeq(arg, ",") {
			names = append(names, name)
		}
	}
	return names
}
