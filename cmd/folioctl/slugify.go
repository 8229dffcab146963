// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/folio/pkg/slug"
)

func newSlugifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "slugify <text...>",
		Short:   "Print the slug a label name or title maps to",
		Example: `  folioctl slugify "Data   Science!"   # data-science`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := slug.From(strings.Join(args, " "))
			if result == "" {
				return fmt.Errorf("%q has no slug characters", strings.Join(args, " "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
