// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/taibuivan/folio/internal/platform/sec"
)

const minPasswordLength = 12

func newHashPasswordCmd() *cobra.Command {
	var fromStdin bool

	command := &cobra.Command{
		Use:   "hash-password",
		Short: "Produce the bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var password string
			if fromStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
				if err := checkPassword(password); err != nil {
					return err
				}
			} else {
				var err error
				if password, err = promptPassword(); err != nil {
					return err
				}
			}

			hash, err := sec.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	command.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from the first line of stdin")
	return command
}

func promptPassword() (string, error) {
	var password, confirmation string

	err := survey.AskOne(
		&survey.Password{Message: "Admin password"},
		&password,
		survey.WithValidator(survey.Required),
		survey.WithValidator(func(answer interface{}) error {
			return checkPassword(answer.(string))
		}),
	)
	if err != nil {
		return "", err
	}

	if err := survey.AskOne(&survey.Password{Message: "Repeat password"}, &confirmation); err != nil {
		return "", err
	}
	if password != confirmation {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func checkPassword(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
