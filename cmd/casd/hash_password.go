package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/goCAS/password"
	"github.com/spf13/cobra"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Print an Argon2id hash for a directory file",
		Long: `Reads one password line from stdin and prints its Argon2id PHC string,
suitable for the password_hash field of a directory file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no password on stdin")
			}
			pass := strings.TrimRight(line, "\r\n")

			hasher, err := password.NewArgon2(password.DefaultConfig())
			if err != nil {
				return err
			}
			hash, err := hasher.Hash(pass)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
