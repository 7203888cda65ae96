package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "casd",
		Short: "Central authentication ticket broker",
		Long: `casd issues global tickets to browsers that sign in and short-lived
temporary tickets that relying sites exchange for the user's identity.

Example usage:
  casd serve --config casd.yaml
  CAS_REDIS_MEMORY=true casd serve
  casd hash-password`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
					return err
				}
				return nil
			}
			return godotenv.Load(envFile)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env when present)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}
