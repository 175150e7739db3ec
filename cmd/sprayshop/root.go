package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sprayshop/pkg/config"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "sprayshop",
		Short:         "Fragrance storefront server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return nil
			}
			return config.LoadEnv(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file")

	root.AddCommand(newServeCmd(), newSeedCmd())
	return root
}
