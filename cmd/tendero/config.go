package main

import (
	"fmt"

	"github.com/aretw0/tendero/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}

			ui := uiFor(cmd)
			if file := config.FileUsed(v); file != "" {
				ui.Info("config file: %s", file)
			} else {
				ui.Info("no config file, using defaults and %s_* environment", config.EnvPrefix)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	})
	return cmd
}
