package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tendero"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tendero",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tendero version %s\n", strings.TrimSpace(tendero.Version))
		},
	}
}
