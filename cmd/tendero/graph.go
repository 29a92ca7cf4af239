package main

import (
	"fmt"

	"github.com/aretw0/tendero/internal/presentation/graph"
	"github.com/aretw0/tendero/internal/runtime"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the conversation flow as a Mermaid flowchart",
		RunE: func(cmd *cobra.Command, args []string) error {
			var overlay *graph.GraphOverlay
			if state, _ := cmd.Flags().GetString("highlight"); state != "" {
				overlay = &graph.GraphOverlay{CurrentState: domain.StateID(state)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), graph.GenerateMermaid(runtime.NewEngine().States(), overlay))
			return nil
		},
	}
	cmd.Flags().String("highlight", "", "State to highlight, e.g. AWAITING_PRICE")
	return cmd
}
