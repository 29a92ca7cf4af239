package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/tendero/internal/output"
	"github.com/aretw0/tendero/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage conversations in progress",
		Long:  `List, inspect, and remove the conversations held by the configured session store.`,
	}
	cmd.AddCommand(newSessionLsCmd(), newSessionInspectCmd(), newSessionRmCmd())
	return cmd
}

func newSessionLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List conversations in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ui := uiFor(cmd)
			ids, err := app.Sessions.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			if len(ids) == 0 {
				ui.Info("No conversations in progress.")
				return nil
			}

			table := ui.Table([]string{"Identity", "State", "Items", "Updated"})
			for _, id := range ids {
				s, err := app.Sessions.Get(cmd.Context(), id)
				if err != nil {
					ui.Warning("%s: %v", id, err)
					continue
				}
				items := 0
				if s.Draft != nil {
					items = len(s.Draft.LineItems)
				}
				updated := "-"
				if !s.UpdatedAt.IsZero() {
					updated = s.UpdatedAt.Local().Format(time.DateTime)
				}
				if err := table.Append([]string{id, output.StateColor(s.State), fmt.Sprint(items), updated}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

func newSessionInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <identity>",
		Short: "Inspect the conversation of an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			s, err := app.Sessions.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load session %q: %w", args[0], err)
			}

			if withGraph, _ := cmd.Flags().GetBool("graph"); withGraph {
				fmt.Fprintln(cmd.OutOrStdout(), graph.GenerateMermaid(app.Engine.States(), &graph.GraphOverlay{CurrentState: s.State}))
				return nil
			}

			data, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().Bool("graph", false, "Print the flow as Mermaid with the current state highlighted")
	return cmd
}

func newSessionRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <identity>...",
		Short: "Discard conversations in progress",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ui := uiFor(cmd)
			for _, id := range args {
				if err := app.Dispatcher.Reset(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to remove session %q: %w", id, err)
				}
				ui.Success("Session %s removed.", id)
			}
			return nil
		},
	}
}
