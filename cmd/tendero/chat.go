package main

import (
	"github.com/aretw0/tendero/internal/cli"
	"github.com/spf13/cobra"
)

const defaultIdentity = "console"

func newChatCmd() *cobra.Command {
	var opts cli.ChatOptions

	cmd := &cobra.Command{
		Use:   "chat [identity]",
		Short: "Talk to the assistant from the terminal",
		Long: `Runs the conversation in the terminal as the given identity (default "console").
The conversation in progress is resumed. Type /reset to start over and /salir to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Identity = defaultIdentity
			if len(args) > 0 {
				opts.Identity = args[0]
			}
			opts.In = cmd.InOrStdin()
			opts.Out = cmd.OutOrStdout()

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return cli.RunChat(cmd.Context(), app, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "Discard the conversation in progress first")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Print replies without markdown rendering")
	return cmd
}
