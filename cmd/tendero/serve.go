package main

import (
	"github.com/aretw0/tendero/internal/cli"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the messaging webhook",
		Long: `Starts the HTTP webhook. A messaging gateway posts every inbound message to
POST /v1/messages and relays the replies back to the merchant.

Also serves /healthz, /info, /metrics and an SSE feed of replies per identity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()
			return cli.Serve(ctx, app)
		},
	}
	cmd.Flags().String("addr", "", "Address to listen on (default :8080)")
	return cmd
}
