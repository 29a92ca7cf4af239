package main

import (
	"github.com/aretw0/tendero/internal/cli"
	"github.com/aretw0/tendero/internal/config"
	"github.com/aretw0/tendero/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags onto configuration keys. Flags win over
// the environment and the config file when set.
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"session-store": "session.store",
	"ledger":        "ledger.driver",
	"open":          "auth.open",
	"addr":          "http.addr",
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tendero",
		Short: "Tendero guides merchants through recording a sale by chat",
		Long: `Tendero is a conversational sales assistant. A merchant writes "nueva venta"
and is guided step by step through the client, the products, the payment
method and a confirmation, after which the sale is recorded in the ledger.

Conversations are served over an HTTP webhook, an MCP server or the local console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./tendero.yaml)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
	pf.String("session-store", "", "Session store: memory, redis or file")
	pf.String("ledger", "", "Ledger driver: memory, sqlite or postgres")
	pf.Bool("open", false, "Let every identity sell without registering")

	cmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newMCPCmd(),
		newSessionCmd(),
		newSalesCmd(),
		newAccountCmd(),
		newGraphCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig builds the effective configuration of cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, *viper.Viper, error) {
	v := config.New()
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, nil, err
			}
		}
	}

	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, file)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// openApp wires the whole stack for cmd. Callers must Close it.
func openApp(cmd *cobra.Command) (*cli.App, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cmd.Context(), cfg)
}

func uiFor(cmd *cobra.Command) *output.UI {
	return &output.UI{Out: cmd.OutOrStdout(), ErrOut: cmd.ErrOrStderr()}
}
