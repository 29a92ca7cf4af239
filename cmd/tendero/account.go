package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/tendero/internal/runtime"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the identities allowed to sell",
	}
	cmd.AddCommand(newAccountAddCmd())
	return cmd
}

func newAccountAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <identity>",
		Short: "Register an identity without going through the chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			business, _ := cmd.Flags().GetString("business")
			email, _ := cmd.Flags().GetString("email")
			business = strings.TrimSpace(business)
			email = strings.TrimSpace(email)
			if business == "" {
				return errors.New("--business is required")
			}
			if !runtime.IsEmail(email) {
				return fmt.Errorf("invalid --email %q", email)
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			account := domain.Account{
				Identity:     args[0],
				BusinessName: business,
				Email:        email,
				RegisteredAt: time.Now().UTC(),
			}
			if err := app.Ledger.Register(cmd.Context(), account); err != nil {
				return fmt.Errorf("failed to register %s: %w", args[0], err)
			}
			uiFor(cmd).Success("%s registered as %s.", args[0], business)
			return nil
		},
	}
	cmd.Flags().String("business", "", "Business name")
	cmd.Flags().String("email", "", "Contact e-mail")
	return cmd
}
