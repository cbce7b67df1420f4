package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerbook/internal/config"
	"ledgerbook/internal/core"
	"ledgerbook/internal/service"
)

func newStatusCommand(ledger *service.Ledger, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the store location, accounts, and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", cfg.DBPath)

			encrypted := "no"
			if ledger.BackupPassword() != "" {
				encrypted = "yes"
			}
			fmt.Fprintf(out, "Encrypted exports: %s\n", encrypted)

			accounts := ledger.Accounts()
			if len(accounts) == 0 {
				fmt.Fprintln(out, "No accounts yet; create one with 'ledgerbook account add'")
				return nil
			}

			current := ledger.CurrentAccount()
			fmt.Fprintln(out, "Accounts:")
			for _, name := range accounts {
				balance, err := ledger.Balance(name)
				if err != nil {
					return err
				}
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-20s %12s  (%d records)\n",
					marker, name, core.FormatAmount(balance), len(ledger.RecordsByAccount(name)))
			}
			return nil
		},
	}
}
