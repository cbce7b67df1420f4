package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerbook/internal/service"
)

func newPasswordCommand(ledger *service.Ledger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage the export encryption password",
	}
	cmd.AddCommand(
		newPasswordSetCommand(ledger),
		newPasswordClearCommand(ledger),
	)
	return cmd
}

func newPasswordSetCommand(ledger *service.Ledger) *cobra.Command {
	return &cobra.Command{
		Use:   "set <password>",
		Short: "Encrypt future JSON exports with a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledger.SetBackupPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Backup password set; JSON exports will be encrypted")
			return nil
		},
	}
}

func newPasswordClearCommand(ledger *service.Ledger) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Stop encrypting exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm(cmd, yes, "Clear the backup password? Future exports will be plaintext.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := ledger.SetBackupPassword(cmd.Context(), ""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Backup password cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}
