package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerbook/internal/service"
)

func newAccountCommand(ledger *service.Ledger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(
		newAccountListCommand(ledger),
		newAccountAddCommand(ledger),
		newAccountRenameCommand(ledger),
		newAccountDeleteCommand(ledger),
		newAccountUseCommand(ledger),
	)
	return cmd
}

func newAccountListCommand(ledger *service.Ledger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := ledger.CurrentAccount()
			for _, name := range ledger.Accounts() {
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

func newAccountAddCommand(ledger *service.Ledger) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledger.AddAccount(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %q created\n", args[0])
			return nil
		},
	}
}

func newAccountRenameCommand(ledger *service.Ledger) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename an account, updating all its records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledger.RenameAccount(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %q renamed to %q\n", args[0], args[1])
			return nil
		},
	}
}

func newAccountDeleteCommand(ledger *service.Ledger) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an account and all its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			count := len(ledger.RecordsByAccount(name))
			prompt := fmt.Sprintf("Delete account %q and its %d records?", name, count)
			if !confirm(cmd, yes, prompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := ledger.DeleteAccount(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %q deleted\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}

func newAccountUseCommand(ledger *service.Ledger) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Select the current account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledger.SelectAccount(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Using account %q\n", args[0])
			return nil
		},
	}
}
