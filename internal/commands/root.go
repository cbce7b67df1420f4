// Package commands wires the ledger engine into a cobra command tree.
package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ledgerbook/internal/config"
	"ledgerbook/internal/service"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(ledger *service.Ledger, cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerbook",
		Short: "Multi-account personal ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAccountCommand(ledger),
		newTypesCommand(ledger),
		newAddCommand(ledger),
		newRecordsCommand(ledger),
		newEditCommand(ledger),
		newDeleteCommand(ledger),
		newSummaryCommand(ledger),
		newExportCommand(ledger, cfg),
		newImportCommand(ledger),
		newPasswordCommand(ledger),
		newStatusCommand(ledger, cfg),
	)

	return rootCmd
}

// confirm prompts on the command's input stream unless yes is already
// set. Destructive subcommands call this before touching the store.
func confirm(cmd *cobra.Command, yes bool, prompt string) bool {
	if yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
