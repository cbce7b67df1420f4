package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ledgerbook/internal/core"
	"ledgerbook/internal/service"
)

func newTypesCommand(ledger *service.Ledger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Manage the current account's record types",
	}
	cmd.AddCommand(
		newTypesListCommand(ledger),
		newTypesAddCommand(ledger),
		newTypesEditCommand(ledger),
		newTypesDeleteCommand(ledger),
	)
	return cmd
}

func parseCategory(s string) (core.Category, error) {
	c := core.Category(strings.ToLower(strings.TrimSpace(s)))
	if !core.ValidCategory(c) {
		return "", fmt.Errorf("%w: %q (want income or expense)", core.ErrInvalidCategory, s)
	}
	return c, nil
}

func newTypesListCommand(ledger *service.Ledger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List type labels by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := ledger.Types(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Income:")
			for _, label := range ct.Income {
				fmt.Fprintf(out, "  %s\n", label)
			}
			fmt.Fprintln(out, "Expense:")
			for _, label := range ct.Expense {
				fmt.Fprintf(out, "  %s\n", label)
			}
			return nil
		},
	}
}

func newTypesAddCommand(ledger *service.Ledger) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a type label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategory(category)
			if err != nil {
				return err
			}
			if err := ledger.AddType(cmd.Context(), c, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Type %q added to %s\n", args[0], c)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "income or expense (required)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newTypesEditCommand(ledger *service.Ledger) *cobra.Command {
	var category, newLabel, newCategory string
	cmd := &cobra.Command{
		Use:   "edit <label>",
		Short: "Rename a type label or move it to the other category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldC, err := parseCategory(category)
			if err != nil {
				return err
			}
			newC := oldC
			if newCategory != "" {
				if newC, err = parseCategory(newCategory); err != nil {
					return err
				}
			}
			label := args[0]
			if newLabel == "" {
				newLabel = label
			}
			if err := ledger.EditType(cmd.Context(), label, oldC, newLabel, newC); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Type %q updated\n", newLabel)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "current category of the label (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&newLabel, "name", "", "new label")
	cmd.Flags().StringVar(&newCategory, "to", "", "new category")
	return cmd
}

func newTypesDeleteCommand(ledger *service.Ledger) *cobra.Command {
	var category string
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <label>",
		Short: "Delete a type label and the records using it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategory(category)
			if err != nil {
				return err
			}
			label := args[0]
			count := ledger.RecordsWithType(label)
			prompt := fmt.Sprintf("Delete type %q and its %d records?", label, count)
			if !confirm(cmd, yes, prompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			removed, err := ledger.DeleteType(cmd.Context(), c, label)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Type %q deleted, %d records removed\n", label, removed)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "income or expense (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}
