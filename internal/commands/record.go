package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ledgerbook/internal/core"
	"ledgerbook/internal/service"
)

// resolveDateTime combines the --date and --time flags into the record
// date-time string, defaulting missing parts to now.
func resolveDateTime(date, clock string, now time.Time) (string, error) {
	if date == "" {
		date = now.Format(core.DateLayout)
	}
	if clock == "" {
		clock = now.Format("15:04")
	}
	dateTime := date + " " + clock
	if _, err := core.ParseDateTime(dateTime); err != nil {
		return "", err
	}
	return dateTime, nil
}

func newAddCommand(ledger *service.Ledger) *cobra.Command {
	var typeLabel, date, clock string
	var split []string
	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Add a record to the current account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[0])
			if err != nil {
				return err
			}
			dateTime, err := resolveDateTime(date, clock, time.Now())
			if err != nil {
				return err
			}
			err = ledger.AddRecord(cmd.Context(), service.AddRecordParams{
				DateTime:      dateTime,
				Type:          typeLabel,
				Description:   args[1],
				Amount:        amount,
				SplitAccounts: split,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n",
				core.FormatAmount(amount), args[1], typeLabel)
			return nil
		},
	}
	cmd.Flags().StringVar(&typeLabel, "type", "", "type label (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&date, "date", "", "record date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&clock, "time", "", "record time HH:MM (default now)")
	cmd.Flags().StringSliceVar(&split, "split", nil, "extra accounts that get a copy of the record")
	return cmd
}

func newRecordsCommand(ledger *service.Ledger) *cobra.Command {
	return &cobra.Command{
		Use:   "records [account]",
		Short: "List records, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := ledger.CurrentAccount()
			if len(args) > 0 {
				account = args[0]
			}
			if account == "" {
				return core.ErrNoAccountSelected
			}
			out := cmd.OutOrStdout()
			for _, r := range ledger.RecordsByAccount(account) {
				edited := ""
				if r.EditedBy != nil {
					edited = " (edited)"
				}
				fmt.Fprintf(out, "%4d  %s  %-20s  %12s  %s%s\n",
					r.Index, r.DateTime, r.Type, core.FormatAmount(r.Amount), r.Description, edited)
			}
			return nil
		},
	}
}

func newEditCommand(ledger *service.Ledger) *cobra.Command {
	var typeLabel, description, amountStr, date, clock string
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Edit a record by its listed index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: bad index %q", core.ErrValidation, args[0])
			}
			rec, err := ledger.Record(index)
			if err != nil {
				return err
			}

			// Flags left unset keep the record's current values.
			p := service.EditRecordParams{
				DateTime:    rec.DateTime,
				Type:        rec.Type,
				Description: rec.Description,
				Amount:      rec.Amount,
			}
			if typeLabel != "" {
				p.Type = typeLabel
			}
			if description != "" {
				p.Description = description
			}
			if amountStr != "" {
				if p.Amount, err = core.ParseAmount(amountStr); err != nil {
					return err
				}
			}
			if date != "" || clock != "" {
				t, err := core.ParseDateTime(rec.DateTime)
				if err != nil {
					t = time.Now()
				}
				if p.DateTime, err = resolveDateTime(date, clock, t); err != nil {
					return err
				}
			}

			if err := ledger.EditRecord(cmd.Context(), index, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record %d updated\n", index)
			return nil
		},
	}
	cmd.Flags().StringVar(&typeLabel, "type", "", "new type label")
	cmd.Flags().StringVar(&description, "desc", "", "new description")
	cmd.Flags().StringVar(&amountStr, "amount", "", "new amount")
	cmd.Flags().StringVar(&date, "date", "", "new date YYYY-MM-DD")
	cmd.Flags().StringVar(&clock, "time", "", "new time HH:MM")
	return cmd
}

func newDeleteCommand(ledger *service.Ledger) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a record by its listed index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: bad index %q", core.ErrValidation, args[0])
			}
			rec, err := ledger.Record(index)
			if err != nil {
				return err
			}
			prompt := fmt.Sprintf("Delete record %d (%s %s)?",
				index, core.FormatAmount(rec.Amount), rec.Description)
			if !confirm(cmd, yes, prompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := ledger.DeleteRecord(cmd.Context(), index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record %d deleted\n", index)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}
