package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"ledgerbook/internal/core"
	"ledgerbook/internal/service"
)

func newSummaryCommand(ledger *service.Ledger) *cobra.Command {
	var fromStr, toStr, dayStr string
	var all bool
	cmd := &cobra.Command{
		Use:   "summary [account]",
		Short: "Aggregate an account over a day, a date range, or its whole history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := ledger.CurrentAccount()
			if len(args) > 0 {
				account = args[0]
			}
			if account == "" {
				return core.ErrNoAccountSelected
			}

			var (
				s   *core.Summary
				err error
			)
			switch {
			case all:
				s, err = ledger.SummarizeAll(account)
			case dayStr != "":
				var day time.Time
				if day, err = core.ParseDate(dayStr); err != nil {
					return err
				}
				s, err = ledger.SummarizeDay(account, day)
			case fromStr != "" && toStr != "":
				var from, to time.Time
				if from, err = core.ParseDate(fromStr); err != nil {
					return err
				}
				if to, err = core.ParseDate(toStr); err != nil {
					return err
				}
				s, err = ledger.Summarize(account, from, to)
			default:
				s, err = ledger.SummarizeDay(account, time.Now())
			}
			if err != nil {
				return err
			}

			printSummary(cmd, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "range start YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "range end YYYY-MM-DD")
	cmd.Flags().StringVar(&dayStr, "day", "", "single day YYYY-MM-DD")
	cmd.Flags().BoolVar(&all, "all", false, "whole account history")
	return cmd
}

func printSummary(cmd *cobra.Command, s *core.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Account: %s\n", s.Account)
	fmt.Fprintf(out, "Period:  %s to %s (%d of %d days active)\n",
		s.From.Format(core.DateLayout), s.To.Format(core.DateLayout),
		s.ActiveDays, s.TotalDays)
	fmt.Fprintln(out)

	printBreakdown(cmd, "Income", s.Income)
	printBreakdown(cmd, "Expense", s.Expense)

	fmt.Fprintf(out, "Total income:    %s (%d records)\n", core.FormatAmount(s.TotalIncome), s.IncomeCount)
	fmt.Fprintf(out, "Total expense:   %s (%d records)\n", core.FormatAmount(s.TotalExpense), s.ExpenseCount)
	fmt.Fprintf(out, "Running balance: %s\n", core.FormatAmount(s.RunningBalance))
}

func printBreakdown(cmd *cobra.Command, title string, totals map[string]core.TypeTotal) {
	if len(totals) == 0 {
		return
	}
	out := cmd.OutOrStdout()

	labels := make([]string, 0, len(totals))
	for label := range totals {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Fprintf(out, "%s:\n", title)
	for _, label := range labels {
		t := totals[label]
		fmt.Fprintf(out, "  %-20s %12s  (%d)\n", label, core.FormatAmount(t.Amount), t.Count)
	}
	fmt.Fprintln(out)
}
