package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ledgerbook/internal/codec"
	"ledgerbook/internal/config"
	"ledgerbook/internal/core"
	"ledgerbook/internal/encoding"
	"ledgerbook/internal/service"
)

func newExportCommand(ledger *service.Ledger, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write ledger data to a portable file",
	}
	cmd.AddCommand(
		newExportBackupCommand(ledger, cfg),
		newExportAccountCommand(ledger, cfg),
		newExportDayCommand(ledger, cfg),
		newExportRangeCommand(ledger, cfg),
	)
	return cmd
}

// writeExport encodes doc in the requested format and writes it to out,
// or to a timestamped file in the export directory when out is empty.
// JSON exports are sealed with the stored backup password; the tabular
// format is always plaintext.
func writeExport(cmd *cobra.Command, ledger *service.Ledger, cfg *config.Config, doc codec.Document, format, out, base string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = codec.EncodeJSON(doc, ledger.BackupPassword())
	case "csv":
		data, err = codec.EncodeCSV(doc)
	default:
		return fmt.Errorf("%w: unknown format %q (want json or csv)", core.ErrValidation, format)
	}
	if err != nil {
		return err
	}

	if out == "" {
		out = filepath.Join(cfg.ExportDir, codec.ExportFileName(base, time.Now(), format))
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
	return nil
}

func newExportBackupCommand(ledger *service.Ledger, cfg *config.Config) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export every account, record, and type map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeExport(cmd, ledger, cfg, ledger.ExportFullBackup(), format, out, "ledgerbook_backup")
		},
	}
	addExportFlags(cmd, &format, &out)
	return cmd
}

func newExportAccountCommand(ledger *service.Ledger, cfg *config.Config) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Export the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ledger.ExportAccount()
			if err != nil {
				return err
			}
			return writeExport(cmd, ledger, cfg, doc, format, out, sanitizeBase(doc.AccountName))
		},
	}
	addExportFlags(cmd, &format, &out)
	return cmd
}

func newExportDayCommand(ledger *service.Ledger, cfg *config.Config) *cobra.Command {
	var format, out, dayStr string
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Export one calendar day of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if dayStr != "" {
				var err error
				if day, err = core.ParseDate(dayStr); err != nil {
					return err
				}
			}
			doc, err := ledger.ExportDay(day)
			if err != nil {
				return err
			}
			base := sanitizeBase(doc.AccountName) + "_" + day.Format("20060102")
			return writeExport(cmd, ledger, cfg, doc, format, out, base)
		},
	}
	cmd.Flags().StringVar(&dayStr, "date", "", "day to export YYYY-MM-DD (default today)")
	addExportFlags(cmd, &format, &out)
	return cmd
}

func newExportRangeCommand(ledger *service.Ledger, cfg *config.Config) *cobra.Command {
	var format, out, fromStr, toStr string
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Export a date range of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := core.ParseDate(fromStr)
			if err != nil {
				return err
			}
			to, err := core.ParseDate(toStr)
			if err != nil {
				return err
			}
			doc, err := ledger.ExportRange(from, to)
			if err != nil {
				return err
			}
			base := sanitizeBase(doc.AccountName) + "_range"
			return writeExport(cmd, ledger, cfg, doc, format, out, base)
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "range start YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&toStr, "to", "", "range end YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	addExportFlags(cmd, &format, &out)
	return cmd
}

func addExportFlags(cmd *cobra.Command, format, out *string) {
	cmd.Flags().StringVar(format, "format", "json", "output format: json or csv")
	cmd.Flags().StringVar(out, "out", "", "output file (default: timestamped file in the export directory)")
}

func sanitizeBase(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}

func newImportCommand(ledger *service.Ledger) *cobra.Command {
	var password string
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			// Legacy exports are not always UTF-8.
			r, err := encoding.NewUTF8Reader(f)
			if err != nil {
				return err
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			doc, err := decodeImport(data, password, ledger.BackupPassword())
			if err != nil {
				return err
			}

			if _, isBackup := doc.(*codec.FullBackup); isBackup {
				prompt := "Restoring a full backup replaces every account and record. Continue?"
				if !confirm(cmd, yes, prompt) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			result, err := ledger.ImportDocument(cmd.Context(), doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s", result.Kind)
			if result.Account != "" {
				fmt.Fprintf(out, " for account %q", result.Account)
			}
			fmt.Fprintf(out, ": %d inserted, %d skipped, %d replaced\n",
				result.Inserted, result.Skipped, result.Replaced)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password for encrypted files (default: the stored backup password)")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the full-backup restore confirmation")
	return cmd
}

// decodeImport picks the codec by content: JSON documents start with an
// object brace, everything else goes through the tabular reader. A
// tabular full backup is rejected; only the JSON form carries enough
// structure to restore from.
func decodeImport(data []byte, password, storedPassword string) (codec.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if password == "" {
			password = storedPassword
		}
		return codec.DecodeJSON(trimmed, password)
	}

	doc, err := codec.DecodeCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if _, isBackup := doc.(*codec.FullBackup); isBackup {
		return nil, fmt.Errorf("%w: tabular full backups cannot be imported, use the JSON backup", core.ErrMalformedDocument)
	}
	return doc, nil
}
