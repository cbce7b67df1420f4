package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
)

// Sentinel rows delimiting the sections of the tabular format. They
// are format markers, kept byte-identical to the legacy files.
const (
	markerFullBackup   = "###ALL_ACCOUNTS_BACKUP_CSV###"
	markerAccountsList = "###ACCOUNTS_LIST###"
	markerTypesStart   = "###ACCOUNT_TYPES_START###"
	markerTypesEnd     = "###ACCOUNT_TYPES_END###"
	markerTypes        = "###ACCOUNT_TYPES###"
	markerDataStart    = "###DATA_START###"

	prefixAccount = "Account:"
	prefixDaily   = "isDailyExport:"
	prefixRange   = "isDateRangeExport:"
)

const (
	csvDateLayout = "02/01/2006"
	csvTimeLayout = "15:04"
)

var (
	fullHeader    = []string{"Date", "Time", "Type", "Description", "Amount", "Account", "Created By", "Edited By"}
	accountHeader = []string{"Date", "Time", "Type", "Description", "Amount", "Created By", "Edited By"}
)

// Legacy files carry localized category row labels.
var legacyCategories = map[string]core.Category{
	"income":  core.CategoryIncome,
	"expense": core.CategoryExpense,
	"รายรับ":  core.CategoryIncome,
	"รายจ่าย": core.CategoryExpense,
}

// ExportFileName builds the conventional export file name
// <base>_<yyyymmdd_HHMM>.<ext>.
func ExportFileName(base string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", base, now.Format("20060102_1504"), ext)
}

// EncodeCSV renders a document in the tabular format. The output
// starts with a UTF-8 BOM so spreadsheet tools pick the right charset.
func EncodeCSV(doc Document) ([]byte, error) {
	var rows [][]string
	switch d := doc.(type) {
	case *FullBackup:
		rows = fullBackupRows(d)
	case *AccountSnapshot:
		rows = accountSnapshotRows(d)
	case *DaySnapshot:
		rows = daySnapshotRows(d)
	case *RangeSnapshot:
		rows = rangeSnapshotRows(d)
	default:
		return nil, core.ErrMalformedDocument
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fullBackupRows(d *FullBackup) [][]string {
	rows := [][]string{
		{markerFullBackup},
		append([]string{markerAccountsList}, d.Accounts...),
		{markerTypesStart},
	}
	for _, entry := range d.AccountTypes {
		if len(entry.Types.Income) > 0 {
			rows = append(rows, append([]string{entry.Account, string(core.CategoryIncome)}, entry.Types.Income...))
		}
		if len(entry.Types.Expense) > 0 {
			rows = append(rows, append([]string{entry.Account, string(core.CategoryExpense)}, entry.Types.Expense...))
		}
	}
	rows = append(rows, []string{markerTypesEnd}, []string{markerDataStart}, fullHeader)
	for _, r := range sortedByDateTime(d.Records) {
		date, clock := splitDateTime(r.DateTime)
		rows = append(rows, []string{
			date, clock, r.Type, r.Description, core.FormatAmount(r.Amount),
			r.Account, orDash(r.CreatedBy), orDashPtr(r.EditedBy),
		})
	}
	return rows
}

func accountSnapshotRows(d *AccountSnapshot) [][]string {
	rows := [][]string{
		{prefixAccount + " " + d.AccountName},
		{markerTypes},
		append([]string{string(core.CategoryIncome)}, d.AccountTypes.Income...),
		append([]string{string(core.CategoryExpense)}, d.AccountTypes.Expense...),
		{markerDataStart},
		accountHeader,
	}
	return append(rows, recordRows(d.Records)...)
}

func daySnapshotRows(d *DaySnapshot) [][]string {
	rows := [][]string{
		{prefixAccount + " " + d.AccountName},
		{prefixDaily + " " + d.ExportDate},
		{markerDataStart},
		accountHeader,
	}
	return append(rows, recordRows(d.Records)...)
}

func rangeSnapshotRows(d *RangeSnapshot) [][]string {
	rows := [][]string{
		{prefixAccount + " " + d.AccountName},
		{prefixRange + " " + d.ExportStartDate + " to " + d.ExportEndDate},
		{markerTypes},
		append([]string{string(core.CategoryIncome)}, d.AccountTypes.Income...),
		append([]string{string(core.CategoryExpense)}, d.AccountTypes.Expense...),
		{markerDataStart},
		accountHeader,
	}
	return append(rows, recordRows(d.Records)...)
}

func recordRows(records []core.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range sortedByDateTime(records) {
		date, clock := splitDateTime(r.DateTime)
		rows = append(rows, []string{
			date, clock, r.Type, r.Description, core.FormatAmount(r.Amount),
			orDash(r.CreatedBy), orDashPtr(r.EditedBy),
		})
	}
	return rows
}

// DecodeCSV parses the tabular format into a typed document. The
// reader is deliberately lenient: it accepts the legacy localized
// category labels, the legacy "HH.MM น." time form, and record rows
// with or without the audit-trail columns.
func DecodeCSV(r io.Reader) (Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		isFullBackup, isDaily, isRange bool
		accountName                    string
		exportDate                     string
		startDate, endDate             string
		accountsList                   []string
		typesByAccount                 = make(map[string]core.CategoryTypes)
		singleTypes                    core.CategoryTypes
		records                        []core.Record
		inTypesSection                 bool
		inDataSection                  bool
		headerSkipped                  bool
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
		}
		if len(row) == 0 {
			continue
		}
		first := strings.TrimSpace(strings.TrimPrefix(row[0], "\uFEFF"))

		switch {
		case first == "":
			continue
		case first == markerFullBackup:
			isFullBackup = true
			continue
		case first == markerAccountsList:
			accountsList = append(accountsList, row[1:]...)
			continue
		case first == markerTypesStart, first == markerTypes:
			inTypesSection = true
			continue
		case first == markerTypesEnd:
			inTypesSection = false
			continue
		case first == markerDataStart:
			inTypesSection = false
			inDataSection = true
			continue
		case strings.HasPrefix(first, prefixAccount):
			accountName = strings.TrimSpace(strings.TrimPrefix(first, prefixAccount))
			continue
		case strings.HasPrefix(first, prefixDaily):
			isDaily = true
			exportDate = strings.TrimSpace(strings.TrimPrefix(first, prefixDaily))
			continue
		case strings.HasPrefix(first, prefixRange):
			isRange = true
			rangeStr := strings.TrimSpace(strings.TrimPrefix(first, prefixRange))
			if from, to, ok := strings.Cut(rangeStr, " to "); ok {
				startDate, endDate = strings.TrimSpace(from), strings.TrimSpace(to)
			}
			continue
		}

		if inTypesSection {
			readTypesRow(row, &accountName, typesByAccount, &singleTypes, isFullBackup)
			continue
		}

		if inDataSection {
			if !headerSkipped {
				headerSkipped = true
				continue
			}
			rec, ok := parseRecordRow(row, accountName, isFullBackup)
			if ok {
				records = append(records, rec)
			}
		}
	}

	switch {
	case isFullBackup:
		return &FullBackup{
			Accounts:     accountsList,
			Records:      records,
			AccountTypes: TypeEntriesFromMap(typesByAccount, accountsList),
		}, nil
	case isDaily && accountName != "":
		return &DaySnapshot{
			AccountName:   accountName,
			IsDailyExport: true,
			ExportDate:    exportDate,
			Records:       records,
		}, nil
	case isRange && accountName != "":
		return &RangeSnapshot{
			AccountName:       accountName,
			IsDateRangeExport: true,
			ExportStartDate:   startDate,
			ExportEndDate:     endDate,
			RecordCount:       len(records),
			Records:           records,
			AccountTypes:      singleTypes,
		}, nil
	case accountName != "":
		return &AccountSnapshot{
			AccountName:  accountName,
			Records:      records,
			AccountTypes: singleTypes,
		}, nil
	}
	return nil, core.ErrMalformedDocument
}

// readTypesRow handles both section flavors: full backups carry
// [account, category, labels...] rows, single-account documents carry
// [category, labels...] rows.
func readTypesRow(row []string, accountName *string, byAccount map[string]core.CategoryTypes, single *core.CategoryTypes, fullBackup bool) {
	if fullBackup {
		if len(row) < 3 {
			return
		}
		account := strings.TrimSpace(row[0])
		cat, ok := legacyCategories[strings.TrimSpace(row[1])]
		if !ok {
			return
		}
		if *accountName == "" {
			*accountName = account
		}
		ct := byAccount[account]
		ct.Income = append([]string(nil), ct.Income...)
		ct.Expense = append([]string(nil), ct.Expense...)
		for _, label := range row[2:] {
			if l := strings.TrimSpace(label); l != "" {
				ct.Add(cat, l)
			}
		}
		byAccount[account] = ct
		return
	}

	if len(row) < 1 {
		return
	}
	cat, ok := legacyCategories[strings.TrimSpace(row[0])]
	if !ok {
		return
	}
	for _, label := range row[1:] {
		if l := strings.TrimSpace(label); l != "" {
			single.Add(cat, l)
		}
	}
}

func parseRecordRow(row []string, fallbackAccount string, hasAccountColumn bool) (core.Record, bool) {
	if len(row) < 5 {
		return core.Record{}, false
	}

	dateTime, err := parseDisplayDateTime(row[0], row[1])
	if err != nil {
		return core.Record{}, false
	}
	amount, err := parseDisplayAmount(row[4])
	if err != nil {
		return core.Record{}, false
	}

	rec := core.Record{
		DateTime:    dateTime,
		Type:        strings.TrimSpace(row[2]),
		Description: row[3],
		Amount:      amount,
		Account:     fallbackAccount,
	}

	auditOffset := 5
	if hasAccountColumn {
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			rec.Account = strings.TrimSpace(row[5])
		}
		auditOffset = 6
	}
	if len(row) > auditOffset {
		rec.CreatedBy = dashToEmpty(row[auditOffset])
	}
	if len(row) > auditOffset+1 {
		if edited := dashToEmpty(row[auditOffset+1]); edited != "" {
			rec.EditedBy = &edited
		}
	}
	return rec, true
}

// parseDisplayDateTime converts the display forms dd/mm/yyyy and
// "HH:MM" (legacy: "HH.MM น.") back to the record date-time layout.
func parseDisplayDateTime(dateStr, timeStr string) (string, error) {
	parts := strings.Split(strings.TrimSpace(dateStr), "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("bad date %q", dateStr)
	}
	day, month, year := pad2(parts[0]), pad2(parts[1]), parts[2]

	clock := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(timeStr), "น."))
	clock = strings.ReplaceAll(clock, ".", ":")
	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return "", fmt.Errorf("bad time %q", timeStr)
	}

	dateTime := fmt.Sprintf("%s-%s-%s %s:%s", year, month, day, pad2(hh), pad2(mm))
	if _, err := core.ParseDateTime(dateTime); err != nil {
		return "", err
	}
	return dateTime, nil
}

// parseDisplayAmount strips grouping separators and currency noise.
func parseDisplayAmount(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return decimal.NewFromString(b.String())
}

func sortedByDateTime(records []core.Record) []core.Record {
	out := make([]core.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		ti, erri := core.ParseDateTime(out[i].DateTime)
		tj, errj := core.ParseDateTime(out[j].DateTime)
		if erri != nil || errj != nil {
			return false
		}
		return ti.Before(tj)
	})
	return out
}

func splitDateTime(dateTime string) (string, string) {
	t, err := core.ParseDateTime(dateTime)
	if err != nil {
		date, clock, _ := strings.Cut(dateTime, " ")
		return date, clock
	}
	return t.Format(csvDateLayout), t.Format(csvTimeLayout)
}

func pad2(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orDashPtr(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func dashToEmpty(s string) string {
	s = strings.TrimSpace(s)
	if s == "-" {
		return ""
	}
	return s
}
