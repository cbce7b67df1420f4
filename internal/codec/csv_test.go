package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestEncodeDecodeCSV_AccountSnapshot(t *testing.T) {
	doc := &AccountSnapshot{
		AccountName: "Shop",
		Records: []core.Record{
			sampleRecord("market run", 1250),
			{
				DateTime:    "2024-03-02 08:30",
				Type:        "Lottery Win",
				Description: "small prize",
				Amount:      decimalFromString(t, "500"),
				Account:     "Shop",
				CreatedBy:   "Tester",
				CreatedTime: "2024-03-02T08:30:00Z",
			},
		},
		AccountTypes: core.CategoryTypes{
			Income:  []string{"Lottery Win"},
			Expense: []string{"Groceries"},
		},
	}

	data, err := EncodeCSV(doc)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "\uFEFF"), "missing BOM")
	assert.Contains(t, text, "Account: Shop")
	assert.Contains(t, text, markerTypes)
	assert.Contains(t, text, markerDataStart)
	assert.Contains(t, text, "01/03/2024")

	decoded, err := DecodeCSV(bytes.NewReader(bytes.TrimPrefix(data, []byte("\uFEFF"))))
	require.NoError(t, err)
	snap, ok := decoded.(*AccountSnapshot)
	require.True(t, ok, "decoded %T, want *AccountSnapshot", decoded)
	assert.Equal(t, "Shop", snap.AccountName)
	assert.Equal(t, []string{"Lottery Win"}, snap.AccountTypes.Income)
	require.Len(t, snap.Records, 2)

	// The tabular form is chronological; the first row is the earlier record.
	assert.Equal(t, "2024-03-01 10:00", snap.Records[0].DateTime)
	assert.True(t, snap.Records[0].Amount.Equal(decimalFromString(t, "1250")))
	assert.Equal(t, "Tester", snap.Records[1].CreatedBy)
}

func TestEncodeDecodeCSV_DaySnapshot(t *testing.T) {
	doc := &DaySnapshot{
		AccountName:   "Shop",
		IsDailyExport: true,
		ExportDate:    "2024-03-01",
		Records:       []core.Record{sampleRecord("market run", 200)},
	}

	data, err := EncodeCSV(doc)
	require.NoError(t, err)

	decoded, err := DecodeCSV(bytes.NewReader(data[3:])) // skip BOM
	require.NoError(t, err)
	snap, ok := decoded.(*DaySnapshot)
	require.True(t, ok, "decoded %T", decoded)
	assert.True(t, snap.IsDailyExport)
	assert.Equal(t, "2024-03-01", snap.ExportDate)
	require.Len(t, snap.Records, 1)
}

func TestEncodeDecodeCSV_RangeSnapshot(t *testing.T) {
	doc := &RangeSnapshot{
		AccountName:       "Shop",
		IsDateRangeExport: true,
		ExportStartDate:   "2024-03-01",
		ExportEndDate:     "2024-03-31",
		RecordCount:       1,
		Records:           []core.Record{sampleRecord("market run", 200)},
		AccountTypes: core.CategoryTypes{
			Expense: []string{"Groceries"},
		},
	}

	data, err := EncodeCSV(doc)
	require.NoError(t, err)

	decoded, err := DecodeCSV(bytes.NewReader(data[3:]))
	require.NoError(t, err)
	snap, ok := decoded.(*RangeSnapshot)
	require.True(t, ok, "decoded %T", decoded)
	assert.Equal(t, "2024-03-01", snap.ExportStartDate)
	assert.Equal(t, "2024-03-31", snap.ExportEndDate)
	assert.Equal(t, []string{"Groceries"}, snap.AccountTypes.Expense)
	assert.Equal(t, 1, snap.RecordCount)
}

func TestEncodeDecodeCSV_FullBackup(t *testing.T) {
	doc := &FullBackup{
		Accounts: []string{"Shop", "Home"},
		Records: []core.Record{
			sampleRecord("market run", 200),
		},
		AccountTypes: TypeEntries{
			{Account: "Shop", Types: core.CategoryTypes{
				Income:  []string{"Lottery Win"},
				Expense: []string{"Groceries"},
			}},
		},
	}

	data, err := EncodeCSV(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), markerFullBackup)

	decoded, err := DecodeCSV(bytes.NewReader(data[3:]))
	require.NoError(t, err)
	backup, ok := decoded.(*FullBackup)
	require.True(t, ok, "decoded %T", decoded)
	assert.Equal(t, []string{"Shop", "Home"}, backup.Accounts)
	require.Len(t, backup.Records, 1)
	assert.Equal(t, "Shop", backup.Records[0].Account)
	types := backup.AccountTypes.ToMap()
	assert.Equal(t, []string{"Lottery Win"}, types["Shop"].Income)
}

func TestDecodeCSV_LegacyForms(t *testing.T) {
	// Localized category rows, "HH.MM น." times, grouped amounts, and
	// dash placeholders in the audit columns.
	input := strings.Join([]string{
		"Account: Shop",
		markerTypes,
		"รายรับ,Lottery Win",
		"รายจ่าย,Groceries",
		markerDataStart,
		"Date,Time,Type,Description,Amount,Created By",
		`1/3/2024,9.05 น.,Groceries,market run,"1,250.50",-`,
	}, "\n")

	decoded, err := DecodeCSV(strings.NewReader(input))
	require.NoError(t, err)
	snap, ok := decoded.(*AccountSnapshot)
	require.True(t, ok, "decoded %T", decoded)
	assert.Equal(t, []string{"Lottery Win"}, snap.AccountTypes.Income)
	require.Len(t, snap.Records, 1)

	r := snap.Records[0]
	assert.Equal(t, "2024-03-01 09:05", r.DateTime)
	assert.True(t, r.Amount.Equal(decimalFromString(t, "1250.50")), "amount = %s", r.Amount)
	assert.Empty(t, r.CreatedBy)
	assert.Nil(t, r.EditedBy)
}

func TestDecodeCSV_Malformed(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("just,a,plain,csv\n1,2,3,4\n"))
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 5, 0, 0, time.Local)
	assert.Equal(t, "shop_20240301_0905.json", ExportFileName("shop", now, "json"))
	assert.Equal(t, "backup_20240301_0905.csv", ExportFileName("backup", now, "csv"))
}
