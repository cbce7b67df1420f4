package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/codec"
	"ledgerbook/internal/core"
	"ledgerbook/internal/service"
)

func dayDoc(account string, records ...core.Record) *codec.DaySnapshot {
	return &codec.DaySnapshot{
		AccountName:   account,
		IsDailyExport: true,
		ExportDate:    "2024-03-01",
		Records:       records,
	}
}

func TestExportFullBackup(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.AddAccount(ctx, "Shop"))
	require.NoError(t, ledger.AddAccount(ctx, "Home"))
	require.NoError(t, ledger.SetBackupPassword(ctx, "secret"))
	addRecord(t, ledger, "2024-03-01 10:00", "Groceries", "market", "100")

	doc := ledger.ExportFullBackup()

	assert.Equal(t, []string{"Shop", "Home"}, doc.Accounts)
	require.NotNil(t, doc.CurrentAccount)
	assert.Equal(t, "Shop", *doc.CurrentAccount)
	require.Len(t, doc.Records, 1)
	// The password stays local even when exports are encrypted with it.
	assert.Nil(t, doc.BackupPassword)

	types := doc.AccountTypes.ToMap()
	assert.Contains(t, types, "Shop")
	assert.Contains(t, types, "Home")
}

func TestExportAccountAndDayAndRange(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.AddAccount(ctx, "Shop"))
	addRecord(t, ledger, "2024-03-01 10:00", "Groceries", "in range", "100")
	addRecord(t, ledger, "2024-04-15 10:00", "Groceries", "out of range", "50")

	account, err := ledger.ExportAccount()
	require.NoError(t, err)
	assert.Equal(t, "Shop", account.AccountName)
	assert.Len(t, account.Records, 2)

	day, _ := core.ParseDate("2024-03-01")
	daily, err := ledger.ExportDay(day)
	require.NoError(t, err)
	assert.True(t, daily.IsDailyExport)
	assert.Equal(t, "2024-03-01", daily.ExportDate)
	require.Len(t, daily.Records, 1)
	assert.Equal(t, "in range", daily.Records[0].Description)

	from, _ := core.ParseDate("2024-03-01")
	to, _ := core.ParseDate("2024-03-31")
	ranged, err := ledger.ExportRange(from, to)
	require.NoError(t, err)
	assert.True(t, ranged.IsDateRangeExport)
	assert.Equal(t, 1, ranged.RecordCount)
	require.Len(t, ranged.Records, 1)
	assert.NotEmpty(t, ranged.ExportTimestamp)
	assert.NotEmpty(t, ranged.AccountTypes.Expense)
}

func TestExport_RequiresSelectedAccount(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.ExportAccount()
	assert.ErrorIs(t, err, core.ErrNoAccountSelected)
	_, err = ledger.ExportDay(time.Now())
	assert.ErrorIs(t, err, core.ErrNoAccountSelected)
	_, err = ledger.ExportRange(time.Now(), time.Now())
	assert.ErrorIs(t, err, core.ErrNoAccountSelected)
}

func TestImportFullBackup_ReplacesEverything(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.AddAccount(ctx, "Old"))
	require.NoError(t, ledger.SetBackupPassword(ctx, "keepme"))
	addRecord(t, ledger, "2024-03-01 10:00", "Groceries", "old record", "10")

	current := "Restored"
	result, err := ledger.ImportDocument(ctx, &codec.FullBackup{
		Accounts:       []string{"Restored", "Second"},
		CurrentAccount: &current,
		Records: []core.Record{{
			DateTime: "2024-02-01 09:00", Type: "Groceries", Description: "restored",
			Amount: mustAmount(t, "42"), Account: "Restored",
		}},
		AccountTypes: codec.TypeEntries{
			{Account: "Restored", Types: core.CategoryTypes{Expense: []string{"Groceries"}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "full backup", result.Kind)
	assert.Equal(t, 1, result.Inserted)

	assert.Equal(t, []string{"Restored", "Second"}, ledger.Accounts())
	assert.Equal(t, "Restored", ledger.CurrentAccount())
	assert.Empty(t, ledger.RecordsByAccount("Old"))
	require.Len(t, ledger.RecordsByAccount("Restored"), 1)
	// The locally stored password survives the restore.
	assert.Equal(t, "keepme", ledger.BackupPassword())
}

func TestImportAccountSnapshot_ReplacesAccount(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.AddAccount(ctx, "Shop"))
	require.NoError(t, ledger.AddAccount(ctx, "Home"))
	addRecord(t, ledger, "2024-03-01 10:00", "Groceries", "shop record", "10")
	require.NoError(t, ledger.SelectAccount(ctx, "Home"))
	addRecord(t, ledger, "2024-03-01 11:00", "Groceries", "home record", "20")

	result, err := ledger.ImportDocument(ctx, &codec.AccountSnapshot{
		AccountName: "Shop",
		Records: []core.Record{{
			DateTime: "2024-02-01 09:00", Type: "Supplies", Description: "imported",
			Amount: mustAmount(t, "33"), Account: "Shop",
		}},
		AccountTypes: core.CategoryTypes{Expense: []string{"Supplies"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Replaced)
	assert.Equal(t, 1, result.Inserted)

	shop := ledger.RecordsByAccount("Shop")
	require.Len(t, shop, 1)
	assert.Equal(t, "imported", shop[0].Description)
	// Other accounts are untouched.
	require.Len(t, ledger.RecordsByAccount("Home"), 1)
}

func TestImportAccountSnapshot_CreatesMissingAccount(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.ImportDocument(ctx, &codec.AccountSnapshot{
		AccountName:  "Fresh",
		AccountTypes: core.CategoryTypes{Expense: []string{"Supplies"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Fresh"}, ledger.Accounts())
	assert.Equal(t, "Fresh", ledger.CurrentAccount())
}

func TestImportDaySnapshot_MergeIsIdempotent(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.AddAccount(ctx, "Shop"))

	doc := dayDoc("Shop",
		core.Record{
			DateTime: "2024-03-01 10:00", Type: "Groceries", Description: "market",
			Amount: mustAmount(t, "100"), Account: "Shop",
		},
		core.Record{
			DateTime: "2024-03-01 12:00", Type: "Groceries", Description: "second trip",
			Amount: mustAmount(t, "40"), Account: "Shop",
		},
	)

	first, err := ledger.ImportDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)
	assert.Equal(t, 0, first.Skipped)

	second, err := ledger.ImportDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 2, second.Skipped)

	require.Len(t, ledger.RecordsByAccount("Shop"), 2)
}

func TestImportRangeSnapshot_AdoptsUnknownTypes(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, ledger.AddAccount(ctx, "Shop"))

	result, err := ledger.ImportDocument(ctx, &codec.RangeSnapshot{
		AccountName:       "Shop",
		IsDateRangeExport: true,
		ExportStartDate:   "2024-03-01",
		ExportEndDate:     "2024-03-31",
		RecordCount:       1,
		Records: []core.Record{{
			DateTime: "2024-03-10 09:00", Type: "Consulting", Description: "invoice",
			Amount: mustAmount(t, "750"), Account: "Shop",
		}},
		AccountTypes: core.CategoryTypes{Income: []string{"Consulting"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)

	ct, err := ledger.Types(ctx)
	require.NoError(t, err)
	assert.Contains(t, ct.Income, "Consulting")

	// The merged record is classifiable right away.
	s, err := ledger.SummarizeAll("Shop")
	require.NoError(t, err)
	assert.True(t, s.TotalIncome.Equal(mustAmount(t, "750")))
}

func TestImport_MalformedDocuments(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.ImportDocument(ctx, &codec.AccountSnapshot{})
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
	_, err = ledger.ImportDocument(ctx, dayDoc(""))
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
}

func TestImportThenExport_RoundTrip(t *testing.T) {
	source, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, source.AddAccount(ctx, "Shop"))
	addRecord(t, source, "2024-03-01 10:00", "Groceries", "market", "100")

	backup := source.ExportFullBackup()
	data, err := codec.EncodeJSON(backup, "pw")
	require.NoError(t, err)

	target := func() *service.Ledger {
		store := &memStore{}
		ledger, err := service.New(ctx, store, "Other")
		require.NoError(t, err)
		return ledger
	}()

	decoded, err := codec.DecodeJSON(data, "pw")
	require.NoError(t, err)
	_, err = target.ImportDocument(ctx, decoded)
	require.NoError(t, err)

	assert.Equal(t, source.Accounts(), target.Accounts())
	require.Len(t, target.RecordsByAccount("Shop"), 1)
	assert.Equal(t, "market", target.RecordsByAccount("Shop")[0].Description)
}
