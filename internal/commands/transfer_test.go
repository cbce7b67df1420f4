package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/codec"
	"ledgerbook/internal/core"
)

func TestDecodeImport_PlainJSON(t *testing.T) {
	data, err := codec.EncodeJSON(&codec.AccountSnapshot{AccountName: "Shop"}, "")
	require.NoError(t, err)

	doc, err := decodeImport(data, "", "")
	require.NoError(t, err)
	snap, ok := doc.(*codec.AccountSnapshot)
	require.True(t, ok, "decoded %T", doc)
	assert.Equal(t, "Shop", snap.AccountName)
}

func TestDecodeImport_EncryptedUsesStoredPassword(t *testing.T) {
	data, err := codec.EncodeJSON(&codec.AccountSnapshot{AccountName: "Shop"}, "stored-pw")
	require.NoError(t, err)

	// No --password flag: the stored backup password is tried.
	doc, err := decodeImport(data, "", "stored-pw")
	require.NoError(t, err)
	assert.IsType(t, &codec.AccountSnapshot{}, doc)

	// An explicit flag wins over the stored password.
	_, err = decodeImport(data, "wrong", "stored-pw")
	assert.ErrorIs(t, err, core.ErrDecryptionFailed)
}

func TestDecodeImport_TabularSnapshot(t *testing.T) {
	data, err := codec.EncodeCSV(&codec.AccountSnapshot{
		AccountName:  "Shop",
		AccountTypes: core.CategoryTypes{Expense: []string{"Groceries"}},
	})
	require.NoError(t, err)

	doc, err := decodeImport(data, "", "")
	require.NoError(t, err)
	snap, ok := doc.(*codec.AccountSnapshot)
	require.True(t, ok, "decoded %T", doc)
	assert.Equal(t, "Shop", snap.AccountName)
}

func TestDecodeImport_RejectsTabularFullBackup(t *testing.T) {
	data, err := codec.EncodeCSV(&codec.FullBackup{Accounts: []string{"Shop"}})
	require.NoError(t, err)

	_, err = decodeImport(data, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
	assert.Contains(t, err.Error(), "JSON")
}
