package codec

import (
	"encoding/json"
	"fmt"

	"ledgerbook/internal/core"
)

// EncodeJSON serializes a document, sealing it in a password envelope
// when password is non-empty.
func EncodeJSON(doc Document, password string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	if password == "" {
		return data, nil
	}

	env, err := Seal(data, password)
	if err != nil {
		return nil, fmt.Errorf("encrypt document: %w", err)
	}
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return out, nil
}

// DecodeJSON parses raw export bytes into a typed document. Encrypted
// payloads require a password; plaintext payloads ignore it. The shape
// checks run in the order the export formats evolved: full backup,
// day snapshot, range snapshot, then single account.
func DecodeJSON(data []byte, password string) (Document, error) {
	if IsEncrypted(data) {
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: bad envelope", core.ErrMalformedDocument)
		}
		plaintext, err := Open(&env, password)
		if err != nil {
			return nil, err
		}
		data = plaintext
	}

	var probe struct {
		Accounts          []string `json:"accounts"`
		IsDailyExport     bool     `json:"isDailyExport"`
		IsDateRangeExport bool     `json:"isDateRangeExport"`
		AccountName       string   `json:"accountName"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
	}

	switch {
	case probe.Accounts != nil:
		var doc FullBackup
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: full backup: %v", core.ErrMalformedDocument, err)
		}
		return &doc, nil
	case probe.IsDailyExport:
		var doc DaySnapshot
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: day snapshot: %v", core.ErrMalformedDocument, err)
		}
		return &doc, nil
	case probe.IsDateRangeExport:
		var doc RangeSnapshot
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: range snapshot: %v", core.ErrMalformedDocument, err)
		}
		return &doc, nil
	case probe.AccountName != "":
		var doc AccountSnapshot
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: account snapshot: %v", core.ErrMalformedDocument, err)
		}
		return &doc, nil
	}
	return nil, core.ErrMalformedDocument
}
