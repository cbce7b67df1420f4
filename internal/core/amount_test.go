package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain integer", input: "500", want: "500"},
		{name: "decimal point", input: "12.50", want: "12.5"},
		{name: "decimal comma", input: "12,50", want: "12.5"},
		{name: "surrounding spaces", input: " 99 ", want: "99"},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "explicit plus sign", input: "+5", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrValidation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "500", want: "500"},
		{input: "1234.5", want: "1,234.5"},
		{input: "1000000", want: "1,000,000"},
		{input: "2.5", want: "2.5"},
		{input: "-300", want: "-300"},
	}

	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.input)
		if err != nil {
			t.Fatalf("bad test input %q: %v", tt.input, err)
		}
		if got := FormatAmount(d); got != tt.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
