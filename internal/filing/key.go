package filing

import (
	"fmt"
	"strings"
)

// Key identifies one filing: a ticker symbol, a form type, and a filed date.
// Two keys that normalize identically refer to the same storage location.
type Key struct {
	Ticker string
	Form   string
	Filed  string
}

// NewKey builds a normalized Key: ticker and form are trimmed and uppercased,
// the filed date is trimmed and kept as given.
func NewKey(ticker, form, filed string) Key {
	return Key{
		Ticker: strings.ToUpper(strings.TrimSpace(ticker)),
		Form:   strings.ToUpper(strings.TrimSpace(form)),
		Filed:  strings.TrimSpace(filed),
	}
}

// Validate reports the first missing identity field, if any.
func (k Key) Validate() error {
	if k.Ticker == "" {
		return &FieldError{Field: "ticker"}
	}
	if k.Form == "" {
		return &FieldError{Field: "form"}
	}
	if k.Filed == "" {
		return &FieldError{Field: "filed"}
	}
	return nil
}

// Dir returns the filing's directory path relative to the data root,
// e.g. "NVDA/10-K_2024-11-01".
func (k Key) Dir() string {
	return fmt.Sprintf("%s/%s_%s", k.Ticker, k.Form, k.Filed)
}

// String returns a compact identity for logging and lock registry keys.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Ticker, k.Form, k.Filed)
}

// FieldError reports a missing or malformed identity field.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
