package filing

import (
	"errors"
	"testing"
)

func TestNewKey_Normalization(t *testing.T) {
	tests := []struct {
		name   string
		ticker string
		form   string
		filed  string
		want   Key
	}{
		{
			name:   "lowercase ticker and form",
			ticker: "nvda",
			form:   "10-k",
			filed:  "2024-11-01",
			want:   Key{Ticker: "NVDA", Form: "10-K", Filed: "2024-11-01"},
		},
		{
			name:   "surrounding whitespace",
			ticker: "  aapl ",
			form:   " 10-Q\t",
			filed:  " 2024-05-02 ",
			want:   Key{Ticker: "AAPL", Form: "10-Q", Filed: "2024-05-02"},
		},
		{
			name:   "already normalized",
			ticker: "MSFT",
			form:   "10-K",
			filed:  "2023-07-27",
			want:   Key{Ticker: "MSFT", Form: "10-K", Filed: "2023-07-27"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewKey(tt.ticker, tt.form, tt.filed)
			if got != tt.want {
				t.Errorf("NewKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewKey_EquivalentKeysShareDir(t *testing.T) {
	a := NewKey("nvda", "10-k", "2024-11-01")
	b := NewKey(" NVDA ", "10-K", "2024-11-01")

	if a.Dir() != b.Dir() {
		t.Errorf("equivalent keys map to different dirs: %q vs %q", a.Dir(), b.Dir())
	}
}

func TestKey_Dir(t *testing.T) {
	key := NewKey("NVDA", "10-K", "2024-11-01")
	want := "NVDA/10-K_2024-11-01"
	if got := key.Dir(); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestKey_Validate(t *testing.T) {
	tests := []struct {
		name      string
		key       Key
		wantField string
	}{
		{name: "valid", key: NewKey("NVDA", "10-K", "2024-11-01")},
		{name: "missing ticker", key: NewKey("", "10-K", "2024-11-01"), wantField: "ticker"},
		{name: "missing form", key: NewKey("NVDA", "", "2024-11-01"), wantField: "form"},
		{name: "missing filed", key: NewKey("NVDA", "10-K", ""), wantField: "filed"},
		{name: "whitespace only ticker", key: NewKey("   ", "10-K", "2024-11-01"), wantField: "ticker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("Validate() error = %v, want *FieldError", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", fieldErr.Field, tt.wantField)
			}
		})
	}
}
