package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/models"
)

// ParseAmount parses a decimal currency amount such as "12.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := validateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseKind parses an entry kind. Accepted spellings are the canonical
// buy_in, rebuy, and cash_out, case-insensitive, with '-' accepted for '_'.
func ParseKind(s string) (models.EntryKind, error) {
	k := models.EntryKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q, want one of %s", ErrInvalidKind, s, kindList())
	}
	return k, nil
}

func kindList() string {
	names := make([]string, len(models.EntryKinds))
	for i, k := range models.EntryKinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

func validateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}
	return nil
}
