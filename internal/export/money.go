package export

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// currency returns the go-money currency for code. Unknown codes get a
// currency with two fraction digits and the code as prefix.
func currency(code string) *money.Currency {
	code = strings.ToUpper(code)
	if cur := money.GetCurrency(code); cur != nil {
		return cur
	}
	return &money.Currency{
		Code:     code,
		Fraction: 2,
		Grapheme: code + " ",
		Template: "$1",
		Decimal:  ".",
		Thousand: ",",
	}
}

// FormatAmount renders amount in the currency's conventional format, e.g.
// "$1,234.50" for USD. Amounts are rounded to the currency's minor unit.
func FormatAmount(amount decimal.Decimal, code string) string {
	cur := currency(code)
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// FormatSigned is FormatAmount with an explicit '+' on positive amounts.
func FormatSigned(amount decimal.Decimal, code string) string {
	s := FormatAmount(amount, code)
	if amount.Round(int32(currency(code).Fraction)).IsPositive() {
		return "+" + s
	}
	return s
}

// fixed renders amount with exactly the currency's fraction digits and no
// symbol, for machine-readable output.
func fixed(amount decimal.Decimal, code string) string {
	return amount.StringFixed(int32(currency(code).Fraction))
}
