package models

import "github.com/shopspring/decimal"

// PlayerBalance is the derived cash flow of one player.
type PlayerBalance struct {
	Player string `json:"player"`
	Key    string `json:"key"`

	// BuyIns is the sum of buy-in and rebuy amounts.
	BuyIns decimal.Decimal `json:"buy_ins"`

	// CashOuts is the sum of cash-out amounts.
	CashOuts decimal.Decimal `json:"cash_outs"`

	// Net is CashOuts - BuyIns. Positive = owed money, negative = owes money.
	Net decimal.Decimal `json:"net"`
}

// Transfer is a payment from a debtor to a creditor that settles part of
// their balances.
type Transfer struct {
	From   string          `json:"from"` // Player who owes
	To     string          `json:"to"`   // Player who is owed
	Amount decimal.Decimal `json:"amount"`
}
