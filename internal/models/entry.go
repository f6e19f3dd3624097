package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the closed set of monetary events a ledger records.
type EntryKind string

const (
	KindBuyIn   EntryKind = "buy_in"
	KindRebuy   EntryKind = "rebuy"
	KindCashOut EntryKind = "cash_out"
)

// EntryKinds lists every recognized kind in display order.
var EntryKinds = []EntryKind{KindBuyIn, KindRebuy, KindCashOut}

// Valid reports whether k is one of the recognized kinds.
func (k EntryKind) Valid() bool {
	switch k {
	case KindBuyIn, KindRebuy, KindCashOut:
		return true
	}
	return false
}

// Contribution reports whether the kind puts money into the game.
func (k EntryKind) Contribution() bool {
	return k == KindBuyIn || k == KindRebuy
}

func (k EntryKind) String() string { return string(k) }

// LedgerEntry is one recorded monetary event. Entries are immutable: they are
// appended, removed individually, or cleared with the whole ledger.
type LedgerEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string `json:"id"`

	// Seq orders entries within a ledger. Used for display and export only.
	Seq int64 `json:"seq"`

	// PlayerKey is the normalized key of the owning player.
	PlayerKey string `json:"player_key"`

	// Player is the display name of the owning player.
	Player string `json:"player"`

	Kind   EntryKind       `json:"kind"`
	Amount decimal.Decimal `json:"amount"`

	CreatedAt time.Time `json:"created_at"`
}
