package models

import "github.com/shopspring/decimal"

// Game represents one session of play. Each game owns an independent ledger.
type Game struct {
	// ID is the unique identifier for the game (UUID format).
	ID string `json:"id"`

	// Name is the display name of the game (e.g., "Home Game 2026-10-19").
	Name string `json:"name"`

	// Currency is the ISO 4217 code used when formatting amounts (e.g., "USD").
	// It is display-only: all entries of a game share one currency.
	Currency string `json:"currency"`

	// DefaultBuyIn is the amount suggested for a new buy-in.
	DefaultBuyIn decimal.Decimal `json:"default_buy_in"`

	// PasscodeHash is the bcrypt hash of the passcode needed to reopen the game.
	// Empty means the game can be reopened without a passcode.
	PasscodeHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the game was created.
	CreatedAt int64 `json:"created_at"`
}

// Player is a registered identity within a game's ledger.
type Player struct {
	// Key is the normalized comparison form of the name.
	Key string `json:"key"`

	// Name is the display form taken from the first occurrence.
	Name string `json:"name"`
}
