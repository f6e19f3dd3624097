package ledger

import "errors"

var (
	// ErrInvalidAmount is returned for negative, non-numeric, NaN, or infinite amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidKind is returned for entry kinds other than buy_in, rebuy, and cash_out.
	ErrInvalidKind = errors.New("invalid entry kind")
	// ErrInvalidName is returned when a player name is blank after normalization.
	ErrInvalidName = errors.New("player name required")
	// ErrEntryNotFound is returned when removing an entry the ledger does not hold.
	ErrEntryNotFound = errors.New("entry not found")
)
