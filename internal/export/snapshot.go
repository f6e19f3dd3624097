// Package export renders a game's ledger for humans and other programs:
// JSON snapshots that can be imported again, CSV tables, and formatted
// money amounts.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/calculator"
	"github.com/mmynk/allinbank/internal/ledger"
	"github.com/mmynk/allinbank/internal/models"
)

// SnapshotVersion is the format version written by WriteJSON.
const SnapshotVersion = 1

// ErrUnsupportedVersion is returned when reading a snapshot written by a
// newer format.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot is the complete exported state of one game.
type Snapshot struct {
	Version   int       `json:"version"`
	GameName  string    `json:"game_name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`

	Players   []models.Player        `json:"players"`
	Entries   []models.LedgerEntry   `json:"entries"`
	Balances  []models.PlayerBalance `json:"balances"`
	Transfers []models.Transfer      `json:"transfers"`

	TotalBuyIn   decimal.Decimal `json:"total_buyin"`
	TotalCashOut decimal.Decimal `json:"total_cashout"`
	Unmatched    decimal.Decimal `json:"unmatched"`

	// SettlementError explains why Transfers is empty for an unbalanced game.
	SettlementError string `json:"settlement_error,omitempty"`
}

// Build captures the current state of a game's ledger.
func Build(game *models.Game, l *ledger.Ledger, now time.Time) Snapshot {
	balances := l.NetBalances()
	snap := Snapshot{
		Version:      SnapshotVersion,
		GameName:     game.Name,
		Currency:     game.Currency,
		CreatedAt:    now.UTC(),
		Players:      l.Players(),
		Entries:      l.Entries(),
		Balances:     balances,
		Transfers:    []models.Transfer{},
		TotalBuyIn:   l.TotalBuyIns(),
		TotalCashOut: l.TotalCashOuts(),
		Unmatched:    l.Unmatched(),
	}

	transfers, err := calculator.Settle(balances)
	if err != nil {
		snap.SettlementError = err.Error()
	} else {
		snap.Transfers = transfers
	}
	return snap
}

// Restore rebuilds the ledger recorded in the snapshot.
func (s Snapshot) Restore() (*ledger.Ledger, error) {
	l := ledger.New()
	if err := l.Load(s.Players, s.Entries); err != nil {
		return nil, fmt.Errorf("failed to restore ledger: %w", err)
	}
	return l, nil
}

// WriteJSON writes the snapshot as indented JSON.
func WriteJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteJSON.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return s, nil
}
