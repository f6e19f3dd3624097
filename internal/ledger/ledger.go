// Package ledger records the buy-ins, rebuys, and cash-outs of one game and
// derives each player's net balance from them.
//
// A Ledger is the state of a single session. It holds no locks: callers that
// share one across goroutines must serialize access.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/models"
)

// Ledger is the authoritative list of monetary events of a game.
type Ledger struct {
	players []models.Player // first-seen order
	index   map[string]int  // player key -> position in players
	entries []models.LedgerEntry
	seq     int64
}

// New returns an empty ledger. The zero value is also ready to use.
func New() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// AddPlayer registers a player without recording any money. Adding a name
// that is already registered returns the existing player.
func (l *Ledger) AddPlayer(rawName string) (models.Player, error) {
	key, display := NormalizeName(rawName)
	if key == "" {
		return models.Player{}, ErrInvalidName
	}
	return l.register(key, display), nil
}

// AddEntry validates and appends one monetary event, registering the player
// if the normalized name has not been seen before.
func (l *Ledger) AddEntry(rawName string, kind models.EntryKind, amount decimal.Decimal) (models.LedgerEntry, error) {
	if !kind.Valid() {
		return models.LedgerEntry{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if err := validateAmount(amount); err != nil {
		return models.LedgerEntry{}, err
	}
	key, display := NormalizeName(rawName)
	if key == "" {
		return models.LedgerEntry{}, ErrInvalidName
	}

	player := l.register(key, display)
	l.seq++
	entry := models.LedgerEntry{
		ID:        uuid.New().String(),
		Seq:       l.seq,
		PlayerKey: player.Key,
		Player:    player.Name,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	l.entries = append(l.entries, entry)
	return entry, nil
}

// SetCashOut replaces the player's recorded cash-outs with a single cash-out
// of the given amount.
func (l *Ledger) SetCashOut(rawName string, amount decimal.Decimal) (models.LedgerEntry, error) {
	if err := validateAmount(amount); err != nil {
		return models.LedgerEntry{}, err
	}
	key, _ := NormalizeName(rawName)
	if key == "" {
		return models.LedgerEntry{}, ErrInvalidName
	}

	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.PlayerKey == key && e.Kind == models.KindCashOut {
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	return l.AddEntry(rawName, models.KindCashOut, amount)
}

// RemoveEntry deletes the entry with the given ID. The player stays
// registered even when it was their last entry.
func (l *Ledger) RemoveEntry(id string) error {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// Reset clears every entry and player, as when starting a new game.
// Resetting an empty ledger is a no-op.
func (l *Ledger) Reset() {
	l.players = nil
	l.index = make(map[string]int)
	l.entries = nil
	l.seq = 0
}

// Load replaces the ledger contents with a previously exported snapshot.
// Players are registered in the given order, followed by any player that only
// appears in entries. Entries without an ID or sequence number get fresh ones.
// The ledger is left unchanged if any entry is invalid.
func (l *Ledger) Load(players []models.Player, entries []models.LedgerEntry) error {
	next := New()
	for _, p := range players {
		name := p.Name
		if name == "" {
			name = p.Key
		}
		if _, err := next.AddPlayer(name); err != nil {
			return err
		}
	}

	for i, e := range entries {
		if !e.Kind.Valid() {
			return fmt.Errorf("entry %d: %w: %q", i, ErrInvalidKind, e.Kind)
		}
		if err := validateAmount(e.Amount); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		name := e.Player
		if name == "" {
			name = e.PlayerKey
		}
		key, display := NormalizeName(name)
		if key == "" {
			return fmt.Errorf("entry %d: %w", i, ErrInvalidName)
		}
		player := next.register(key, display)

		e.PlayerKey, e.Player = player.Key, player.Name
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.Seq <= next.seq {
			e.Seq = next.seq + 1
		}
		next.seq = e.Seq
		next.entries = append(next.entries, e)
	}

	*l = *next
	return nil
}

// Players returns the registered players in first-seen order.
func (l *Ledger) Players() []models.Player {
	return append([]models.Player(nil), l.players...)
}

// Entries returns a copy of the recorded entries in recording order.
func (l *Ledger) Entries() []models.LedgerEntry {
	return append([]models.LedgerEntry(nil), l.entries...)
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int { return len(l.entries) }

// NetBalances returns one balance per registered player, in first-seen order,
// including players whose net is zero.
func (l *Ledger) NetBalances() []models.PlayerBalance {
	balances := make([]models.PlayerBalance, len(l.players))
	for i, p := range l.players {
		balances[i] = models.PlayerBalance{
			Player:   p.Name,
			Key:      p.Key,
			BuyIns:   decimal.Zero,
			CashOuts: decimal.Zero,
		}
	}

	for _, e := range l.entries {
		b := &balances[l.index[e.PlayerKey]]
		if e.Kind.Contribution() {
			b.BuyIns = b.BuyIns.Add(e.Amount)
		} else {
			b.CashOuts = b.CashOuts.Add(e.Amount)
		}
	}

	for i := range balances {
		balances[i].Net = balances[i].CashOuts.Sub(balances[i].BuyIns)
	}
	return balances
}

// TotalBuyIns returns the sum of all buy-in and rebuy amounts.
func (l *Ledger) TotalBuyIns() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		if e.Kind.Contribution() {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalCashOuts returns the sum of all cash-out amounts.
func (l *Ledger) TotalCashOuts() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		if e.Kind == models.KindCashOut {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Unmatched returns total cash-outs minus total buy-ins. It is zero once
// every chip bought has been cashed out.
func (l *Ledger) Unmatched() decimal.Decimal {
	return l.TotalCashOuts().Sub(l.TotalBuyIns())
}

func (l *Ledger) register(key, display string) models.Player {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[key]; ok {
		return l.players[i]
	}
	p := models.Player{Key: key, Name: display}
	l.index[key] = len(l.players)
	l.players = append(l.players, p)
	return p
}
