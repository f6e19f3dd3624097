package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/models"
	"github.com/mmynk/allinbank/internal/storage"
)

// LoadLedger retrieves a game's players and entries.
func (s *SQLiteStore) LoadLedger(ctx context.Context, gameID string) ([]models.Player, []models.LedgerEntry, error) {
	if err := s.gameExists(ctx, s.db, gameID); err != nil {
		return nil, nil, err
	}

	// Get players
	rows, err := s.db.QueryContext(ctx,
		"SELECT player_key, name FROM players WHERE game_id = ? ORDER BY position",
		gameID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.Key, &p.Name); err != nil {
			return nil, nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	// Get entries
	entryRows, err := s.db.QueryContext(ctx,
		`SELECT id, seq, player_key, player, kind, amount, created_at
		 FROM entries WHERE game_id = ? ORDER BY seq`,
		gameID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer entryRows.Close()

	var entries []models.LedgerEntry
	for entryRows.Next() {
		var e models.LedgerEntry
		var kind, amount string
		var createdAt int64
		if err := entryRows.Scan(&e.ID, &e.Seq, &e.PlayerKey, &e.Player, &kind, &amount, &createdAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Kind = models.EntryKind(kind)
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid amount %q for entry %s: %w", amount, e.ID, err)
		}
		e.CreatedAt = time.Unix(0, createdAt).UTC()
		entries = append(entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return players, entries, nil
}

// SaveLedger replaces a game's players and entries in one transaction.
func (s *SQLiteStore) SaveLedger(ctx context.Context, gameID string, players []models.Player, entries []models.LedgerEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.gameExists(ctx, tx, gameID); err != nil {
		return err
	}

	// Entries reference players, so they go first
	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM players WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}

	for i, p := range players {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO players (game_id, player_key, name, position) VALUES (?, ?, ?, ?)",
			gameID, p.Key, p.Name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert player: %w", err)
		}
	}

	for _, e := range entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries (id, game_id, seq, player_key, player, kind, amount, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, gameID, e.Seq, e.PlayerKey, e.Player, string(e.Kind), e.Amount.String(), e.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) gameExists(ctx context.Context, q querier, gameID string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM games WHERE id = ?", gameID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("game %w: %s", storage.ErrNotFound, gameID)
	}
	if err != nil {
		return fmt.Errorf("failed to check game existence: %w", err)
	}
	return nil
}
