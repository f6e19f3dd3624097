// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/allinbank/internal/models"
)

// ErrNotFound is wrapped by errors returned for missing games.
var ErrNotFound = errors.New("not found")

// Store defines the interface for game storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGame persists a new game.
	// The game.ID and game.CreatedAt fields will be populated by the store if empty.
	CreateGame(ctx context.Context, game *models.Game) error

	// GetGame retrieves a game by its ID.
	GetGame(ctx context.Context, gameID string) (*models.Game, error)

	// ListGames returns all games, newest first.
	ListGames(ctx context.Context) ([]*models.Game, error)

	// DeleteGame removes a game together with its ledger.
	DeleteGame(ctx context.Context, gameID string) error

	// LoadLedger returns the game's players in first-seen order and its
	// entries in recording order.
	LoadLedger(ctx context.Context, gameID string) ([]models.Player, []models.LedgerEntry, error)

	// SaveLedger atomically replaces the game's players and entries.
	SaveLedger(ctx context.Context, gameID string, players []models.Player, entries []models.LedgerEntry) error

	// Close releases any resources held by the store.
	Close() error
}
