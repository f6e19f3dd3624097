// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/allinbank/internal/models"
	"github.com/mmynk/allinbank/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGame persists a new game to the database.
func (s *SQLiteStore) CreateGame(ctx context.Context, game *models.Game) error {
	// Generate ID if not set
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	if game.CreatedAt == 0 {
		game.CreatedAt = time.Now().Unix()
	}
	if game.Name == "" {
		game.Name = fmt.Sprintf("Home Game %s", time.Unix(game.CreatedAt, 0).Format("2006-01-02"))
	}

	var passcode interface{} = nil
	if game.PasscodeHash != "" {
		passcode = game.PasscodeHash
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, name, currency, default_buy_in, passcode_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		game.ID, game.Name, game.Currency, game.DefaultBuyIn.String(), passcode, game.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID.
func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, currency, default_buy_in, passcode_hash, created_at
		 FROM games WHERE id = ?`,
		gameID,
	)
	game, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game %w: %s", storage.ErrNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// ListGames retrieves all games, newest first.
func (s *SQLiteStore) ListGames(ctx context.Context) ([]*models.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, currency, default_buy_in, passcode_hash, created_at
		 FROM games ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return games, nil
}

// DeleteGame removes a game by ID. Its players and entries are removed by cascade.
func (s *SQLiteStore) DeleteGame(ctx context.Context, gameID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted game: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("game %w: %s", storage.ErrNotFound, gameID)
	}
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*models.Game, error) {
	game := &models.Game{}
	var defaultBuyIn string
	var passcode sql.NullString

	if err := row.Scan(&game.ID, &game.Name, &game.Currency, &defaultBuyIn, &passcode, &game.CreatedAt); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(defaultBuyIn)
	if err != nil {
		return nil, fmt.Errorf("invalid default buy-in %q: %w", defaultBuyIn, err)
	}
	game.DefaultBuyIn = amount
	if passcode.Valid {
		game.PasscodeHash = passcode.String
	}
	return game, nil
}
