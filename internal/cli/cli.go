// Package cli implements the allinbank subcommands. They work directly on the
// SQLite game database, so no server needs to be running at the table.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/allinbank/internal/auth"
	"github.com/mmynk/allinbank/internal/config"
	"github.com/mmynk/allinbank/internal/ledger"
	"github.com/mmynk/allinbank/internal/models"
	"github.com/mmynk/allinbank/internal/storage"
	"github.com/mmynk/allinbank/internal/storage/sqlite"
)

var (
	configPath = flag.String("config", "allinbank.yaml", "Path to the YAML config file")
	dbPath     = flag.String("db", "", "Path to the game database (default from config)")
	gameRef    = flag.String("game", "", "Game ID or name (default: the most recent game)")
)

// out receives everything commands print for the user.
var out io.Writer = os.Stdout

// ErrNoGames is returned when a command needs a game and none exists yet.
var ErrNoGames = errors.New("no games yet, start one with 'allinbank new'")

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&newCmd{}, "games")
	c.Register(&gamesCmd{}, "games")
	c.Register(&resetCmd{}, "games")

	c.Register(&playerCmd{}, "ledger")
	c.Register(&entryCmd{kind: models.KindBuyIn}, "ledger")
	c.Register(&entryCmd{kind: models.KindRebuy}, "ledger")
	c.Register(&cashoutCmd{}, "ledger")
	c.Register(&removeCmd{}, "ledger")

	c.Register(&balancesCmd{}, "results")
	c.Register(&settleCmd{}, "results")
	c.Register(&exportCmd{}, "results")
	c.Register(&importCmd{}, "results")
}

// session is the opened database plus the resolved configuration.
type session struct {
	cfg   config.Config
	store storage.Store
}

func openSession() (*session, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("Opened game database", "database", cfg.DBPath)
	return &session{cfg: cfg, store: store}, nil
}

func (s *session) Close() error { return s.store.Close() }

func (s *session) hasher() *auth.PasscodeHasher {
	return auth.NewPasscodeHasher(s.cfg.BcryptCost)
}

// game resolves the -game flag: an exact ID, then a name compared the way
// player names are, then the most recent game when the flag is empty.
func (s *session) game(ctx context.Context) (*models.Game, error) {
	ref := *gameRef
	if ref != "" {
		game, err := s.store.GetGame(ctx, ref)
		if err == nil {
			return game, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		if len(games) == 0 {
			return nil, ErrNoGames
		}
		return games[0], nil
	}
	for _, g := range games {
		if ledger.SameName(g.Name, ref) {
			return g, nil
		}
	}
	return nil, fmt.Errorf("game %w: %s", storage.ErrNotFound, ref)
}

func (s *session) ledger(ctx context.Context, gameID string) (*ledger.Ledger, error) {
	players, entries, err := s.store.LoadLedger(ctx, gameID)
	if err != nil {
		return nil, err
	}
	l := ledger.New()
	if err := l.Load(players, entries); err != nil {
		return nil, fmt.Errorf("stored ledger of game %s is corrupt: %w", gameID, err)
	}
	return l, nil
}

func (s *session) save(ctx context.Context, gameID string, l *ledger.Ledger) error {
	return s.store.SaveLedger(ctx, gameID, l.Players(), l.Entries())
}

// withGame opens the database, resolves the game and its ledger and runs fn.
// When save is set the ledger is written back after fn succeeds.
func withGame(ctx context.Context, save bool, fn func(s *session, game *models.Game, l *ledger.Ledger) error) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	game, err := s.game(ctx)
	if err != nil {
		return fail(err)
	}
	l, err := s.ledger(ctx, game.ID)
	if err != nil {
		return fail(err)
	}

	if err := fn(s, game, l); err != nil {
		return fail(err)
	}
	if save {
		if err := s.save(ctx, game.ID, l); err != nil {
			return fail(err)
		}
	}
	return subcommands.ExitSuccess
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitUsageError
}
