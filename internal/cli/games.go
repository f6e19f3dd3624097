package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/pterm/pterm"

	"github.com/mmynk/allinbank/internal/export"
	"github.com/mmynk/allinbank/internal/ledger"
	"github.com/mmynk/allinbank/internal/models"
)

// newCmd holds the flags for the 'new' subcommand.
type newCmd struct {
	currency string
	buyIn    string
	passcode string
}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "start a new game" }
func (*newCmd) Usage() string {
	return `allinbank new [-currency <code>] [-buyin <amount>] [-passcode <code>] [<name>]

  Starts a new game with an empty ledger. Without a name the game is called
  after today's date.
`
}

func (c *newCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Currency code used to display amounts (default from config)")
	f.StringVar(&c.buyIn, "buyin", "", "Default buy-in amount (default from config)")
	f.StringVar(&c.passcode, "passcode", "", "Passcode required to reopen the game over RPC")
}

func (c *newCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	game := &models.Game{
		Name:         strings.Join(f.Args(), " "),
		Currency:     strings.ToUpper(c.currency),
		DefaultBuyIn: s.cfg.DefaultBuyIn,
	}
	if game.Currency == "" {
		game.Currency = s.cfg.DefaultCurrency
	}
	if c.buyIn != "" {
		if game.DefaultBuyIn, err = ledger.ParseAmount(c.buyIn); err != nil {
			return usageError("Error parsing buy-in: %v", err)
		}
	}
	if game.PasscodeHash, err = s.hasher().Hash(c.passcode); err != nil {
		return usageError("Error: %v", err)
	}

	if err := s.store.CreateGame(ctx, game); err != nil {
		return fail(err)
	}
	slog.Debug("Game created", "game_id", game.ID)

	fmt.Fprintf(out, "Started %s (%s), default buy-in %s\n",
		pterm.LightCyan(game.Name), game.ID, export.FormatAmount(game.DefaultBuyIn, game.Currency))
	return subcommands.ExitSuccess
}

type gamesCmd struct{}

func (*gamesCmd) Name() string     { return "games" }
func (*gamesCmd) Synopsis() string { return "list saved games, newest first" }
func (*gamesCmd) Usage() string {
	return `allinbank games

  Lists every game in the database. Use the ID or name with -game.
`
}
func (*gamesCmd) SetFlags(*flag.FlagSet) {}

func (*gamesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	games, err := s.store.ListGames(ctx)
	if err != nil {
		return fail(err)
	}
	if len(games) == 0 {
		fmt.Fprintln(out, ErrNoGames.Error())
		return subcommands.ExitSuccess
	}

	rows := [][]string{{"ID", "Name", "Currency", "Buy-in", "Started"}}
	for _, g := range games {
		rows = append(rows, []string{
			g.ID,
			g.Name,
			g.Currency,
			export.FormatAmount(g.DefaultBuyIn, g.Currency),
			time.Unix(g.CreatedAt, 0).Format(time.DateTime),
		})
	}
	if err := renderTable(rows); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type resetCmd struct{}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "clear every player and entry of the game" }
func (*resetCmd) Usage() string {
	return `allinbank [-game <game>] reset

  Clears the game's ledger. The game itself is kept.
`
}
func (*resetCmd) SetFlags(*flag.FlagSet) {}

func (*resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withGame(ctx, true, func(_ *session, game *models.Game, l *ledger.Ledger) error {
		cleared := l.Len()
		l.Reset()
		fmt.Fprintf(out, "Cleared %d entries from %s\n", cleared, game.Name)
		return nil
	})
}
