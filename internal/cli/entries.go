package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/export"
	"github.com/mmynk/allinbank/internal/ledger"
	"github.com/mmynk/allinbank/internal/models"
)

type playerCmd struct{}

func (*playerCmd) Name() string     { return "player" }
func (*playerCmd) Synopsis() string { return "seat a player without recording money" }
func (*playerCmd) Usage() string {
	return `allinbank [-game <game>] player <name>
`
}
func (*playerCmd) SetFlags(*flag.FlagSet) {}

func (*playerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return usageError("player requires a name")
	}
	return withGame(ctx, true, func(_ *session, _ *models.Game, l *ledger.Ledger) error {
		p, err := l.AddPlayer(strings.Join(f.Args(), " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Seated %s\n", p.Name)
		return nil
	})
}

// entryCmd records a buy-in or a rebuy. The amount defaults to the game's
// default buy-in.
type entryCmd struct {
	kind models.EntryKind
}

func (c *entryCmd) Name() string {
	return strings.ReplaceAll(c.kind.String(), "_", "")
}

func (c *entryCmd) Synopsis() string {
	if c.kind == models.KindRebuy {
		return "record a rebuy"
	}
	return "record a buy-in"
}

func (c *entryCmd) Usage() string {
	return fmt.Sprintf(`allinbank [-game <game>] %s <player> [<amount>]

  Without an amount the game's default buy-in is used.
`, c.Name())
}

func (*entryCmd) SetFlags(*flag.FlagSet) {}

func (c *entryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		return usageError("usage: %s <player> [<amount>]", c.Name())
	}
	var amount *decimal.Decimal
	if f.NArg() == 2 {
		a, err := ledger.ParseAmount(f.Arg(1))
		if err != nil {
			return usageError("Error parsing amount: %v", err)
		}
		amount = &a
	}

	return withGame(ctx, true, func(_ *session, game *models.Game, l *ledger.Ledger) error {
		if amount == nil {
			amount = &game.DefaultBuyIn
		}
		e, err := l.AddEntry(f.Arg(0), c.kind, *amount)
		if err != nil {
			return err
		}
		slog.Debug("Entry recorded", "game_id", game.ID, "player", e.Player, "kind", e.Kind)
		fmt.Fprintf(out, "%s %s %s\n", e.Player, c.Name(), export.FormatAmount(e.Amount, game.Currency))
		return nil
	})
}

// cashoutCmd holds the flags for the 'cashout' subcommand.
type cashoutCmd struct {
	set bool
}

func (*cashoutCmd) Name() string     { return "cashout" }
func (*cashoutCmd) Synopsis() string { return "record the chips a player leaves with" }
func (*cashoutCmd) Usage() string {
	return `allinbank [-game <game>] cashout [-set] <player> <amount>

  Records a cash-out. With -set, replaces the player's earlier cash-outs.
`
}

func (c *cashoutCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.set, "set", false, "replace the player's previous cash-outs instead of adding")
}

func (c *cashoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usageError("usage: cashout [-set] <player> <amount>")
	}
	amount, err := ledger.ParseAmount(f.Arg(1))
	if err != nil {
		return usageError("Error parsing amount: %v", err)
	}

	return withGame(ctx, true, func(_ *session, game *models.Game, l *ledger.Ledger) error {
		var e models.LedgerEntry
		var err error
		if c.set {
			e, err = l.SetCashOut(f.Arg(0), amount)
		} else {
			e, err = l.AddEntry(f.Arg(0), models.KindCashOut, amount)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s cashout %s\n", e.Player, export.FormatAmount(e.Amount, game.Currency))
		return nil
	})
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "delete a mistyped entry" }
func (*removeCmd) Usage() string {
	return `allinbank [-game <game>] remove <entry-id>

  Entry IDs are listed by 'allinbank balances -entries'. A unique prefix is enough.
`
}
func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (*removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("usage: remove <entry-id>")
	}
	return withGame(ctx, true, func(_ *session, _ *models.Game, l *ledger.Ledger) error {
		id, err := matchEntry(l, f.Arg(0))
		if err != nil {
			return err
		}
		if err := l.RemoveEntry(id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed entry %s\n", id)
		return nil
	})
}

// matchEntry expands a unique ID prefix to the full entry ID.
func matchEntry(l *ledger.Ledger, prefix string) (string, error) {
	var match string
	for _, e := range l.Entries() {
		if !strings.HasPrefix(e.ID, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("entry prefix %q is ambiguous", prefix)
		}
		match = e.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ledger.ErrEntryNotFound, prefix)
	}
	return match, nil
}
