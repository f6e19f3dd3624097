package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"
	"github.com/pterm/pterm"

	"github.com/mmynk/allinbank/internal/calculator"
	"github.com/mmynk/allinbank/internal/export"
	"github.com/mmynk/allinbank/internal/ledger"
	"github.com/mmynk/allinbank/internal/models"
)

// balancesCmd holds the flags for the 'balances' subcommand.
type balancesCmd struct {
	entries bool
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "show each player's buy-ins, cash-outs and net" }
func (*balancesCmd) Usage() string {
	return `allinbank [-game <game>] balances [-entries]
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.entries, "entries", false, "also list every recorded entry with its ID")
}

func (c *balancesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withGame(ctx, false, func(_ *session, game *models.Game, l *ledger.Ledger) error {
		fmt.Fprintln(out, pterm.LightCyan(game.Name))
		if c.entries {
			if err := renderTable(entryRows(l.Entries(), game.Currency)); err != nil {
				return err
			}
		}
		if err := renderTable(balanceRows(l.NetBalances(), game.Currency)); err != nil {
			return err
		}

		fmt.Fprintf(out, "Total buy-ins %s, total cash-outs %s\n",
			export.FormatAmount(l.TotalBuyIns(), game.Currency),
			export.FormatAmount(l.TotalCashOuts(), game.Currency))
		if unmatched := l.Unmatched(); unmatched.Abs().GreaterThan(calculator.Tolerance) {
			fmt.Fprintln(out, pterm.LightYellow(fmt.Sprintf("Unmatched %s: not every chip has been cashed out",
				export.FormatSigned(unmatched, game.Currency))))
		}
		return nil
	})
}

type settleCmd struct{}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "show who pays whom to settle the game" }
func (*settleCmd) Usage() string {
	return `allinbank [-game <game>] settle

  Lists the payments that bring every balance to zero. Fails while cash-outs
  do not match buy-ins.
`
}
func (*settleCmd) SetFlags(*flag.FlagSet) {}

func (*settleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withGame(ctx, false, func(_ *session, game *models.Game, l *ledger.Ledger) error {
		balances := l.NetBalances()
		transfers, err := calculator.Settle(balances)
		if err != nil {
			return fmt.Errorf("%w: unmatched %s", err, export.FormatSigned(l.Unmatched(), game.Currency))
		}
		if len(transfers) == 0 {
			fmt.Fprintln(out, "Nobody owes anything")
			return nil
		}
		if err := renderTable(transferRows(transfers, game.Currency)); err != nil {
			return err
		}
		if winner, loser, ok := calculator.Leaders(balances); ok {
			fmt.Fprintf(out, "Biggest winner: %s (%s)\n", winner.Player, export.FormatSigned(winner.Net, game.Currency))
			fmt.Fprintf(out, "Biggest payer: %s (%s)\n", loser.Player, export.FormatSigned(loser.Net, game.Currency))
		}
		return nil
	})
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the game as JSON or CSV" }
func (*exportCmd) Usage() string {
	return `allinbank [-game <game>] export [-format json|csv] [-o <path>]

  json writes one snapshot (to stdout without -o) that 'import' reads back.
  csv writes buyins.csv, cashouts.csv and transfers.csv into the -o directory.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "Output format: json or csv")
	f.StringVar(&c.output, "o", "", "Output file for json, directory for csv")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "json" && c.format != "csv" {
		return usageError("unknown format %q, want json or csv", c.format)
	}
	return withGame(ctx, false, func(_ *session, game *models.Game, l *ledger.Ledger) error {
		snap := export.Build(game, l, time.Now())
		if c.format == "json" {
			return c.writeJSON(snap)
		}
		return c.writeCSV(snap)
	})
}

func (c *exportCmd) writeJSON(snap export.Snapshot) error {
	if c.output == "" {
		return export.WriteJSON(out, snap)
	}
	return writeFile(c.output, func(w io.Writer) error { return export.WriteJSON(w, snap) })
}

func (c *exportCmd) writeCSV(snap export.Snapshot) error {
	dir := c.output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"buyins.csv", func(w io.Writer) error { return export.WriteBuyInsCSV(w, snap.Balances, snap.Currency) }},
		{"cashouts.csv", func(w io.Writer) error { return export.WriteCashOutsCSV(w, snap.Balances, snap.Currency) }},
		{"transfers.csv", func(w io.Writer) error { return export.WriteTransfersCSV(w, snap.Transfers, snap.Currency) }},
	}
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		if err := writeFile(path, file.write); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	if snap.SettlementError != "" {
		fmt.Fprintln(out, pterm.LightYellow("transfers.csv is empty: "+snap.SettlementError))
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return write(f)
}

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	asNew bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a JSON snapshot written by export" }
func (*importCmd) Usage() string {
	return `allinbank [-game <game>] import [-new] <file.json>

  Replaces the game's ledger with the snapshot's. With -new, the snapshot is
  loaded into a new game named after it.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asNew, "new", false, "import into a new game instead of replacing the current one")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("usage: import [-new] <file.json>")
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	snap, err := export.ReadSnapshot(file)
	file.Close()
	if err != nil {
		return fail(err)
	}
	restored, err := snap.Restore()
	if err != nil {
		return fail(err)
	}

	if c.asNew {
		s, err := openSession()
		if err != nil {
			return fail(err)
		}
		defer s.Close()
		game := &models.Game{Name: snap.GameName, Currency: snap.Currency, DefaultBuyIn: s.cfg.DefaultBuyIn}
		if game.Currency == "" {
			game.Currency = s.cfg.DefaultCurrency
		}
		if err := s.store.CreateGame(ctx, game); err != nil {
			return fail(err)
		}
		if err := s.save(ctx, game.ID, restored); err != nil {
			return fail(err)
		}
		fmt.Fprintf(out, "Imported %d entries into new game %s (%s)\n", restored.Len(), game.Name, game.ID)
		return subcommands.ExitSuccess
	}

	return withGame(ctx, true, func(_ *session, game *models.Game, l *ledger.Ledger) error {
		*l = *restored
		fmt.Fprintf(out, "Imported %d entries into %s\n", l.Len(), game.Name)
		return nil
	})
}
