package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/export"
	"github.com/mmynk/allinbank/internal/models"
)

func renderTable(rows [][]string) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintln(out, table)
	return nil
}

// signed colors winners green and losers red.
func signed(amount decimal.Decimal, currency string) string {
	s := export.FormatSigned(amount, currency)
	switch {
	case amount.IsPositive():
		return pterm.LightGreen(s)
	case amount.IsNegative():
		return pterm.LightRed(s)
	}
	return s
}

func balanceRows(balances []models.PlayerBalance, currency string) [][]string {
	rows := [][]string{{"Player", "Buy-ins", "Cash-outs", "Net"}}
	for _, b := range balances {
		rows = append(rows, []string{
			b.Player,
			export.FormatAmount(b.BuyIns, currency),
			export.FormatAmount(b.CashOuts, currency),
			signed(b.Net, currency),
		})
	}
	return rows
}

func entryRows(entries []models.LedgerEntry, currency string) [][]string {
	rows := [][]string{{"#", "ID", "Player", "Kind", "Amount"}}
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprint(e.Seq),
			e.ID[:min(8, len(e.ID))],
			e.Player,
			e.Kind.String(),
			export.FormatAmount(e.Amount, currency),
		})
	}
	return rows
}

func transferRows(transfers []models.Transfer, currency string) [][]string {
	rows := [][]string{{"From", "To", "Amount"}}
	for _, t := range transfers {
		rows = append(rows, []string{t.From, t.To, export.FormatAmount(t.Amount, currency)})
	}
	return rows
}
