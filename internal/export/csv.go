package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mmynk/allinbank/internal/models"
)

// WriteBuyInsCSV writes one Player,Total_Buyin row per player.
func WriteBuyInsCSV(w io.Writer, balances []models.PlayerBalance, currency string) error {
	rows := [][]string{{"Player", "Total_Buyin"}}
	for _, b := range balances {
		rows = append(rows, []string{b.Player, fixed(b.BuyIns, currency)})
	}
	return writeCSV(w, rows)
}

// WriteCashOutsCSV writes one Player,Cashout row per player.
func WriteCashOutsCSV(w io.Writer, balances []models.PlayerBalance, currency string) error {
	rows := [][]string{{"Player", "Cashout"}}
	for _, b := range balances {
		rows = append(rows, []string{b.Player, fixed(b.CashOuts, currency)})
	}
	return writeCSV(w, rows)
}

// WriteTransfersCSV writes one From,To,Amount row per transfer, in
// settlement order.
func WriteTransfersCSV(w io.Writer, transfers []models.Transfer, currency string) error {
	rows := [][]string{{"From", "To", "Amount"}}
	for _, t := range transfers {
		rows = append(rows, []string{t.From, t.To, fixed(t.Amount, currency)})
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
