// Package calculator turns per-player net balances into the transfers that
// settle them.
package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/models"
)

// Tolerance is the largest amount treated as zero when checking that balances
// sum to zero and when retiring settled parties.
var Tolerance = decimal.New(1, -6)

// ErrUnbalancedLedger is returned when the net balances do not sum to zero.
var ErrUnbalancedLedger = errors.New("unbalanced ledger")

// party is a debtor or creditor with the amount still outstanding.
type party struct {
	name      string
	remaining decimal.Decimal // always positive
}

// Settle computes the transfers that bring every balance back to zero.
//
// Algorithm (greedy largest-magnitude matching):
//   - Split players into debtors (net < 0) and creditors (net > 0); zero nets are skipped
//   - Pick the debtor owing the most and the creditor owed the most
//   - Transfer min(owed, due) from debtor to creditor and reduce both
//   - Retire anyone whose remainder is within Tolerance; repeat until one side is empty
//
// Ties go to the player that comes first in balances, so the same input
// always yields the same transfers. The result has at most
// len(debtors)+len(creditors)-1 transfers. It is not guaranteed to be the
// smallest possible set.
func Settle(balances []models.PlayerBalance) ([]models.Transfer, error) {
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Net)
	}
	if sum.Abs().GreaterThan(Tolerance) {
		return nil, fmt.Errorf("%w: balances sum to %s", ErrUnbalancedLedger, sum)
	}

	// Create lists of creditors (owed money) and debtors (owe money)
	var debtors, creditors []*party
	for _, b := range balances {
		switch {
		case b.Net.LessThan(Tolerance.Neg()):
			debtors = append(debtors, &party{name: b.Player, remaining: b.Net.Neg()})
		case b.Net.GreaterThan(Tolerance):
			creditors = append(creditors, &party{name: b.Player, remaining: b.Net})
		}
	}

	transfers := make([]models.Transfer, 0, len(debtors)+len(creditors))
	for len(debtors) > 0 && len(creditors) > 0 {
		di := largest(debtors)
		ci := largest(creditors)
		debtor, creditor := debtors[di], creditors[ci]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(debtor.remaining, creditor.remaining)
		transfers = append(transfers, models.Transfer{
			From:   debtor.name,
			To:     creditor.name,
			Amount: amount,
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThanOrEqual(Tolerance) {
			debtors = remove(debtors, di)
		}
		if creditor.remaining.LessThanOrEqual(Tolerance) {
			creditors = remove(creditors, ci)
		}
	}

	return transfers, nil
}

// Leaders returns the players with the highest and the lowest net. Both are
// false when balances is empty. Ties go to the earlier player.
func Leaders(balances []models.PlayerBalance) (winner, loser models.PlayerBalance, ok bool) {
	if len(balances) == 0 {
		return winner, loser, false
	}
	winner, loser = balances[0], balances[0]
	for _, b := range balances[1:] {
		if b.Net.GreaterThan(winner.Net) {
			winner = b
		}
		if b.Net.LessThan(loser.Net) {
			loser = b
		}
	}
	return winner, loser, true
}

// largest returns the index of the party with the largest remaining amount,
// preferring the earliest on ties.
func largest(parties []*party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		if parties[i].remaining.GreaterThan(parties[best].remaining) {
			best = i
		}
	}
	return best
}

// remove deletes parties[i] while keeping the remaining parties in order.
func remove(parties []*party, i int) []*party {
	return append(parties[:i], parties[i+1:]...)
}
