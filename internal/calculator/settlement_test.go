package calculator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// nets builds balances from alternating name/net pairs.
func nets(pairs ...string) []models.PlayerBalance {
	var balances []models.PlayerBalance
	for i := 0; i+1 < len(pairs); i += 2 {
		balances = append(balances, models.PlayerBalance{Player: pairs[i], Net: dec(pairs[i+1])})
	}
	return balances
}

// apply returns each player's net after the transfers are paid.
func apply(balances []models.PlayerBalance, transfers []models.Transfer) map[string]decimal.Decimal {
	after := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		after[b.Player] = b.Net
	}
	for _, tr := range transfers {
		after[tr.From] = after[tr.From].Add(tr.Amount)
		after[tr.To] = after[tr.To].Sub(tr.Amount)
	}
	return after
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.PlayerBalance
		want     []models.Transfer
	}{
		{
			name:     "one winner one loser",
			balances: nets("A", "50", "B", "-50"),
			want:     []models.Transfer{{From: "B", To: "A", Amount: dec("50")}},
		},
		{
			name:     "tied debtors keep first-seen order",
			balances: nets("A", "-100", "B", "-100", "C", "200"),
			want: []models.Transfer{
				{From: "A", To: "C", Amount: dec("100")},
				{From: "B", To: "C", Amount: dec("100")},
			},
		},
		{
			name:     "tied creditors keep first-seen order",
			balances: nets("A", "30", "B", "30", "C", "-60"),
			want: []models.Transfer{
				{From: "C", To: "A", Amount: dec("30")},
				{From: "C", To: "B", Amount: dec("30")},
			},
		},
		{
			name:     "largest debtor pays largest creditor first",
			balances: nets("A", "-10", "B", "-70", "C", "20", "D", "60"),
			want: []models.Transfer{
				{From: "B", To: "D", Amount: dec("60")},
				{From: "A", To: "C", Amount: dec("10")},
				{From: "B", To: "C", Amount: dec("10")},
			},
		},
		{
			name:     "zero net players are skipped",
			balances: nets("A", "0", "B", "-15", "C", "0", "D", "15"),
			want:     []models.Transfer{{From: "B", To: "D", Amount: dec("15")}},
		},
		{
			name:     "cents are exact",
			balances: nets("Alex", "-15.01", "Bri", "10.005", "Casey", "5.005"),
			want: []models.Transfer{
				{From: "Alex", To: "Bri", Amount: dec("10.005")},
				{From: "Alex", To: "Casey", Amount: dec("5.005")},
			},
		},
		{
			name:     "everyone square",
			balances: nets("A", "0", "B", "0"),
			want:     []models.Transfer{},
		},
		{
			name:     "empty input",
			balances: nil,
			want:     []models.Transfer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Settle(tt.balances)
			if err != nil {
				t.Fatalf("Settle() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Settle() = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("transfer %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSettle_Unbalanced(t *testing.T) {
	_, err := Settle(nets("A", "-100", "B", "60"))
	if !errors.Is(err, ErrUnbalancedLedger) {
		t.Fatalf("Settle() error = %v, want ErrUnbalancedLedger", err)
	}
}

func TestSettle_WithinTolerance(t *testing.T) {
	// Drift below the tolerance is absorbed rather than reported.
	got, err := Settle(nets("A", "-10.0000005", "B", "10"))
	if err != nil {
		t.Fatalf("Settle() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].From != "A" || got[0].To != "B" || !got[0].Amount.Equal(dec("10")) {
		t.Errorf("Settle() = %+v, want A pays B 10", got)
	}
}

func TestSettle_Deterministic(t *testing.T) {
	balances := nets("A", "-25", "B", "-25", "C", "-50", "D", "40", "E", "40", "F", "20")
	first, err := Settle(balances)
	if err != nil {
		t.Fatalf("Settle() unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Settle(balances)
		if err != nil {
			t.Fatalf("Settle() unexpected error: %v", err)
		}
		if fmt.Sprint(again) != fmt.Sprint(first) {
			t.Fatalf("run %d differs:\n%v\n%v", i, again, first)
		}
	}
	// The input must not be modified.
	if !reflect.DeepEqual(balances, nets("A", "-25", "B", "-25", "C", "-50", "D", "40", "E", "40", "F", "20")) {
		t.Error("Settle() modified its input")
	}
}

func TestSettle_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))

	for round := 0; round < 200; round++ {
		n := 2 + rng.IntN(9)
		balances := make([]models.PlayerBalance, n)
		sum := decimal.Zero
		for i := 0; i < n-1; i++ {
			net := decimal.New(rng.Int64N(40001)-20000, -2)
			balances[i] = models.PlayerBalance{Player: fmt.Sprintf("P%d", i), Net: net}
			sum = sum.Add(net)
		}
		balances[n-1] = models.PlayerBalance{Player: fmt.Sprintf("P%d", n-1), Net: sum.Neg()}

		transfers, err := Settle(balances)
		if err != nil {
			t.Fatalf("round %d: Settle() unexpected error: %v", round, err)
		}

		debtors, creditors := 0, 0
		debt := decimal.Zero
		for _, b := range balances {
			if b.Net.IsNegative() {
				debtors++
				debt = debt.Add(b.Net.Neg())
			} else if b.Net.IsPositive() {
				creditors++
			}
		}
		if limit := debtors + creditors - 1; limit > 0 && len(transfers) > limit {
			t.Errorf("round %d: %d transfers, want at most %d", round, len(transfers), limit)
		}

		paid := decimal.Zero
		for _, tr := range transfers {
			if !tr.Amount.IsPositive() {
				t.Errorf("round %d: non-positive transfer %+v", round, tr)
			}
			if tr.From == tr.To {
				t.Errorf("round %d: self transfer %+v", round, tr)
			}
			paid = paid.Add(tr.Amount)
		}
		if !paid.Equal(debt) {
			t.Errorf("round %d: transferred %s, want total debt %s", round, paid, debt)
		}

		for name, net := range apply(balances, transfers) {
			if net.Abs().GreaterThan(Tolerance) {
				t.Errorf("round %d: %s ends at %s, want 0", round, name, net)
			}
		}
	}
}

func TestLeaders(t *testing.T) {
	if _, _, ok := Leaders(nil); ok {
		t.Error("Leaders(nil) ok = true, want false")
	}

	winner, loser, ok := Leaders(nets("A", "10", "B", "-40", "C", "30", "D", "30", "E", "-40"))
	if !ok {
		t.Fatal("Leaders() ok = false")
	}
	if winner.Player != "C" {
		t.Errorf("winner = %s, want C", winner.Player)
	}
	if loser.Player != "B" {
		t.Errorf("loser = %s, want B", loser.Player)
	}
}
