package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/ledger"
	"github.com/mmynk/allinbank/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	for _, step := range []struct {
		name   string
		kind   models.EntryKind
		amount string
	}{
		{"Alex", models.KindBuyIn, "20"},
		{"Bri", models.KindBuyIn, "10"},
		{"Casey", models.KindBuyIn, "10"},
		{"alex", models.KindCashOut, "5"},
		{"Bri", models.KindCashOut, "25"},
		{"Casey", models.KindCashOut, "10"},
	} {
		if _, err := l.AddEntry(step.name, step.kind, dec(step.amount)); err != nil {
			t.Fatalf("AddEntry failed: %v", err)
		}
	}
	return l
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{amount: "50", currency: "USD", want: "$50.00"},
		{amount: "1234.5", currency: "usd", want: "$1,234.50"},
		{amount: "-12.5", currency: "USD", want: "-$12.50"},
		{amount: "0.005", currency: "USD", want: "$0.01"},
		{amount: "7.25", currency: "XXQ", want: "XXQ 7.25"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.currency, func(t *testing.T) {
			if got := FormatAmount(dec(tt.amount), tt.currency); got != tt.want {
				t.Errorf("FormatAmount(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(dec("15"), "USD"); got != "+$15.00" {
		t.Errorf("FormatSigned(15) = %q", got)
	}
	if got := FormatSigned(dec("-15"), "USD"); got != "-$15.00" {
		t.Errorf("FormatSigned(-15) = %q", got)
	}
	if got := FormatSigned(decimal.Zero, "USD"); got != "$0.00" {
		t.Errorf("FormatSigned(0) = %q", got)
	}
}

func TestBuild(t *testing.T) {
	game := &models.Game{Name: "Home Game", Currency: "USD"}
	now := time.Date(2026, 10, 19, 21, 0, 0, 0, time.UTC)

	snap := Build(game, sampleLedger(t), now)

	if snap.GameName != "Home Game" || snap.Currency != "USD" || !snap.CreatedAt.Equal(now) {
		t.Errorf("unexpected header: %+v", snap)
	}
	if len(snap.Players) != 3 || len(snap.Entries) != 6 || len(snap.Balances) != 3 {
		t.Fatalf("players=%d entries=%d balances=%d, want 3/6/3", len(snap.Players), len(snap.Entries), len(snap.Balances))
	}
	if !snap.TotalBuyIn.Equal(dec("40")) || !snap.TotalCashOut.Equal(dec("40")) || !snap.Unmatched.IsZero() {
		t.Errorf("totals = %s/%s/%s, want 40/40/0", snap.TotalBuyIn, snap.TotalCashOut, snap.Unmatched)
	}
	if snap.SettlementError != "" {
		t.Errorf("unexpected settlement error %q", snap.SettlementError)
	}
	if len(snap.Transfers) != 1 || snap.Transfers[0].From != "Alex" || snap.Transfers[0].To != "Bri" || !snap.Transfers[0].Amount.Equal(dec("15")) {
		t.Errorf("transfers = %+v, want Alex pays Bri 15", snap.Transfers)
	}
}

func TestBuild_Unbalanced(t *testing.T) {
	l := ledger.New()
	if _, err := l.AddEntry("Alex", models.KindBuyIn, dec("20")); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	snap := Build(&models.Game{Name: "Open", Currency: "USD"}, l, time.Now())
	if snap.SettlementError == "" {
		t.Error("expected settlement error for unbalanced game")
	}
	if snap.Transfers == nil || len(snap.Transfers) != 0 {
		t.Errorf("transfers = %#v, want empty non-nil slice", snap.Transfers)
	}
	if !snap.Unmatched.Equal(dec("-20")) {
		t.Errorf("unmatched = %s, want -20", snap.Unmatched)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := sampleLedger(t)
	snap := Build(&models.Game{Name: "Home Game", Currency: "EUR"}, original, time.Now())

	var buf bytes.Buffer
	if err := WriteJSON(&buf, snap); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"game_name": "Home Game"`) {
		t.Errorf("unexpected JSON:\n%s", buf.String())
	}

	read, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	restored, err := read.Restore()
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	want := original.NetBalances()
	got := restored.NetBalances()
	if len(got) != len(want) {
		t.Fatalf("balances = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Player != want[i].Player || !got[i].Net.Equal(want[i].Net) {
			t.Errorf("balance %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	gotEntries, wantEntries := restored.Entries(), original.Entries()
	for i := range wantEntries {
		if gotEntries[i].ID != wantEntries[i].ID || gotEntries[i].Seq != wantEntries[i].Seq {
			t.Errorf("entry %d = %+v, want %+v", i, gotEntries[i], wantEntries[i])
		}
	}
}

func TestReadSnapshot_Errors(t *testing.T) {
	if _, err := ReadSnapshot(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := ReadSnapshot(strings.NewReader(`{"version": 99}`)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestCSV(t *testing.T) {
	l := sampleLedger(t)
	balances := l.NetBalances()

	var buyins, cashouts, transfers bytes.Buffer
	if err := WriteBuyInsCSV(&buyins, balances, "USD"); err != nil {
		t.Fatalf("WriteBuyInsCSV failed: %v", err)
	}
	if err := WriteCashOutsCSV(&cashouts, balances, "USD"); err != nil {
		t.Fatalf("WriteCashOutsCSV failed: %v", err)
	}
	if err := WriteTransfersCSV(&transfers, []models.Transfer{{From: "Alex", To: "Bri", Amount: dec("15")}}, "USD"); err != nil {
		t.Fatalf("WriteTransfersCSV failed: %v", err)
	}

	if want := "Player,Total_Buyin\nAlex,20.00\nBri,10.00\nCasey,10.00\n"; buyins.String() != want {
		t.Errorf("buy-ins CSV = %q, want %q", buyins.String(), want)
	}
	if want := "Player,Cashout\nAlex,5.00\nBri,25.00\nCasey,10.00\n"; cashouts.String() != want {
		t.Errorf("cash-outs CSV = %q, want %q", cashouts.String(), want)
	}
	if want := "From,To,Amount\nAlex,Bri,15.00\n"; transfers.String() != want {
		t.Errorf("transfers CSV = %q, want %q", transfers.String(), want)
	}
}
