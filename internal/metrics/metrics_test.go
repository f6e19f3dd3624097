package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/allinbank/internal/models"
)

func TestEntryRecorded(t *testing.T) {
	before := testutil.ToFloat64(entriesRecorded.WithLabelValues("rebuy"))
	EntryRecorded(models.KindRebuy)
	EntryRecorded(models.KindRebuy)
	if got := testutil.ToFloat64(entriesRecorded.WithLabelValues("rebuy")) - before; got != 2 {
		t.Errorf("rebuy counter increased by %v, want 2", got)
	}
}

func TestSettlementComputed(t *testing.T) {
	okBefore := testutil.ToFloat64(settlements.WithLabelValues("ok"))
	badBefore := testutil.ToFloat64(settlements.WithLabelValues("unbalanced"))

	SettlementComputed(3, nil)
	SettlementComputed(0, errors.New("unbalanced"))

	if got := testutil.ToFloat64(settlements.WithLabelValues("ok")) - okBefore; got != 1 {
		t.Errorf("ok settlements increased by %v, want 1", got)
	}
	if got := testutil.ToFloat64(settlements.WithLabelValues("unbalanced")) - badBefore; got != 1 {
		t.Errorf("unbalanced settlements increased by %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	ObserveRPC("/allinbank.v1.GameService/Settle", "ok", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "allinbank_rpc_duration_seconds") {
		t.Error("expected rpc duration histogram in /metrics output")
	}
}
