package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tradecost/internal/costing"
	"tradecost/internal/models"
	"tradecost/internal/tariff"
)

func openTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	l, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteLedger: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func testRecord(t *testing.T, tradeID, symbol string, ts time.Time) *models.TradeRecord {
	t.Helper()
	eval := costing.NewEvaluator(costing.NewCalculator(tariff.DefaultSchedule()), 0.01)
	analysis, err := eval.Evaluate(models.TradeTypeDelivery, 100.00, 102.00, 100, 0.01)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return &models.TradeRecord{
		TradeID:        tradeID,
		Symbol:         symbol,
		Type:           models.TradeTypeDelivery,
		Quantity:       100,
		BasePrice:      100.00,
		ExecutionPrice: 102.00,
		Analysis:       analysis,
		Timestamp:      ts,
	}
}

func TestAppendAndQueryRoundTrip(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	ts := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

	if err := l.Append(ctx, testRecord(t, "TC-1001", "RELIANCE", ts)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := l.Trades(ctx, Filter{Symbol: "RELIANCE"})
	if err != nil {
		t.Fatalf("Trades: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.TradeID != "TC-1001" || e.Symbol != "RELIANCE" || e.Type != models.TradeTypeDelivery {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Quantity != 100 || e.BasePrice != 100.00 || e.ExecutionPrice != 102.00 {
		t.Errorf("unexpected entry amounts: %+v", e)
	}
	// Money fields persist as exact decimal strings.
	if e.NetProfit != "160.66" {
		t.Errorf("net_profit = %q, want 160.66", e.NetProfit)
	}
	if e.GrossProfit != "200" {
		t.Errorf("gross_profit = %q, want 200", e.GrossProfit)
	}
	if !e.Charges.STT.Equal(e.Charges.STT.Truncate(2)) {
		t.Errorf("stt %s not floored to the paisa", e.Charges.STT)
	}
	if !e.Charges.Sum().Equal(e.Charges.Total) {
		t.Errorf("charges sum %s != total %s after round trip", e.Charges.Sum(), e.Charges.Total)
	}
}

// The ledger is append-only: re-appending the same trade id must fail rather
// than overwrite.
func TestAppendDuplicateTradeIDFails(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	ts := time.Now().UTC()

	if err := l.Append(ctx, testRecord(t, "TC-1002", "TCS", ts)); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := l.Append(ctx, testRecord(t, "TC-1002", "TCS", ts)); err == nil {
		t.Fatal("duplicate append succeeded, ledger is not append-only")
	}

	entries, err := l.Trades(ctx, Filter{Symbol: "TCS"})
	if err != nil {
		t.Fatalf("Trades: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries after duplicate append, want 1", len(entries))
	}
}

func TestAppendRejectsRecordWithoutAnalysis(t *testing.T) {
	l := openTestLedger(t)

	err := l.Append(context.Background(), &models.TradeRecord{TradeID: "TC-1003", Symbol: "INFY"})
	if err == nil {
		t.Fatal("expected an error for a record without analysis")
	}
}

func TestTradesFilterAndOrdering(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)

	for i, symbol := range []string{"RELIANCE", "TCS", "RELIANCE", "INFY"} {
		rec := testRecord(t, "TC-20"+string(rune('0'+i)), symbol, base.Add(time.Duration(i)*time.Hour))
		if err := l.Append(ctx, rec); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}

	entries, err := l.Trades(ctx, Filter{Symbol: "RELIANCE"})
	if err != nil {
		t.Fatalf("Trades: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d RELIANCE entries, want 2", len(entries))
	}
	if !entries[0].Timestamp.After(entries[1].Timestamp) {
		t.Errorf("entries not newest first: %v, %v", entries[0].Timestamp, entries[1].Timestamp)
	}

	limited, err := l.Trades(ctx, Filter{Limit: 2})
	if err != nil {
		t.Fatalf("Trades(limit): %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d entries with limit 2", len(limited))
	}

	windowed, err := l.Trades(ctx, Filter{
		StartDate: base.Add(30 * time.Minute),
		EndDate:   base.Add(150 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Trades(window): %v", err)
	}
	if len(windowed) != 2 {
		t.Errorf("got %d entries in window, want 2", len(windowed))
	}
}
