package costing

import (
	"testing"

	"github.com/shopspring/decimal"

	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
	"tradecost/internal/tariff"
)

func newTestCalculator() *Calculator {
	return NewCalculator(tariff.DefaultSchedule())
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

// Delivery: brokerage is free, STT applies to both legs, DP fee applies on
// the sell leg. Fixture: buy 100x100.00, sell 100x102.00.
func TestComputeDeliveryCharges(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Compute(models.TradeTypeDelivery, d("10000"), d("10200"))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	assertAmount(t, "brokerage", b.Brokerage, d("0"))
	assertAmount(t, "stt", b.STT, d("20.20"))
	assertAmount(t, "transaction_charges", b.TransactionCharges, d("0.59"))
	assertAmount(t, "gst", b.GST, d("0.10"))
	assertAmount(t, "sebi_charges", b.SEBICharges, d("0.02"))
	assertAmount(t, "stamp_duty", b.StampDuty, d("1.50"))
	assertAmount(t, "dp_charges", b.DPCharges, d("15.93"))
	assertAmount(t, "total", b.Total, d("38.34"))
}

// Intraday: brokerage is a percentage per leg, STT applies to the sell leg
// only, no DP fee.
func TestComputeIntradayCharges(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Compute(models.TradeTypeIntraday, d("10000"), d("10200"))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	assertAmount(t, "brokerage", b.Brokerage, d("6.06"))
	assertAmount(t, "stt", b.STT, d("2.55"))
	assertAmount(t, "transaction_charges", b.TransactionCharges, d("0.59"))
	assertAmount(t, "gst", b.GST, d("1.19"))
	assertAmount(t, "sebi_charges", b.SEBICharges, d("0.02"))
	assertAmount(t, "stamp_duty", b.StampDuty, d("0.30"))
	assertAmount(t, "dp_charges", b.DPCharges, d("0"))
	assertAmount(t, "total", b.Total, d("10.71"))
}

// Large intraday legs hit the per-leg brokerage cap.
func TestComputeBrokerageCapClamp(t *testing.T) {
	calc := newTestCalculator()

	// 0.03% of 10 lakh is 300, well above the 20 cap.
	b, err := calc.Compute(models.TradeTypeIntraday, d("1000000"), d("1010000"))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	assertAmount(t, "brokerage", b.Brokerage, d("40"))
}

func TestComputeUnknownTradeType(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.Compute(models.TradeType("COMMODITY"), d("1000"), d("1010"))
	if !apperrors.Is(err, apperrors.ErrInvalidTradeType) {
		t.Fatalf("expected ErrInvalidTradeType, got %v", err)
	}
}

// GST applies to brokerage plus transaction charges only, never to STT or
// stamp duty.
func TestGSTBaseExcludesSTTAndStampDuty(t *testing.T) {
	calc := newTestCalculator()

	b, err := calc.Compute(models.TradeTypeDelivery, d("100000"), d("102000"))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	wantGST := b.Brokerage.Add(b.TransactionCharges).Mul(d("18")).Div(d("100")).RoundFloor(2)
	assertAmount(t, "gst", b.GST, wantGST)
	if b.GST.GreaterThanOrEqual(b.STT) {
		t.Errorf("gst %s should be far below stt %s for delivery", b.GST, b.STT)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	calc := newTestCalculator()

	first, err := calc.Compute(models.TradeTypeFutures, d("543210.55"), d("544321.45"))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	second, err := calc.Compute(models.TradeTypeFutures, d("543210.55"), d("544321.45"))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	firstItems := first.Items()
	secondItems := second.Items()
	for i := range firstItems {
		if firstItems[i].Amount.String() != secondItems[i].Amount.String() {
			t.Errorf("%s differs between identical calls: %s vs %s",
				firstItems[i].Name, firstItems[i].Amount, secondItems[i].Amount)
		}
	}
	if first.Total.String() != second.Total.String() {
		t.Errorf("total differs between identical calls: %s vs %s", first.Total, second.Total)
	}
}

func TestBreakdownSumEqualsTotal(t *testing.T) {
	calc := newTestCalculator()

	for _, tradeType := range []models.TradeType{
		models.TradeTypeDelivery,
		models.TradeTypeIntraday,
		models.TradeTypeFutures,
		models.TradeTypeOptions,
	} {
		b, err := calc.Compute(tradeType, d("98765.43"), d("99123.21"))
		if err != nil {
			t.Fatalf("Compute(%s): %v", tradeType, err)
		}
		if !b.Sum().Equal(b.Total) {
			t.Errorf("%s: sum %s != total %s", tradeType, b.Sum(), b.Total)
		}
		for _, item := range b.Items() {
			if item.Amount.IsNegative() {
				t.Errorf("%s: item %s is negative: %s", tradeType, item.Name, item.Amount)
			}
		}
	}
}
