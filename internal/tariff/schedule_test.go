package tariff

import (
	"testing"

	"github.com/shopspring/decimal"

	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
)

func TestDefaultScheduleCoversAllTradeTypes(t *testing.T) {
	s := DefaultSchedule()

	for _, tradeType := range []models.TradeType{
		models.TradeTypeDelivery,
		models.TradeTypeIntraday,
		models.TradeTypeFutures,
		models.TradeTypeOptions,
	} {
		if _, err := s.Rate(tradeType); err != nil {
			t.Errorf("Rate(%s): %v", tradeType, err)
		}
	}
	if got := len(s.Types()); got != 4 {
		t.Errorf("Types() returned %d entries, want 4", got)
	}
}

func TestRateUnknownTradeType(t *testing.T) {
	s := DefaultSchedule()

	_, err := s.Rate(models.TradeType("CURRENCY"))
	if !apperrors.Is(err, apperrors.ErrInvalidTradeType) {
		t.Fatalf("expected ErrInvalidTradeType, got %v", err)
	}
}

// Spot checks against the published Zerodha equity tariff.
func TestDefaultScheduleRates(t *testing.T) {
	s := DefaultSchedule()

	delivery, _ := s.Rate(models.TradeTypeDelivery)
	if !delivery.BrokeragePct.IsZero() {
		t.Errorf("delivery brokerage_pct = %s, want 0", delivery.BrokeragePct)
	}
	if !delivery.STTBuyPct.Equal(decimal.RequireFromString("0.1")) || !delivery.STTSellPct.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("delivery stt = %s/%s, want 0.1 both legs", delivery.STTBuyPct, delivery.STTSellPct)
	}
	if !delivery.DPFee.Equal(decimal.RequireFromString("15.93")) {
		t.Errorf("delivery dp_fee = %s, want 15.93", delivery.DPFee)
	}

	intraday, _ := s.Rate(models.TradeTypeIntraday)
	if !intraday.STTBuyPct.IsZero() {
		t.Errorf("intraday stt_buy_pct = %s, want 0 (sell leg only)", intraday.STTBuyPct)
	}
	if !intraday.STTSellPct.Equal(decimal.RequireFromString("0.025")) {
		t.Errorf("intraday stt_sell_pct = %s, want 0.025", intraday.STTSellPct)
	}
	if !intraday.BrokerageCap.Equal(decimal.RequireFromString("20")) {
		t.Errorf("intraday brokerage_cap = %s, want 20", intraday.BrokerageCap)
	}
	if !intraday.DPFee.IsZero() {
		t.Errorf("intraday dp_fee = %s, want 0", intraday.DPFee)
	}

	for _, tradeType := range s.Types() {
		rate, _ := s.Rate(tradeType)
		if !rate.GSTPct.Equal(decimal.RequireFromString("18")) {
			t.Errorf("%s gst_pct = %s, want 18", tradeType, rate.GSTPct)
		}
	}
}

// Stamp duty is charged on the buy side only, so every sell-side stamp rate
// in the table is zero by construction; the buy rates differ per type.
func TestDefaultScheduleStampDutyPerType(t *testing.T) {
	s := DefaultSchedule()

	want := map[models.TradeType]string{
		models.TradeTypeDelivery: "0.015",
		models.TradeTypeIntraday: "0.003",
		models.TradeTypeFutures:  "0.002",
		models.TradeTypeOptions:  "0.003",
	}
	for tradeType, pct := range want {
		rate, err := s.Rate(tradeType)
		if err != nil {
			t.Fatalf("Rate(%s): %v", tradeType, err)
		}
		if !rate.StampDutyPct.Equal(decimal.RequireFromString(pct)) {
			t.Errorf("%s stamp_duty_pct = %s, want %s", tradeType, rate.StampDutyPct, pct)
		}
	}
}
