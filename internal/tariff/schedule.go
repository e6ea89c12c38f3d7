// Package tariff provides the immutable fee-rate schedule that parameterizes
// all charge computation.
package tariff

import (
	"github.com/shopspring/decimal"

	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
)

// Rate holds the fee rates for one trade type. Percentages are expressed the
// way brokers publish them: 0.1 means 0.1%.
type Rate struct {
	BrokeragePct   decimal.Decimal
	BrokerageCap   decimal.Decimal // per leg
	STTBuyPct      decimal.Decimal
	STTSellPct     decimal.Decimal
	TransactionPct decimal.Decimal
	GSTPct         decimal.Decimal // on brokerage + transaction charge only
	SEBIPct        decimal.Decimal
	StampDutyPct   decimal.Decimal // buy leg only
	DPFee          decimal.Decimal // flat, delivery sell leg only
}

// Schedule is a read-only rate table keyed by trade type. It is loaded once
// at startup and safe for concurrent readers.
type Schedule struct {
	rates map[models.TradeType]Rate
}

// NewSchedule builds a schedule from the given rate table. The table is
// copied; later mutation of the argument does not affect the schedule.
func NewSchedule(rates map[models.TradeType]Rate) *Schedule {
	copied := make(map[models.TradeType]Rate, len(rates))
	for t, r := range rates {
		copied[t] = r
	}
	return &Schedule{rates: copied}
}

// Rate returns the rate entry for a trade type.
func (s *Schedule) Rate(t models.TradeType) (Rate, error) {
	r, ok := s.rates[t]
	if !ok {
		return Rate{}, apperrors.Wrapf(apperrors.ErrInvalidTradeType, "no tariff entry for %q", t)
	}
	return r, nil
}

// Types returns the trade types present in the schedule.
func (s *Schedule) Types() []models.TradeType {
	types := make([]models.TradeType, 0, len(s.rates))
	for t := range s.rates {
		types = append(types, t)
	}
	return types
}

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultSchedule returns the Zerodha published equity tariff. It is the
// fallback when no tariff table is configured.
func DefaultSchedule() *Schedule {
	return NewSchedule(map[models.TradeType]Rate{
		models.TradeTypeDelivery: {
			BrokeragePct:   pct("0"), // delivery brokerage is free
			BrokerageCap:   pct("20"),
			STTBuyPct:      pct("0.1"),
			STTSellPct:     pct("0.1"),
			TransactionPct: pct("0.00297"),
			GSTPct:         pct("18"),
			SEBIPct:        pct("0.0001"),
			StampDutyPct:   pct("0.015"),
			DPFee:          pct("15.93"),
		},
		models.TradeTypeIntraday: {
			BrokeragePct:   pct("0.03"),
			BrokerageCap:   pct("20"),
			STTBuyPct:      pct("0"),
			STTSellPct:     pct("0.025"),
			TransactionPct: pct("0.00297"),
			GSTPct:         pct("18"),
			SEBIPct:        pct("0.0001"),
			StampDutyPct:   pct("0.003"),
			DPFee:          pct("0"),
		},
		models.TradeTypeFutures: {
			BrokeragePct:   pct("0.03"),
			BrokerageCap:   pct("20"),
			STTBuyPct:      pct("0"),
			STTSellPct:     pct("0.0125"),
			TransactionPct: pct("0.00173"),
			GSTPct:         pct("18"),
			SEBIPct:        pct("0.0001"),
			StampDutyPct:   pct("0.002"),
			DPFee:          pct("0"),
		},
		models.TradeTypeOptions: {
			BrokeragePct:   pct("0.03"),
			BrokerageCap:   pct("20"),
			STTBuyPct:      pct("0"),
			STTSellPct:     pct("0.0625"),
			TransactionPct: pct("0.03503"),
			GSTPct:         pct("18"),
			SEBIPct:        pct("0.0001"),
			StampDutyPct:   pct("0.003"),
			DPFee:          pct("0"),
		},
	})
}
