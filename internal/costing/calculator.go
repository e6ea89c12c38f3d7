// Package costing provides the pure charge, profit, and alternative-strategy
// calculations of the trade decision engine.
package costing

import (
	"github.com/shopspring/decimal"

	"tradecost/internal/models"
	"tradecost/internal/tariff"
)

var hundred = decimal.NewFromInt(100)

// Calculator computes itemized regulatory and brokerage charges for a
// buy/sell pair. It is pure and safe for concurrent use.
type Calculator struct {
	schedule *tariff.Schedule
}

// NewCalculator creates a Calculator over an immutable tariff schedule.
func NewCalculator(schedule *tariff.Schedule) *Calculator {
	return &Calculator{schedule: schedule}
}

// floorPaise rounds an amount down to the smallest currency unit. Charges are
// never rounded up, so cost estimates stay conservative and reproducible.
func floorPaise(d decimal.Decimal) decimal.Decimal {
	return d.RoundFloor(2)
}

// Compute returns the itemized charge breakdown for the given trade type and
// leg values. Each item is computed independently, floored to the paisa, and
// only then summed; GST applies to the floored brokerage and transaction
// charge, never to STT or stamp duty.
func (c *Calculator) Compute(tradeType models.TradeType, buyValue, sellValue decimal.Decimal) (*models.Breakdown, error) {
	rate, err := c.schedule.Rate(tradeType)
	if err != nil {
		return nil, err
	}

	turnover := buyValue.Add(sellValue)

	brokerage := floorPaise(legBrokerage(buyValue, rate).Add(legBrokerage(sellValue, rate)))

	// STT: both legs for delivery (buy pct is zero for intraday/derivatives,
	// so the same formula covers sell-leg-only instruments).
	stt := floorPaise(applyPct(buyValue, rate.STTBuyPct).Add(applyPct(sellValue, rate.STTSellPct)))

	txn := floorPaise(applyPct(turnover, rate.TransactionPct))
	gst := floorPaise(applyPct(brokerage.Add(txn), rate.GSTPct))
	sebi := floorPaise(applyPct(turnover, rate.SEBIPct))
	stamp := floorPaise(applyPct(buyValue, rate.StampDutyPct))

	// DP fee is flat, charged once per scrip, only when a delivery sell
	// leg exists.
	dp := decimal.Zero
	if tradeType == models.TradeTypeDelivery && sellValue.IsPositive() {
		dp = floorPaise(rate.DPFee)
	}

	b := &models.Breakdown{
		Brokerage:          brokerage,
		STT:                stt,
		TransactionCharges: txn,
		GST:                gst,
		SEBICharges:        sebi,
		StampDuty:          stamp,
		DPCharges:          dp,
		Slippage:           decimal.Zero,
	}
	b.Total = b.Sum()
	return b, nil
}

// legBrokerage applies the brokerage percentage to one leg, clamped to the
// per-leg cap.
func legBrokerage(legValue decimal.Decimal, rate tariff.Rate) decimal.Decimal {
	if rate.BrokeragePct.IsZero() {
		return decimal.Zero
	}
	amount := applyPct(legValue, rate.BrokeragePct)
	if amount.GreaterThan(rate.BrokerageCap) {
		return rate.BrokerageCap
	}
	return amount
}

// applyPct applies a published percentage (0.1 == 0.1%) to a value.
func applyPct(value, percentage decimal.Decimal) decimal.Decimal {
	return value.Mul(percentage).Div(hundred)
}
