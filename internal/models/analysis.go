package models

import "github.com/shopspring/decimal"

// Breakdown is an itemized charge breakdown for a buy/sell pair. Amounts are
// exact decimals, each already floored to the paisa. Total always equals the
// sum of the items.
type Breakdown struct {
	Brokerage          decimal.Decimal `json:"brokerage"`
	STT                decimal.Decimal `json:"stt"`
	TransactionCharges decimal.Decimal `json:"transaction_charges"`
	GST                decimal.Decimal `json:"gst"`
	SEBICharges        decimal.Decimal `json:"sebi_charges"`
	StampDuty          decimal.Decimal `json:"stamp_duty"`
	DPCharges          decimal.Decimal `json:"dp_charges"`
	Slippage           decimal.Decimal `json:"slippage"`
	Total              decimal.Decimal `json:"total"`
}

// Sum returns the sum of all charge items.
func (b *Breakdown) Sum() decimal.Decimal {
	return b.Brokerage.
		Add(b.STT).
		Add(b.TransactionCharges).
		Add(b.GST).
		Add(b.SEBICharges).
		Add(b.StampDuty).
		Add(b.DPCharges).
		Add(b.Slippage)
}

// Items returns the named charge items. Iteration order is fixed.
func (b *Breakdown) Items() []ChargeItem {
	return []ChargeItem{
		{"brokerage", b.Brokerage},
		{"stt", b.STT},
		{"transaction_charges", b.TransactionCharges},
		{"gst", b.GST},
		{"sebi_charges", b.SEBICharges},
		{"stamp_duty", b.StampDuty},
		{"dp_charges", b.DPCharges},
		{"slippage", b.Slippage},
	}
}

// ChargeItem is a single named amount in a breakdown.
type ChargeItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Analysis is the profitability verdict for a candidate trade.
type Analysis struct {
	Type         TradeType       `json:"trade_type"`
	Quantity     int             `json:"quantity"`
	BasePrice    decimal.Decimal `json:"base_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	Charges      Breakdown       `json:"charges"`
	TotalCharges decimal.Decimal `json:"total_charges"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	IsProfitable bool            `json:"is_profitable"`
}

// BetterPrice is a suggested target price clearing a profit target.
type BetterPrice struct {
	Price          decimal.Decimal `json:"price"`
	ExpectedProfit decimal.Decimal `json:"expected_profit"`
}

// PartialSellPlan is a partial-liquidation suggestion.
type PartialSellPlan struct {
	ShouldPartialSell bool            `json:"should_partial_sell"`
	Quantity          int             `json:"quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	ExpectedProfit    decimal.Decimal `json:"expected_profit"`
	ProfitPerUnit     decimal.Decimal `json:"profit_per_unit"`
}

// AlternativeSet carries whichever alternatives could be computed for a
// rejected trade. Nil fields mean the source was not requested or failed.
type AlternativeSet struct {
	BetterPrice *BetterPrice     `json:"better_price,omitempty"`
	PartialSell *PartialSellPlan `json:"partial_sell,omitempty"`
	HoldAdvice  *TrendAdvice     `json:"hold_advice,omitempty"`
}
