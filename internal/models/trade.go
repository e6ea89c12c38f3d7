// Package models provides domain models for the trade decision engine.
package models

import "time"

// TradeType represents the instrument class of a trade. The tariff schedule
// is keyed by trade type because regulatory rates differ per class.
type TradeType string

const (
	TradeTypeDelivery TradeType = "DELIVERY"
	TradeTypeIntraday TradeType = "INTRADAY"
	TradeTypeFutures  TradeType = "FUTURES"
	TradeTypeOptions  TradeType = "OPTIONS"
)

// Product maps the trade type to the broker product code (CNC, MIS, NRML).
func (t TradeType) Product() string {
	switch t {
	case TradeTypeDelivery:
		return "CNC"
	case TradeTypeIntraday:
		return "MIS"
	case TradeTypeFutures, TradeTypeOptions:
		return "NRML"
	default:
		return ""
	}
}

// OrderSide represents the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Exchange represents a stock exchange.
type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
	NFO Exchange = "NFO" // F&O
)

// TradeRequest is a candidate buy/sell pair submitted for a decision.
type TradeRequest struct {
	Symbol         string
	Type           TradeType
	Exchange       Exchange
	Quantity       int
	BasePrice      float64 // entry price
	CandidatePrice float64 // exit price under consideration
	// SlippagePerShare is the caller's slippage estimate per share.
	// Zero or negative means "not supplied": the configured default applies.
	SlippagePerShare float64
	// MinProfitTarget, when positive, enables the better-price search on rejection.
	MinProfitTarget float64
	// AllowPartialSell enables the partial-liquidation search on rejection.
	AllowPartialSell bool
	// MinProfitPerUnit qualifies partial-sell quantities. Zero means any
	// positive per-unit profit qualifies.
	MinProfitPerUnit float64
}

// OrderIntent is the single-order instruction handed to an order gateway.
type OrderIntent struct {
	Symbol   string
	Exchange Exchange
	Side     OrderSide
	Type     TradeType
	Quantity int
	Price    float64
}

// Execution is the gateway's acknowledgement of a placed order.
type Execution struct {
	TradeID        string
	ExecutionPrice float64
}

// TradeRecord is an immutable ledger entry. It is created exactly once per
// executed trade and owned by the ledger from that point on.
type TradeRecord struct {
	TradeID        string
	Symbol         string
	Type           TradeType
	Quantity       int
	BasePrice      float64
	ExecutionPrice float64
	Analysis       *Analysis
	Timestamp      time.Time
}

// TrendAdvice is a hold recommendation sourced from a market-trend advisor.
type TrendAdvice struct {
	Symbol      string
	Trend       string // UPTREND, DOWNTREND, SIDEWAYS
	TargetPrice float64
	Timeframe   string
}
