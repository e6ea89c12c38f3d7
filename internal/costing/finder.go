package costing

import (
	"github.com/shopspring/decimal"

	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
)

// SearchParams bounds the alternative-strategy searches.
type SearchParams struct {
	// TickSize is the exchange tick the better-price search steps by.
	TickSize float64
	// PriceCeilingMultiple bounds the better-price search at
	// basePrice × multiple.
	PriceCeilingMultiple float64
	// MaxIterations is a hard cap on search steps, whichever bound is hit
	// first.
	MaxIterations int
}

// DefaultSearchParams returns NSE-appropriate search bounds.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		TickSize:             0.05,
		PriceCeilingMultiple: 2.0,
		MaxIterations:        10000,
	}
}

// Finder produces executable alternatives for trades the evaluator rejected.
// Both searches are deterministic and bounded.
type Finder struct {
	eval    *Evaluator
	tick    decimal.Decimal
	ceiling decimal.Decimal
	maxIter int
}

// NewFinder creates a Finder using the evaluator for every candidate.
func NewFinder(eval *Evaluator, params SearchParams) *Finder {
	tick := decimal.NewFromFloat(params.TickSize)
	if !tick.IsPositive() {
		tick = decimal.NewFromFloat(0.05)
	}
	ceiling := decimal.NewFromFloat(params.PriceCeilingMultiple)
	if ceiling.LessThanOrEqual(decimal.NewFromInt(1)) {
		ceiling = decimal.NewFromInt(2)
	}
	maxIter := params.MaxIterations
	if maxIter <= 0 {
		maxIter = 10000
	}
	return &Finder{eval: eval, tick: tick, ceiling: ceiling, maxIter: maxIter}
}

// SuggestBetterPrice walks up from basePrice in exchange ticks until a price
// clears targetProfit net of all charges, returning the lowest qualifying
// price. The walk is bounded by the price ceiling and the iteration cap;
// exhausting either yields ErrSearchExhausted.
func (f *Finder) SuggestBetterPrice(tradeType models.TradeType, basePrice float64, quantity int, targetProfit float64, slippagePerShare float64) (*models.BetterPrice, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity", quantity, "must be a positive integer", apperrors.ErrInvalidQuantity)
	}
	if basePrice <= 0 {
		return nil, apperrors.NewValidationError("base_price", basePrice, "must be positive", apperrors.ErrInvalidPrice)
	}

	base := decimal.NewFromFloat(basePrice)
	target := decimal.NewFromFloat(targetProfit)
	limit := base.Mul(f.ceiling)

	for i := 0; i <= f.maxIter; i++ {
		price := base.Add(f.tick.Mul(decimal.NewFromInt(int64(i))))
		if price.GreaterThan(limit) {
			return nil, apperrors.NewSearchError("better_price", "price ceiling", apperrors.ErrSearchExhausted)
		}
		analysis, err := f.eval.EvaluateExact(tradeType, base, price, quantity, slippagePerShare)
		if err != nil {
			return nil, err
		}
		if analysis.IsProfitable && analysis.NetProfit.GreaterThanOrEqual(target) {
			return &models.BetterPrice{
				Price:          price,
				ExpectedProfit: analysis.NetProfit,
			}, nil
		}
	}
	return nil, apperrors.NewSearchError("better_price", "iteration cap", apperrors.ErrSearchExhausted)
}

// PartialSellStrategy evaluates every candidate quantity from 1 to
// totalQuantity, keeps those whose profit per unit meets minProfitPerUnit,
// and returns the one maximizing total net profit. Ties break to the smallest
// qualifying quantity so results are reproducible. When no quantity
// qualifies, the plan comes back with ShouldPartialSell=false alongside
// ErrNoQualifyingPartialQuantity.
func (f *Finder) PartialSellStrategy(tradeType models.TradeType, basePrice, currentPrice float64, totalQuantity int, minProfitPerUnit float64, slippagePerShare float64) (*models.PartialSellPlan, error) {
	if totalQuantity <= 0 {
		return nil, apperrors.NewValidationError("total_quantity", totalQuantity, "must be a positive integer", apperrors.ErrInvalidQuantity)
	}
	if basePrice <= 0 {
		return nil, apperrors.NewValidationError("base_price", basePrice, "must be positive", apperrors.ErrInvalidPrice)
	}
	if currentPrice <= 0 {
		return nil, apperrors.NewValidationError("current_price", currentPrice, "must be positive", apperrors.ErrInvalidPrice)
	}

	base := decimal.NewFromFloat(basePrice)
	current := decimal.NewFromFloat(currentPrice)
	minPerUnit := decimal.NewFromFloat(minProfitPerUnit)

	var (
		bestQty int
		bestNet decimal.Decimal
	)
	for qty := 1; qty <= totalQuantity; qty++ {
		analysis, err := f.eval.EvaluateExact(tradeType, base, current, qty, slippagePerShare)
		if err != nil {
			return nil, err
		}
		if !analysis.IsProfitable {
			continue
		}
		// Qualify on net ≥ min × qty: exact, no division involved.
		floor := minPerUnit.Mul(decimal.NewFromInt(int64(qty)))
		if analysis.NetProfit.LessThan(floor) {
			continue
		}
		if bestQty == 0 || analysis.NetProfit.GreaterThan(bestNet) {
			bestQty = qty
			bestNet = analysis.NetProfit
		}
	}

	if bestQty == 0 {
		plan := &models.PartialSellPlan{
			ShouldPartialSell: false,
			RemainingQuantity: totalQuantity,
		}
		return plan, apperrors.NewSearchError("partial_sell", "no qualifying quantity", apperrors.ErrNoQualifyingPartialQuantity)
	}

	return &models.PartialSellPlan{
		ShouldPartialSell: true,
		Quantity:          bestQty,
		RemainingQuantity: totalQuantity - bestQty,
		ExpectedProfit:    bestNet,
		ProfitPerUnit:     bestNet.DivRound(decimal.NewFromInt(int64(bestQty)), 4),
	}, nil
}
