package costing

import (
	"github.com/shopspring/decimal"

	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
)

// Evaluator combines gross P&L, charges, and slippage into a profitability
// verdict. Pure and safe for concurrent use.
type Evaluator struct {
	calc *Calculator
	// defaultSlippage is the per-share slippage applied when the caller
	// supplies no estimate. Never zero: an unknown slippage is a cost, not
	// a free pass.
	defaultSlippage decimal.Decimal
}

// NewEvaluator creates an Evaluator. defaultSlippagePerShare must be positive.
func NewEvaluator(calc *Calculator, defaultSlippagePerShare float64) *Evaluator {
	slip := decimal.NewFromFloat(defaultSlippagePerShare)
	if !slip.IsPositive() {
		slip = decimal.NewFromFloat(0.01)
	}
	return &Evaluator{calc: calc, defaultSlippage: slip}
}

// Evaluate computes the profitability of selling quantity shares bought at
// basePrice for sellingPrice. slippagePerShare ≤ 0 means "not supplied" and
// falls back to the configured default.
func (e *Evaluator) Evaluate(tradeType models.TradeType, basePrice, sellingPrice float64, quantity int, slippagePerShare float64) (*models.Analysis, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity", quantity, "must be a positive integer", apperrors.ErrInvalidQuantity)
	}
	if basePrice <= 0 {
		return nil, apperrors.NewValidationError("base_price", basePrice, "must be positive", apperrors.ErrInvalidPrice)
	}
	if sellingPrice <= 0 {
		return nil, apperrors.NewValidationError("selling_price", sellingPrice, "must be positive", apperrors.ErrInvalidPrice)
	}

	base := decimal.NewFromFloat(basePrice)
	sell := decimal.NewFromFloat(sellingPrice)
	qty := decimal.NewFromInt(int64(quantity))

	return e.evaluate(tradeType, base, sell, quantity, qty, slippagePerShare)
}

// EvaluateExact is Evaluate for callers that already hold exact decimal
// prices (the alternative-strategy searches step prices in exact ticks).
func (e *Evaluator) EvaluateExact(tradeType models.TradeType, basePrice, sellingPrice decimal.Decimal, quantity int, slippagePerShare float64) (*models.Analysis, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity", quantity, "must be a positive integer", apperrors.ErrInvalidQuantity)
	}
	if !basePrice.IsPositive() {
		return nil, apperrors.NewValidationError("base_price", basePrice, "must be positive", apperrors.ErrInvalidPrice)
	}
	if !sellingPrice.IsPositive() {
		return nil, apperrors.NewValidationError("selling_price", sellingPrice, "must be positive", apperrors.ErrInvalidPrice)
	}
	qty := decimal.NewFromInt(int64(quantity))
	return e.evaluate(tradeType, basePrice, sellingPrice, quantity, qty, slippagePerShare)
}

func (e *Evaluator) evaluate(tradeType models.TradeType, base, sell decimal.Decimal, quantity int, qty decimal.Decimal, slippagePerShare float64) (*models.Analysis, error) {
	buyValue := base.Mul(qty)
	sellValue := sell.Mul(qty)

	charges, err := e.calc.Compute(tradeType, buyValue, sellValue)
	if err != nil {
		return nil, err
	}

	perShare := e.defaultSlippage
	if slippagePerShare > 0 {
		perShare = decimal.NewFromFloat(slippagePerShare)
	}
	charges.Slippage = floorPaise(perShare.Mul(qty))
	charges.Total = charges.Sum()

	gross := sellValue.Sub(buyValue)
	net := gross.Sub(charges.Total)

	return &models.Analysis{
		Type:         tradeType,
		Quantity:     quantity,
		BasePrice:    base,
		SellingPrice: sell,
		GrossProfit:  gross,
		Charges:      *charges,
		TotalCharges: charges.Total,
		NetProfit:    net,
		// The selling-price clause guards the pathological case where
		// charge flooring makes a losing pair appear net-positive.
		IsProfitable: net.IsPositive() && sell.GreaterThan(base),
	}, nil
}
