// Package gateway provides order gateway implementations.
package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
)

// PaperGateway simulates order placement for paper trading. Orders fill
// immediately at the requested price plus an optional simulated fill
// slippage.
type PaperGateway struct {
	fillSlippage float64 // per share, added against the trade
	placed       []models.OrderIntent
	mu           sync.Mutex
}

// PaperGatewayConfig holds configuration for the paper gateway.
type PaperGatewayConfig struct {
	FillSlippagePerShare float64
}

// NewPaperGateway creates a new paper gateway.
func NewPaperGateway(cfg PaperGatewayConfig) *PaperGateway {
	return &PaperGateway{fillSlippage: cfg.FillSlippagePerShare}
}

// PlaceOrder simulates a fill and returns a synthetic trade id.
func (g *PaperGateway) PlaceOrder(ctx context.Context, intent models.OrderIntent) (*models.Execution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if intent.Quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity", intent.Quantity, "must be a positive integer", apperrors.ErrInvalidQuantity)
	}
	if intent.Price <= 0 {
		return nil, apperrors.NewValidationError("price", intent.Price, "must be positive", apperrors.ErrInvalidPrice)
	}

	price := intent.Price
	if g.fillSlippage > 0 {
		if intent.Side == models.OrderSideSell {
			price -= g.fillSlippage
		} else {
			price += g.fillSlippage
		}
	}

	g.mu.Lock()
	g.placed = append(g.placed, intent)
	g.mu.Unlock()

	return &models.Execution{
		TradeID:        uuid.NewString(),
		ExecutionPrice: price,
	}, nil
}

// PlacedOrders returns a copy of the intents placed so far.
func (g *PaperGateway) PlacedOrders() []models.OrderIntent {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.OrderIntent, len(g.placed))
	copy(out, g.placed)
	return out
}
