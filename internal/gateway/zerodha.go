package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
	"tradecost/pkg/utils"
)

// ZerodhaGateway places orders through Zerodha Kite Connect. It is a thin
// boundary: one placement attempt per call, no retries (retry policy for
// placement belongs to the caller's infrastructure, and the decision engine
// mandates at-most-once placement).
type ZerodhaGateway struct {
	client        *kiteconnect.Client
	authenticated bool
	mu            sync.RWMutex
}

// ZerodhaConfig holds credentials for the Kite Connect session.
type ZerodhaConfig struct {
	APIKey      string
	AccessToken string
}

// NewZerodhaGateway creates a gateway over an authenticated Kite session.
func NewZerodhaGateway(cfg ZerodhaConfig) *ZerodhaGateway {
	client := kiteconnect.New(cfg.APIKey)
	g := &ZerodhaGateway{client: client}
	if cfg.AccessToken != "" {
		client.SetAccessToken(cfg.AccessToken)
		g.authenticated = true
	}
	return g
}

// SetAccessToken installs a fresh access token on the underlying client.
func (g *ZerodhaGateway) SetAccessToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.client.SetAccessToken(token)
	g.authenticated = token != ""
}

// IsAuthenticated reports whether a session token is installed.
func (g *ZerodhaGateway) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authenticated
}

// PlaceOrder places a single regular limit order and resolves its execution
// price. The placement itself is attempted exactly once; only the read-only
// fill lookup is retried.
func (g *ZerodhaGateway) PlaceOrder(ctx context.Context, intent models.OrderIntent) (*models.Execution, error) {
	if !g.IsAuthenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}
	if !utils.IsMarketOpen() {
		return nil, apperrors.ErrMarketClosed
	}

	exchange := intent.Exchange
	if exchange == "" {
		exchange = models.NSE
	}

	params := kiteconnect.OrderParams{
		Exchange:        string(exchange),
		Tradingsymbol:   intent.Symbol,
		TransactionType: string(intent.Side),
		OrderType:       "LIMIT",
		Product:         intent.Type.Product(),
		Quantity:        intent.Quantity,
		Price:           intent.Price,
		Validity:        "DAY",
		Tag:             "tradecost",
	}

	resp, err := g.client.PlaceOrder(kiteconnect.VarietyRegular, params)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	price, err := g.executionPrice(ctx, resp.OrderID)
	if err != nil || price <= 0 {
		// Not filled yet; report the requested limit price.
		price = intent.Price
	}

	return &models.Execution{
		TradeID:        resp.OrderID,
		ExecutionPrice: price,
	}, nil
}

// executionPrice looks up the average fill price for an order id. The order
// book lookup is idempotent, so it retries with backoff.
func (g *ZerodhaGateway) executionPrice(ctx context.Context, orderID string) (float64, error) {
	cfg := utils.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
	return utils.RetryWithResult(ctx, cfg, func() (float64, error) {
		orders, err := g.client.GetOrders()
		if err != nil {
			return 0, fmt.Errorf("failed to get orders: %w", err)
		}
		for _, o := range orders {
			if o.OrderID == orderID {
				if o.AveragePrice > 0 {
					return o.AveragePrice, nil
				}
				return 0, nil
			}
		}
		return 0, fmt.Errorf("order %s not found in order book", orderID)
	})
}
