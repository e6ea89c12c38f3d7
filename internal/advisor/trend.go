// Package advisor provides a market-trend advisor used to annotate rejected
// trades with a hold suggestion.
package advisor

import (
	"context"
	"sync"

	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
)

// TrendAdvisor classifies the recent trend of a symbol from closing prices
// fed by the caller. Classification compares a short moving average against a
// long one.
type TrendAdvisor struct {
	closes      map[string][]float64
	shortWindow int
	longWindow  int
	maxHistory  int
	mu          sync.RWMutex
}

// NewTrendAdvisor creates a trend advisor with 5/20 moving-average windows.
func NewTrendAdvisor() *TrendAdvisor {
	return &TrendAdvisor{
		closes:      make(map[string][]float64),
		shortWindow: 5,
		longWindow:  20,
		maxHistory:  90,
	}
}

// Record appends closing prices for a symbol, keeping a bounded history.
func (a *TrendAdvisor) Record(symbol string, closes ...float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	series := append(a.closes[symbol], closes...)
	if len(series) > a.maxHistory {
		series = series[len(series)-a.maxHistory:]
	}
	a.closes[symbol] = series
}

// Analyze returns the trend, a target price, and a timeframe for the symbol.
// Insufficient history surfaces as a collaborator failure.
func (a *TrendAdvisor) Analyze(ctx context.Context, symbol string) (*models.TrendAdvice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	series := a.closes[symbol]
	a.mu.RUnlock()

	if len(series) < a.longWindow {
		return nil, apperrors.Wrapf(apperrors.ErrCollaboratorFailure,
			"insufficient history for %s: %d closes, need %d", symbol, len(series), a.longWindow)
	}

	shortAvg := average(series[len(series)-a.shortWindow:])
	longAvg := average(series[len(series)-a.longWindow:])

	trend := "SIDEWAYS"
	target := series[len(series)-1]
	switch {
	case shortAvg > longAvg*1.01:
		trend = "UPTREND"
		target = highest(series[len(series)-a.longWindow:])
	case shortAvg < longAvg*0.99:
		trend = "DOWNTREND"
		target = lowest(series[len(series)-a.longWindow:])
	}

	return &models.TrendAdvice{
		Symbol:      symbol,
		Trend:       trend,
		TargetPrice: target,
		Timeframe:   "20d",
	}, nil
}

func average(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func highest(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func lowest(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
