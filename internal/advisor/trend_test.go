package advisor

import (
	"context"
	"testing"

	apperrors "tradecost/internal/errors"
)

func TestAnalyzeInsufficientHistory(t *testing.T) {
	a := NewTrendAdvisor()
	a.Record("TCS", 3500, 3510, 3520)

	_, err := a.Analyze(context.Background(), "TCS")
	if !apperrors.Is(err, apperrors.ErrCollaboratorFailure) {
		t.Fatalf("expected ErrCollaboratorFailure, got %v", err)
	}
}

func TestAnalyzeUptrend(t *testing.T) {
	a := NewTrendAdvisor()
	// 20 closes climbing steadily: the 5-day average sits well above the
	// 20-day average.
	for i := 0; i < 20; i++ {
		a.Record("INFY", 1500+float64(i)*10)
	}

	advice, err := a.Analyze(context.Background(), "INFY")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if advice.Trend != "UPTREND" {
		t.Errorf("trend = %s, want UPTREND", advice.Trend)
	}
	if advice.TargetPrice != 1690 {
		t.Errorf("target_price = %v, want the window high 1690", advice.TargetPrice)
	}
	if advice.Timeframe != "20d" {
		t.Errorf("timeframe = %s, want 20d", advice.Timeframe)
	}
}

func TestAnalyzeDowntrend(t *testing.T) {
	a := NewTrendAdvisor()
	for i := 0; i < 20; i++ {
		a.Record("HDFCBANK", 1700-float64(i)*10)
	}

	advice, err := a.Analyze(context.Background(), "HDFCBANK")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if advice.Trend != "DOWNTREND" {
		t.Errorf("trend = %s, want DOWNTREND", advice.Trend)
	}
	if advice.TargetPrice != 1510 {
		t.Errorf("target_price = %v, want the window low 1510", advice.TargetPrice)
	}
}

func TestAnalyzeSideways(t *testing.T) {
	a := NewTrendAdvisor()
	for i := 0; i < 20; i++ {
		a.Record("ITC", 450)
	}

	advice, err := a.Analyze(context.Background(), "ITC")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if advice.Trend != "SIDEWAYS" {
		t.Errorf("trend = %s, want SIDEWAYS", advice.Trend)
	}
	if advice.TargetPrice != 450 {
		t.Errorf("target_price = %v, want the last close", advice.TargetPrice)
	}
}

func TestRecordBoundsHistory(t *testing.T) {
	a := NewTrendAdvisor()
	for i := 0; i < 200; i++ {
		a.Record("SBIN", float64(i))
	}

	a.mu.RLock()
	n := len(a.closes["SBIN"])
	a.mu.RUnlock()
	if n != a.maxHistory {
		t.Errorf("history length = %d, want %d", n, a.maxHistory)
	}
}

func TestAnalyzeHonorsContext(t *testing.T) {
	a := NewTrendAdvisor()
	for i := 0; i < 20; i++ {
		a.Record("WIPRO", 400)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Analyze(ctx, "WIPRO"); err == nil {
		t.Fatal("expected an error on a cancelled context")
	}
}
