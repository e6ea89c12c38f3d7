// Package trading sequences profitability evaluation, alternative search,
// and order placement for candidate trades.
package trading

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tradecost/internal/costing"
	apperrors "tradecost/internal/errors"
	"tradecost/internal/models"
)

// DecisionState is a state of the trade decision machine. EXECUTED,
// REJECTED_WITH_ALTERNATIVES, and ERROR are terminal.
type DecisionState string

const (
	StateRequested  DecisionState = "REQUESTED"
	StateEvaluating DecisionState = "EVALUATING"
	StateExecuted   DecisionState = "EXECUTED"
	StateRejected   DecisionState = "REJECTED_WITH_ALTERNATIVES"
	StateError      DecisionState = "ERROR"
)

// OrderGateway is the only place an order is ever physically placed.
type OrderGateway interface {
	PlaceOrder(ctx context.Context, intent models.OrderIntent) (*models.Execution, error)
}

// MarketTrendAdvisor annotates rejected trades with a hold suggestion.
type MarketTrendAdvisor interface {
	Analyze(ctx context.Context, symbol string) (*models.TrendAdvice, error)
}

// TradeLedger is append-only persistence for executed trades. No update or
// delete operation is exposed to this engine.
type TradeLedger interface {
	Append(ctx context.Context, record *models.TradeRecord) error
}

// Decision is the structured outcome of ExecuteTrade.
type Decision struct {
	State          DecisionState          `json:"state"`
	Symbol         string                 `json:"symbol"`
	TradeID        string                 `json:"trade_id,omitempty"`
	ExecutionPrice float64                `json:"execution_price,omitempty"`
	Analysis       *models.Analysis       `json:"analysis,omitempty"`
	Alternatives   *models.AlternativeSet `json:"alternatives,omitempty"`
}

// Orchestrator owns the execute/reject state machine. All collaborators are
// injected; the orchestrator itself never retries and performs at most one
// order placement and one ledger append per call.
type Orchestrator struct {
	evaluator *costing.Evaluator
	finder    *costing.Finder
	gateway   OrderGateway
	advisor   MarketTrendAdvisor
	ledger    TradeLedger
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrchestrator creates an Orchestrator. The advisor may be nil, in which
// case rejected trades carry no hold advice.
func NewOrchestrator(evaluator *costing.Evaluator, finder *costing.Finder, gateway OrderGateway, advisor MarketTrendAdvisor, ledger TradeLedger, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		evaluator: evaluator,
		finder:    finder,
		gateway:   gateway,
		advisor:   advisor,
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
	}
}

// ExecuteTrade runs a candidate trade through the decision machine:
// REQUESTED → EVALUATING → EXECUTED, REJECTED_WITH_ALTERNATIVES, or ERROR.
// Validation errors from the evaluator are returned verbatim. A non-nil
// Decision is returned in every case so rejections stay auditable.
func (o *Orchestrator) ExecuteTrade(ctx context.Context, req *models.TradeRequest) (*Decision, error) {
	decision := &Decision{State: StateRequested, Symbol: req.Symbol}
	log := o.logger.With().Str("symbol", req.Symbol).Str("trade_type", string(req.Type)).Logger()

	decision.State = StateEvaluating
	analysis, err := o.evaluator.Evaluate(req.Type, req.BasePrice, req.CandidatePrice, req.Quantity, req.SlippagePerShare)
	if err != nil {
		decision.State = StateError
		log.Warn().Err(err).Msg("Trade request rejected by validation")
		return decision, err
	}
	decision.Analysis = analysis

	if analysis.IsProfitable {
		return o.execute(ctx, req, analysis, decision, log)
	}
	return o.reject(ctx, req, decision, log), nil
}

// execute places exactly one order and appends exactly one ledger record.
func (o *Orchestrator) execute(ctx context.Context, req *models.TradeRequest, analysis *models.Analysis, decision *Decision, log zerolog.Logger) (*Decision, error) {
	intent := models.OrderIntent{
		Symbol:   req.Symbol,
		Exchange: req.Exchange,
		Side:     models.OrderSideSell,
		Type:     req.Type,
		Quantity: req.Quantity,
		Price:    req.CandidatePrice,
	}

	execution, err := o.gateway.PlaceOrder(ctx, intent)
	if err != nil {
		decision.State = StateError
		cerr := o.classify("order_gateway", "PlaceOrder", ctx, err)
		log.Error().Err(cerr).Msg("Order placement failed")
		return decision, cerr
	}

	decision.TradeID = execution.TradeID
	decision.ExecutionPrice = execution.ExecutionPrice

	record := &models.TradeRecord{
		TradeID:        execution.TradeID,
		Symbol:         req.Symbol,
		Type:           req.Type,
		Quantity:       req.Quantity,
		BasePrice:      req.BasePrice,
		ExecutionPrice: execution.ExecutionPrice,
		Analysis:       analysis,
		Timestamp:      o.now(),
	}

	if err := o.ledger.Append(ctx, record); err != nil {
		// The order is live but unrecorded: report the inconsistency, do
		// not swallow it.
		decision.State = StateError
		cerr := apperrors.NewCollaboratorError("trade_ledger", "Append",
			apperrors.Wrapf(apperrors.ErrLedgerInconsistency, "trade %s placed at %.2f: %v", execution.TradeID, execution.ExecutionPrice, err))
		log.Error().Err(cerr).Str("trade_id", execution.TradeID).Msg("Ledger append failed after order placement")
		return decision, cerr
	}

	decision.State = StateExecuted
	log.Info().
		Str("trade_id", execution.TradeID).
		Float64("execution_price", execution.ExecutionPrice).
		Str("net_profit", analysis.NetProfit.String()).
		Msg("Trade executed")
	return decision, nil
}

// reject computes whichever alternatives are available. A failure of one
// alternative source does not abort the others.
func (o *Orchestrator) reject(ctx context.Context, req *models.TradeRequest, decision *Decision, log zerolog.Logger) *Decision {
	alts := &models.AlternativeSet{}

	if req.MinProfitTarget > 0 {
		better, err := o.finder.SuggestBetterPrice(req.Type, req.BasePrice, req.Quantity, req.MinProfitTarget, req.SlippagePerShare)
		if err != nil {
			log.Debug().Err(err).Msg("Better-price search yielded nothing")
		} else {
			alts.BetterPrice = better
		}
	}

	if req.AllowPartialSell {
		plan, err := o.finder.PartialSellStrategy(req.Type, req.BasePrice, req.CandidatePrice, req.Quantity, req.MinProfitPerUnit, req.SlippagePerShare)
		if err != nil && !apperrors.Is(err, apperrors.ErrNoQualifyingPartialQuantity) {
			log.Debug().Err(err).Msg("Partial-sell search failed")
		} else {
			alts.PartialSell = plan
		}
	}

	if o.advisor != nil {
		advice, err := o.advisor.Analyze(ctx, req.Symbol)
		if err != nil {
			log.Debug().Err(o.classify("market_trend_advisor", "Analyze", ctx, err)).Msg("Hold advice unavailable")
		} else {
			alts.HoldAdvice = advice
		}
	}

	decision.State = StateRejected
	decision.Alternatives = alts
	log.Info().
		Str("net_profit", decision.Analysis.NetProfit.String()).
		Bool("better_price", alts.BetterPrice != nil).
		Bool("partial_sell", alts.PartialSell != nil && alts.PartialSell.ShouldPartialSell).
		Bool("hold_advice", alts.HoldAdvice != nil).
		Msg("Trade rejected with alternatives")
	return decision
}

// classify maps a collaborator failure to the timeout/failure taxonomy.
func (o *Orchestrator) classify(collaborator, operation string, ctx context.Context, err error) error {
	if apperrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return apperrors.NewCollaboratorError(collaborator, operation, apperrors.Wrap(apperrors.ErrCollaboratorTimeout, err.Error()))
	}
	return apperrors.NewCollaboratorError(collaborator, operation, apperrors.Wrap(apperrors.ErrCollaboratorFailure, err.Error()))
}
