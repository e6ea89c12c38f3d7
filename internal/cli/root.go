package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradecost/internal/advisor"
	"tradecost/internal/config"
	"tradecost/internal/costing"
	"tradecost/internal/gateway"
	"tradecost/internal/ledger"
	"tradecost/internal/models"
	"tradecost/internal/trading"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config       *config.Config
	Logger       zerolog.Logger
	Calculator   *costing.Calculator
	Evaluator    *costing.Evaluator
	Finder       *costing.Finder
	Advisor      *advisor.TrendAdvisor
	Ledger       *ledger.SQLiteLedger
	Orchestrator *trading.Orchestrator
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	schedule := cfg.BuildSchedule()
	app.Calculator = costing.NewCalculator(schedule)
	app.Evaluator = costing.NewEvaluator(app.Calculator, cfg.Engine.DefaultSlippagePerShare)
	app.Finder = costing.NewFinder(app.Evaluator, costing.SearchParams{
		TickSize:             cfg.Engine.TickSize,
		PriceCeilingMultiple: cfg.Engine.PriceCeilingMultiple,
		MaxIterations:        cfg.Engine.MaxSearchIterations,
	})
	app.Advisor = advisor.NewTrendAdvisor()

	rootCmd := &cobra.Command{
		Use:     "tradecost",
		Short:   "Trade-cost and profitability decision engine",
		Long:    "tradecost computes exact regulatory and brokerage charges for Indian equity trades, decides profitability net of charges and slippage, and suggests executable alternatives before any order is placed.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The execute command needs the ledger and a gateway; the pure
			// calculators do not.
			if cmd.Name() != "execute" && cmd.Name() != "trades" {
				return nil
			}
			return app.initCollaborators()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Ledger != nil {
				_ = app.Ledger.Close()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(newChargesCmd(app))
	rootCmd.AddCommand(newEvaluateCmd(app))
	rootCmd.AddCommand(newAlternativesCmd(app))
	rootCmd.AddCommand(newExecuteCmd(app))
	rootCmd.AddCommand(newTradesCmd(app))

	return rootCmd
}

// initCollaborators wires the gateway and ledger for order-placing commands.
func (app *App) initCollaborators() error {
	if err := os.MkdirAll(filepath.Dir(app.Config.Ledger.Path), 0755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}
	led, err := ledger.NewSQLiteLedger(app.Config.Ledger.Path)
	if err != nil {
		return err
	}
	app.Ledger = led

	var gw trading.OrderGateway
	if app.Config.IsPaperMode() {
		gw = gateway.NewPaperGateway(gateway.PaperGatewayConfig{
			FillSlippagePerShare: app.Config.Gateway.FillSlippagePerShare,
		})
		app.Logger.Debug().Msg("Paper gateway initialized")
	} else {
		if app.Config.Credentials.Zerodha.APIKey == "" {
			return fmt.Errorf("live mode requires zerodha credentials")
		}
		gw = gateway.NewZerodhaGateway(gateway.ZerodhaConfig{
			APIKey:      app.Config.Credentials.Zerodha.APIKey,
			AccessToken: app.Config.Credentials.Zerodha.AccessToken,
		})
		app.Logger.Debug().Msg("Zerodha gateway initialized")
	}

	app.Orchestrator = trading.NewOrchestrator(
		app.Evaluator, app.Finder, gw, app.Advisor, app.Ledger, app.Logger)
	return nil
}

// parseTradeType maps a CLI argument to a trade type.
func parseTradeType(s string) (models.TradeType, error) {
	switch strings.ToLower(s) {
	case "delivery", "cnc":
		return models.TradeTypeDelivery, nil
	case "intraday", "mis":
		return models.TradeTypeIntraday, nil
	case "futures", "fut":
		return models.TradeTypeFutures, nil
	case "options", "opt":
		return models.TradeTypeOptions, nil
	default:
		return "", fmt.Errorf("unknown trade type %q (delivery, intraday, futures, options)", s)
	}
}
