package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tradecost/internal/ledger"
	"tradecost/internal/models"
	"tradecost/internal/trading"
	"tradecost/pkg/utils"
)

func newChargesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "charges <type> <buy-value> <sell-value>",
		Short: "Compute the itemized charge breakdown for a buy/sell pair",
		Example: `  tradecost charges delivery 10000 10200
  tradecost charges intraday 50000 50500 --json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			tradeType, err := parseTradeType(args[0])
			if err != nil {
				return err
			}
			buyValue, err := decimal.NewFromString(args[1])
			if err != nil {
				return err
			}
			sellValue, err := decimal.NewFromString(args[2])
			if err != nil {
				return err
			}

			breakdown, err := app.Calculator.Compute(tradeType, buyValue, sellValue)
			if err != nil {
				output.Error("Charge computation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(breakdown)
			}

			output.Bold("Charges (%s)", tradeType)
			for _, item := range breakdown.Items() {
				if item.Name == "slippage" {
					continue
				}
				output.Printf("  %-20s %s\n", item.Name, utils.FormatIndianCurrency(item.Amount.InexactFloat64()))
			}
			output.Printf("  %-20s %s\n", "total", utils.FormatIndianCurrency(breakdown.Total.InexactFloat64()))
			return nil
		},
	}
}

func newEvaluateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <type> <base-price> <selling-price> <quantity>",
		Short: "Evaluate profitability of a candidate trade",
		Example: `  tradecost evaluate delivery 100 102 100
  tradecost evaluate intraday 500 501.5 200 --slippage 0.02`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			tradeType, base, sell, qty, err := parseEvalArgs(args)
			if err != nil {
				return err
			}
			slippage, _ := cmd.Flags().GetFloat64("slippage")

			analysis, err := app.Evaluator.Evaluate(tradeType, base, sell, qty, slippage)
			if err != nil {
				output.Error("Evaluation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(analysis)
			}

			printAnalysis(output, analysis)
			return nil
		},
	}
	cmd.Flags().Float64("slippage", 0, "Slippage estimate per share (default from config)")
	return cmd
}

func newAlternativesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alternatives <type> <base-price> <current-price> <quantity>",
		Short: "Search for a better target price or a partial-sell plan",
		Example: `  tradecost alternatives delivery 100 100.5 100 --target 50
  tradecost alternatives delivery 100 101 500 --partial --min-per-unit 0.25`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			tradeType, base, current, qty, err := parseEvalArgs(args)
			if err != nil {
				return err
			}
			target, _ := cmd.Flags().GetFloat64("target")
			partial, _ := cmd.Flags().GetBool("partial")
			minPerUnit, _ := cmd.Flags().GetFloat64("min-per-unit")
			slippage, _ := cmd.Flags().GetFloat64("slippage")

			alts := &models.AlternativeSet{}

			if target > 0 {
				better, err := app.Finder.SuggestBetterPrice(tradeType, base, qty, target, slippage)
				if err != nil {
					output.Warning("Better price: %v", err)
				} else {
					alts.BetterPrice = better
				}
			}

			if partial {
				plan, err := app.Finder.PartialSellStrategy(tradeType, base, current, qty, minPerUnit, slippage)
				if err != nil {
					output.Warning("Partial sell: %v", err)
				}
				alts.PartialSell = plan
			}

			if output.IsJSON() {
				return output.JSON(alts)
			}

			printAlternatives(output, alts)
			return nil
		},
	}
	cmd.Flags().Float64("target", 0, "Minimum net profit the suggested price must clear")
	cmd.Flags().Bool("partial", false, "Search for a partial-sell plan")
	cmd.Flags().Float64("min-per-unit", 0, "Minimum profit per unit for partial-sell quantities")
	cmd.Flags().Float64("slippage", 0, "Slippage estimate per share (default from config)")
	return cmd
}

func newExecuteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute <symbol> <quantity>",
		Short: "Run a candidate trade through the decision engine",
		Long: `Run a candidate trade through the full decision machine: evaluate
profitability, place the order when profitable, and otherwise report
alternatives. Orders go to the paper gateway unless live mode is configured.`,
		Example: `  tradecost execute RELIANCE 100 --type delivery --base 2810 --candidate 2860
  tradecost execute TCS 50 --type intraday --base 3400 --candidate 3412 --partial --target 100`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol := strings.ToUpper(args[0])
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				output.Error("Invalid quantity: %s", args[1])
				return err
			}

			typeStr, _ := cmd.Flags().GetString("type")
			tradeType, err := parseTradeType(typeStr)
			if err != nil {
				return err
			}
			base, _ := cmd.Flags().GetFloat64("base")
			candidate, _ := cmd.Flags().GetFloat64("candidate")
			target, _ := cmd.Flags().GetFloat64("target")
			partial, _ := cmd.Flags().GetBool("partial")
			minPerUnit, _ := cmd.Flags().GetFloat64("min-per-unit")
			slippage, _ := cmd.Flags().GetFloat64("slippage")

			req := &models.TradeRequest{
				Symbol:           symbol,
				Type:             tradeType,
				Exchange:         models.NSE,
				Quantity:         qty,
				BasePrice:        base,
				CandidatePrice:   candidate,
				SlippagePerShare: slippage,
				MinProfitTarget:  target,
				AllowPartialSell: partial,
				MinProfitPerUnit: minPerUnit,
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			decision, err := app.Orchestrator.ExecuteTrade(ctx, req)
			if err != nil && decision == nil {
				output.Error("Decision failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(decision)
			}

			printDecision(output, decision, err)
			return err
		},
	}
	cmd.Flags().String("type", "delivery", "Trade type (delivery, intraday, futures, options)")
	cmd.Flags().Float64("base", 0, "Entry price")
	cmd.Flags().Float64("candidate", 0, "Candidate exit price")
	cmd.Flags().Float64("target", 0, "Minimum profit target enabling the better-price search")
	cmd.Flags().Bool("partial", false, "Permit a partial-sell plan on rejection")
	cmd.Flags().Float64("min-per-unit", 0, "Minimum profit per unit for partial-sell quantities")
	cmd.Flags().Float64("slippage", 0, "Slippage estimate per share (default from config)")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("candidate")
	return cmd
}

func newTradesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "List executed trades from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol, _ := cmd.Flags().GetString("symbol")
			limit, _ := cmd.Flags().GetInt("limit")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			entries, err := app.Ledger.Trades(ctx, ledger.Filter{
				Symbol: strings.ToUpper(symbol),
				Limit:  limit,
			})
			if err != nil {
				output.Error("Ledger query failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}

			if len(entries) == 0 {
				output.Println("No trades recorded.")
				return nil
			}
			output.Bold("%-12s %-10s %-9s %6s %12s %12s %12s", "TRADE", "SYMBOL", "TYPE", "QTY", "BASE", "EXEC", "NET")
			for _, e := range entries {
				id := e.TradeID
				if len(id) > 10 {
					id = id[:10]
				}
				output.Printf("%-12s %-10s %-9s %6d %12.2f %12.2f %12s\n",
					id, e.Symbol, e.Type, e.Quantity, e.BasePrice, e.ExecutionPrice, e.NetProfit)
			}
			return nil
		},
	}
	cmd.Flags().String("symbol", "", "Filter by symbol")
	cmd.Flags().Int("limit", 20, "Maximum rows")
	return cmd
}

func parseEvalArgs(args []string) (models.TradeType, float64, float64, int, error) {
	tradeType, err := parseTradeType(args[0])
	if err != nil {
		return "", 0, 0, 0, err
	}
	base, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return "", 0, 0, 0, err
	}
	sell, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return "", 0, 0, 0, err
	}
	qty, err := strconv.Atoi(args[3])
	if err != nil {
		return "", 0, 0, 0, err
	}
	return tradeType, base, sell, qty, nil
}

func printAnalysis(output *Output, analysis *models.Analysis) {
	output.Bold("Profitability (%s, qty %d)", analysis.Type, analysis.Quantity)
	output.Printf("  Gross profit:  %s\n", utils.FormatPnL(analysis.GrossProfit.InexactFloat64()))
	output.Printf("  Total charges: %s\n", utils.FormatIndianCurrency(analysis.TotalCharges.InexactFloat64()))
	output.Printf("  Net profit:    %s\n", utils.FormatPnL(analysis.NetProfit.InexactFloat64()))
	if analysis.IsProfitable {
		output.Success("PROFITABLE")
	} else {
		output.Warning("NOT PROFITABLE")
	}
}

func printAlternatives(output *Output, alts *models.AlternativeSet) {
	if alts.BetterPrice != nil {
		output.Success("Better price: %s (expected profit %s)",
			utils.FormatIndianCurrency(alts.BetterPrice.Price.InexactFloat64()),
			utils.FormatPnL(alts.BetterPrice.ExpectedProfit.InexactFloat64()))
	}
	if alts.PartialSell != nil {
		if alts.PartialSell.ShouldPartialSell {
			output.Success("Partial sell: %d units (keep %d), expected profit %s (%s/unit)",
				alts.PartialSell.Quantity,
				alts.PartialSell.RemainingQuantity,
				utils.FormatPnL(alts.PartialSell.ExpectedProfit.InexactFloat64()),
				utils.FormatIndianCurrency(alts.PartialSell.ProfitPerUnit.InexactFloat64()))
		} else {
			output.Warning("No partial quantity qualifies")
		}
	}
	if alts.HoldAdvice != nil {
		output.Printf("Hold advice: %s toward %s over %s\n",
			alts.HoldAdvice.Trend,
			utils.FormatIndianCurrency(alts.HoldAdvice.TargetPrice),
			alts.HoldAdvice.Timeframe)
	}
}

func printDecision(output *Output, decision *trading.Decision, err error) {
	switch decision.State {
	case trading.StateExecuted:
		output.Success("EXECUTED %s at %s (trade %s)",
			decision.Symbol,
			utils.FormatIndianCurrency(decision.ExecutionPrice),
			decision.TradeID)
		if decision.Analysis != nil {
			output.Printf("  Net profit: %s\n", utils.FormatPnL(decision.Analysis.NetProfit.InexactFloat64()))
		}
	case trading.StateRejected:
		output.Warning("REJECTED: not profitable")
		if decision.Analysis != nil {
			printAnalysis(output, decision.Analysis)
		}
		if decision.Alternatives != nil {
			printAlternatives(output, decision.Alternatives)
		}
	default:
		output.Error("ERROR: %v", err)
	}
}
