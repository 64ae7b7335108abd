package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/trippay/reimburse/internal/calculation"
	"github.com/trippay/reimburse/internal/config"
	"github.com/trippay/reimburse/internal/domain"
	"github.com/trippay/reimburse/internal/eval"
	"github.com/trippay/reimburse/internal/tui"
)

// cliLogger implements calculation.Logger using the standard log package
type cliLogger struct{}

func (cliLogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (cliLogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (cliLogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (cliLogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var paramsFile string

var rootCmd = &cobra.Command{
	Use:   "reimburse",
	Short: "Legacy trip reimbursement replica",
	Long: "Deterministic replica of a legacy travel reimbursement calculation,\n" +
		"reverse-engineered from labeled input/output pairs.",
}

// loadParameters returns the built-in calibration unless --params names a
// snapshot file.
func loadParameters() (*config.Parameters, error) {
	if paramsFile == "" {
		return config.DefaultParameters(), nil
	}
	return config.NewParamsParser().LoadFromFile(paramsFile)
}

var calculateCmd = &cobra.Command{
	Use:   "calculate <duration-days> <miles-traveled> <receipts-amount>",
	Short: "Calculate the reimbursement for a single trip",
	Long: "Calculate the reimbursement for one trip and print a single number\n" +
		"with two decimal places to standard output.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		trip, err := parseTripArgs(args)
		if err != nil {
			return err
		}

		params, err := loadParameters()
		if err != nil {
			return err
		}

		engine := calculation.NewEngine(params)
		fmt.Fprintln(cmd.OutOrStdout(), engine.Calculate(trip).StringFixed(2))
		return nil
	},
}

// parseTripArgs rejects malformed input before the engine ever sees it; the
// engine's contract assumes validated trips.
func parseTripArgs(args []string) (domain.TripInput, error) {
	days, err := strconv.Atoi(args[0])
	if err != nil {
		return domain.TripInput{}, fmt.Errorf("duration-days must be an integer, got %q", args[0])
	}

	miles, err := strconv.Atoi(args[1])
	if err != nil {
		return domain.TripInput{}, fmt.Errorf("miles-traveled must be an integer, got %q", args[1])
	}

	receipts, err := decimal.NewFromString(args[2])
	if err != nil {
		return domain.TripInput{}, fmt.Errorf("receipts-amount must be a number, got %q", args[2])
	}

	return domain.NewTripInput(days, miles, receipts)
}

var (
	evalFormat  string
	evalOutput  string
	evalSample  int
	evalWorst   int
	evalVerbose bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <cases-file>",
	Short: "Score the engine against a labeled case file",
	Long: "Replay a JSON file of labeled cases through the engine and report\n" +
		"match rates, error statistics, and the aggregate calibration score.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		casesPath := args[0]

		cases, err := config.NewCaseParser().LoadFromFile(casesPath)
		if err != nil {
			return err
		}
		if evalSample > 0 && evalSample < len(cases) {
			cases = cases[:evalSample]
		}

		params, err := loadParameters()
		if err != nil {
			return err
		}
		engine := calculation.NewEngine(params)

		var out string
		switch evalFormat {
		case "table":
			out, err = formatSummary(engine, cases, casesPath, &eval.TableFormatter{})
		case "json":
			out, err = formatSummaryJSON(engine, cases, casesPath)
		case "csv":
			out, err = (&eval.CSVFormatter{}).Format(engine, cases)
		default:
			return fmt.Errorf("unknown format %q (want table, csv, or json)", evalFormat)
		}
		if err != nil {
			return err
		}

		if evalOutput != "" {
			if err := os.WriteFile(evalOutput, []byte(out), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", evalOutput, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", evalOutput)
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func newEvaluator(engine *calculation.Engine) *eval.Evaluator {
	ev := eval.NewEvaluator(engine)
	ev.WorstCount = evalWorst
	if evalVerbose {
		ev.Logger = cliLogger{}
	}
	return ev
}

func formatSummary(engine *calculation.Engine, cases []domain.LabeledCase, path string, tf *eval.TableFormatter) (string, error) {
	summary := newEvaluator(engine).Run(cases)
	summary.CasesPath = path
	return tf.Format(summary), nil
}

func formatSummaryJSON(engine *calculation.Engine, cases []domain.LabeledCase, path string) (string, error) {
	summary := newEvaluator(engine).Run(cases)
	summary.CasesPath = path
	jf := &eval.JSONFormatter{Pretty: true}
	return jf.Format(summary)
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively probe the engine with parameter sliders",
	Long: "Open a terminal UI with sliders for duration, mileage, and receipts.\n" +
		"The reimbursement and the matched rule update live, which makes rule\n" +
		"boundaries easy to probe during recalibration.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParameters()
		if err != nil {
			return err
		}

		engine := calculation.NewEngine(params)
		program := tea.NewProgram(tui.NewModel(engine), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("explorer failed: %w", err)
		}
		return nil
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "reimburse %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "",
		"parameter snapshot YAML (defaults to the built-in calibration)")

	evalCmd.Flags().StringVar(&evalFormat, "format", "table", "output format: table, csv, or json")
	evalCmd.Flags().StringVar(&evalOutput, "output", "", "write the report to a file instead of stdout")
	evalCmd.Flags().IntVar(&evalSample, "sample", 0, "evaluate only the first N cases (0 = all)")
	evalCmd.Flags().IntVar(&evalWorst, "worst", 5, "number of worst cases to include in the report")
	evalCmd.Flags().BoolVar(&evalVerbose, "verbose", false, "log evaluation progress")

	rootCmd.AddCommand(calculateCmd, evalCmd, exploreCmd, versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
