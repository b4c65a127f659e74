// Package commands implements CLI command handlers for jurybot.
package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wikitools-ua/jurybot/internal/config"
	"github.com/wikitools-ua/jurybot/internal/contest"
	"github.com/wikitools-ua/jurybot/internal/observability"
	"github.com/wikitools-ua/jurybot/internal/report"
	"github.com/wikitools-ua/jurybot/internal/wiki"
)

// RunCommand holds configuration for the run command.
type RunCommand struct {
	configPath     string
	outputPath     string
	plotPath       string
	noCache        bool
	nonInteractive bool
}

// NewRunCommand creates the contest evaluation command.
func NewRunCommand() *cobra.Command {
	rc := &RunCommand{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate all nominated articles and write the result tables",
		Long: `Run fetches every article nominated in the contest category, reconstructs
its edit history, applies the eligibility and scoring rules and writes the
leaderboard, qualified and disqualified tables as wiki markup.

Source anomalies (missing or ambiguous nomination, unknown country tag,
authorship mismatch) pause for on-wiki correction and are retried with
fresh input.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			quiet, _ := cmd.Flags().GetBool("quiet")

			return rc.execute(cmd, verbose, quiet)
		},
	}

	cmd.Flags().StringVarP(&rc.configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&rc.outputPath, "output", "o", "", "result file path (overrides config)")
	cmd.Flags().StringVar(&rc.plotPath, "plot", "", "write a leaderboard chart to this HTML file")
	cmd.Flags().BoolVar(&rc.noCache, "no-cache", false, "bypass the history-feed cache")
	cmd.Flags().BoolVar(&rc.nonInteractive, "non-interactive", false,
		"skip anomalous articles instead of pausing for operator correction")

	return cmd
}

func (rc *RunCommand) execute(cmd *cobra.Command, verbose, quiet bool) error {
	cfg, err := config.Load(rc.configPath)
	if err != nil {
		return err
	}

	if rc.outputPath != "" {
		cfg.Output.Result = rc.outputPath
	}

	if rc.plotPath != "" {
		cfg.Output.Plot = rc.plotPath
	}

	logger := observability.NewLogger(cmd.ErrOrStderr(), verbose, quiet)
	metrics := observability.NewMetrics()

	params, err := loadContestData(cfg)
	if err != nil {
		return err
	}

	client, err := buildClient(cfg, rc.noCache, logger, metrics)
	if err != nil {
		return err
	}

	titles, err := client.CategoryPages(cmd.Context(), params.CategoryName)
	if err != nil {
		return fmt.Errorf("list contest category: %w", err)
	}

	logger.Info("contest category listed", "category", params.CategoryName, "pages", len(titles))

	runner := &Runner{
		Params:    params,
		Histories: client,
		Talks:     client,
		Logger:    logger,
		Metrics:   metrics,
		UTCOffset: localUTCOffset(time.Now()),
	}
	if !rc.nonInteractive {
		runner.Prompt = operatorPrompt(cmd)
	}

	results, err := runner.Run(cmd.Context(), titles)
	if err != nil {
		return err
	}

	rendered := report.RenderWiki(results, params)
	if err := os.WriteFile(cfg.Output.Result, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}

	logger.Info("result written",
		"path", cfg.Output.Result,
		"qualified", len(results.Eligible),
		"disqualified", len(results.Disqualified))

	if cfg.Output.Plot != "" {
		if err := writePlot(cfg.Output.Plot, results); err != nil {
			return err
		}
	}

	if !quiet {
		report.WriteSummary(cmd.OutOrStdout(), results)
	}

	if verbose {
		if err := metrics.WriteDiagnostics(cmd.ErrOrStderr()); err != nil {
			logger.Warn("diagnostics unavailable", "error", err)
		}
	}

	return nil
}

func loadContestData(cfg *config.Config) (*contest.Parameters, error) {
	params, err := loadFile(cfg.Files.Parameters, contest.LoadParameters)
	if err != nil {
		return nil, err
	}

	params.Countries, err = loadFile(cfg.Files.Countries, contest.LoadCountryTable)
	if err != nil {
		return nil, err
	}

	params.Recommended, err = loadFile(cfg.Files.Recommended, contest.LoadRecommendedTopics)
	if err != nil {
		return nil, err
	}

	return params, nil
}

func loadFile[T any](path string, load func(r io.Reader) (T, error)) (T, error) {
	var zero T

	file, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	loaded, err := load(file)
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", path, err)
	}

	return loaded, nil
}

func buildClient(cfg *config.Config, noCache bool, logger *slog.Logger, metrics *observability.Metrics) (*wiki.Client, error) {
	options := []wiki.Option{
		wiki.WithHTTPClient(&http.Client{Timeout: cfg.Wiki.Timeout}),
		wiki.WithPageCounter(metrics.PagesFetched),
	}

	if cfg.Cache.Enabled && !noCache {
		cache, err := wiki.NewFeedCache(cfg.Cache.Dir, logger)
		if err != nil {
			return nil, fmt.Errorf("open feed cache: %w", err)
		}

		options = append(options, wiki.WithFeedCache(cache))
	}

	return wiki.NewClient(cfg.Wiki.BaseURL, logger, options...), nil
}

func writePlot(path string, results contest.Results) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer file.Close()

	return report.RenderLeaderboardChart(file, results)
}

// operatorPrompt pauses the run so the operator can correct the source on
// the wiki, then retries with fresh input. Answering "n" skips the
// article instead.
func operatorPrompt(cmd *cobra.Command) PromptFunc {
	warn := color.New(color.FgYellow, color.Bold)
	reader := bufio.NewReader(cmd.InOrStdin())

	return func(message string) bool {
		warn.Fprintf(cmd.ErrOrStderr(), "WARNING! %s\n", message)
		fmt.Fprint(cmd.ErrOrStderr(), "Correct the page and press Enter to retry, or type n to skip: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}

		return !strings.EqualFold(strings.TrimSpace(line), "n")
	}
}

// localUTCOffset returns the UTC offset of the machine the run executes
// on. Feed timestamps are rendered in local wiki time only after this
// shift.
func localUTCOffset(now time.Time) time.Duration {
	_, seconds := now.Zone()

	return time.Duration(seconds) * time.Second
}
