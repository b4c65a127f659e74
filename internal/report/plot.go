package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wikitools-ua/jurybot/internal/contest"
)

// maxPlotContributors bounds the leaderboard chart width.
const maxPlotContributors = 30

// RenderLeaderboardChart writes an HTML bar chart of qualifying-entry
// counts per contributor.
func RenderLeaderboardChart(w io.Writer, results contest.Results) error {
	entries := results.Leaderboard
	if len(entries) > maxPlotContributors {
		entries = entries[:maxPlotContributors]
	}

	names := make([]string, len(entries))
	values := make([]opts.BarData, len(entries))

	for i, entry := range entries {
		names[i] = entry.Editor
		values[i] = opts.BarData{Value: entry.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Учасники за кількістю статей",
			Subtitle: "Кількість зарахованих конкурсних статей",
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "jurybot"}),
	)

	bar.SetXAxis(names).AddSeries("Статті", values)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render leaderboard chart: %w", err)
	}

	return nil
}
