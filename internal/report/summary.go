package report

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/wikitools-ua/jurybot/internal/contest"
)

// maxSummaryRows bounds the contributor table printed to the console.
const maxSummaryRows = 10

// WriteSummary prints a human-oriented run summary: entry counts, a
// per-reason breakdown and the top contributors. The wiki artifact, not
// this table, is the authoritative output.
func WriteSummary(w io.Writer, results contest.Results) {
	totals := table.NewWriter()
	totals.SetOutputMirror(w)
	totals.SetStyle(table.StyleLight)
	totals.AppendHeader(table.Row{"Entries", "Count"})
	totals.AppendRow(table.Row{"Qualified", len(results.Eligible)})
	totals.AppendRow(table.Row{"Disqualified", len(results.Disqualified)})
	totals.Render()

	if len(results.Disqualified) > 0 {
		byReason := map[contest.Reason]int{}
		for _, art := range results.Disqualified {
			byReason[art.Reason]++
		}

		reasons := table.NewWriter()
		reasons.SetOutputMirror(w)
		reasons.SetStyle(table.StyleLight)
		reasons.AppendHeader(table.Row{"Disqualification reason", "Count"})

		for reason := contest.ReasonInsufficientImprovement; reason <= contest.ReasonCreatedAfterContest; reason++ {
			if byReason[reason] > 0 {
				reasons.AppendRow(table.Row{reason.String(), byReason[reason]})
			}
		}

		reasons.Render()
	}

	if len(results.Leaderboard) == 0 {
		return
	}

	bytesByEditor := map[string]int64{}
	for _, art := range results.Eligible {
		bytesByEditor[art.Editor] += int64(art.UserByteCount)
	}

	contributors := table.NewWriter()
	contributors.SetOutputMirror(w)
	contributors.SetStyle(table.StyleLight)
	contributors.AppendHeader(table.Row{"#", "Contributor", "Articles", "Bytes added"})

	for i, entry := range results.Leaderboard {
		if i == maxSummaryRows {
			break
		}

		contributors.AppendRow(table.Row{
			i + 1, entry.Editor, entry.Count,
			humanize.Comma(bytesByEditor[entry.Editor]),
		})
	}

	contributors.Render()
}
