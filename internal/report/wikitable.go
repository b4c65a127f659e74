// Package report formats aggregated contest results: the wiki markup
// artifact, a console summary and an optional leaderboard chart. It takes
// no decisions and performs no validation.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wikitools-ua/jurybot/internal/contest"
	"github.com/wikitools-ua/jurybot/internal/history"
)

// redCell highlights byte counts of entries disqualified for size or
// improvement reasons.
const redCell = "style=background:#faa | "

// timePlaceholder fills the timestamp cell when no improvement time
// exists.
const timePlaceholder = "&dash;"

// RenderWiki serializes the aggregated results into the output wiki page:
// the contributor leaderboard, the qualified-entries table with a blank
// jury column, and the disqualified-entries table.
func RenderWiki(results contest.Results, params *contest.Parameters) string {
	var b strings.Builder

	b.WriteString("== Учасники за кількістю статей ==\n" +
		"{{div col|colwidth=360px}}\n{| class=\"wikitable sortable\"\n" +
		"! Учасник || <small>Кіл-ть статей</small>")

	for _, entry := range results.Leaderboard {
		fmt.Fprintf(&b, "\n|-\n| {{U|%s}} || %d", entry.Editor, entry.Count)
	}

	b.WriteString("\n|}\n{{div col end}}\n\n== Конкурсні статті ==\n{| class=\"wikitable\"\n")
	b.WriteString("! № || Стаття || Автор || <small>Створена <br/>нова?</small> || " +
		"<small>Дата створення/<br/>доповнення</small> || Розмір || " +
		"<small>№ для цього <br/>учасника</small> || Країни || К<sub>к</sub> || " +
		"K<sub>н</sub> || K<sub>д</sub> || Оцінка журі")

	for _, art := range results.Eligible {
		b.WriteString("\n")
		b.WriteString(eligibleRow(art, params))
	}

	b.WriteString("\n|}\n\n== Дискваліфіковані статті ==\n{| class=\"wikitable\"\n")
	b.WriteString("! Стаття || Автор || <small>Створена <br/>нова?</small> || " +
		"<small>Дата створення/<br/>доповнення</small> || Розмір || Країни || " +
		"Причина дискваліфікації")

	for _, art := range results.Disqualified {
		b.WriteString("\n")
		b.WriteString(disqualifiedRow(art, params))
	}

	b.WriteString("\n|}\n")

	return b.String()
}

func eligibleRow(art contest.Article, params *contest.Parameters) string {
	return "|-\n| " + strconv.Itoa(art.SequentialID) +
		" || [[" + art.Title + "]]" +
		" || {{U|" + art.Editor + "}}" +
		" || " + newCreationMark(art) +
		" || " + formatTime(art.Time) +
		" || " + strconv.Itoa(art.UserByteCount) +
		" || " + strconv.Itoa(art.UserOrdinal) +
		" || " + countriesCell(art.Countries, params.Countries) +
		" || " + formatCoefficient(art.CountryCoefficient) +
		" || " + strconv.FormatFloat(art.OrderCoefficient, 'f', -1, 64) +
		" || " + formatCoefficient(art.Bonus()) +
		" || "
}

func disqualifiedRow(art contest.Article, params *contest.Parameters) string {
	timeCell := timePlaceholder
	if art.TimeKnown {
		timeCell = formatTime(art.Time)
	}

	sizeCell := strconv.Itoa(art.UserByteCount)
	if art.Reason == contest.ReasonInsufficientImprovement || art.Reason == contest.ReasonArticleTooSmall {
		sizeCell = redCell + sizeCell
	}

	return "|-\n| [[" + art.Title + "]]" +
		" || {{U|" + art.Editor + "}}" +
		" || " + newCreationMark(art) +
		" || " + timeCell +
		"\n| " + sizeCell +
		"\n| " + countriesCell(art.Countries, params.Countries) +
		"\n| " + params.ReasonText(art.Reason)
}

// newCreationMark renders the "created new?" cell: так for a new
// creation, ні for an expansion.
func newCreationMark(art contest.Article) string {
	if art.IsExpansion {
		return "ні"
	}

	return "так"
}

// countriesCell renders each declared country as a flag template plus the
// country name, one per line.
func countriesCell(tags []string, table contest.CountryTable) string {
	cells := make([]string, 0, len(tags))
	for _, tag := range tags {
		cells = append(cells, "{{Прапорець|"+table[tag].Abbreviation+"}}&nbsp;"+tag)
	}

	return strings.Join(cells, "<br/>")
}

// formatCoefficient renders a coefficient with one decimal place.
// Midpoints round away from zero, so 1.25 prints as 1.3.
func formatCoefficient(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

// formatTime renders a timestamp the way the wiki does: zero-padded day,
// genitive month name, year and time.
func formatTime(ts time.Time) string {
	return fmt.Sprintf("%02d %s %d, %02d:%02d",
		ts.Day(), history.MonthGenitive(ts.Month()), ts.Year(), ts.Hour(), ts.Minute())
}
