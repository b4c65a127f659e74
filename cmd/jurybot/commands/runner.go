package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wikitools-ua/jurybot/internal/contest"
	"github.com/wikitools-ua/jurybot/internal/history"
	"github.com/wikitools-ua/jurybot/internal/nomination"
	"github.com/wikitools-ua/jurybot/internal/observability"
	"github.com/wikitools-ua/jurybot/internal/wiki"
)

// maxAnomalyRetries bounds how often one article is re-fetched after
// operator corrections before it is given up on.
const maxAnomalyRetries = 10

// skippedTitlePrefixes are non-article pages that category listings may
// still contain.
var skippedTitlePrefixes = []string{"Категорія:", "Шаблон:", "Вікіпедія:"}

// PromptFunc asks the operator to correct a source anomaly. It returns
// true to re-fetch and retry the article, false to skip it. A nil prompt
// skips every anomalous article.
type PromptFunc func(message string) bool

// Runner evaluates every nominated article and aggregates the results.
// Evaluation is per-article and isolated; one malformed article never
// aborts the run.
type Runner struct {
	Params    *contest.Parameters
	Histories wiki.HistorySource
	Talks     wiki.NominationSource
	Logger    *slog.Logger
	Metrics   *observability.Metrics

	// UTCOffset is the local UTC offset in effect for the run; feed
	// timestamps are normalized by it.
	UTCOffset time.Duration

	// Prompt handles operator interaction on anomaly conditions.
	Prompt PromptFunc
}

// Run evaluates the given article titles and returns the aggregated
// results. Titles in non-article namespaces are skipped.
func (r *Runner) Run(ctx context.Context, titles []string) (contest.Results, error) {
	var articles []contest.Article

	for _, title := range titles {
		if skipTitle(title) {
			continue
		}

		art, ok, err := r.evaluateArticle(ctx, title)
		if err != nil {
			if ctx.Err() != nil {
				return contest.Results{}, fmt.Errorf("run aborted: %w", ctx.Err())
			}

			// Isolated per-article failure: report and move on.
			r.Logger.Error("article evaluation failed", "title", title, "error", err)

			continue
		}

		if !ok {
			continue
		}

		articles = append(articles, art)
	}

	return contest.Aggregate(articles), nil
}

// evaluateArticle runs the fetch-parse-evaluate pipeline for one article.
// Anomaly conditions pause for operator correction and retry with fresh
// input; the ok result is false when the article was skipped instead.
func (r *Runner) evaluateArticle(ctx context.Context, title string) (contest.Article, bool, error) {
	feed, err := r.Histories.ArticleHistory(ctx, title)
	if err != nil {
		return contest.Article{}, false, fmt.Errorf("fetch history: %w", err)
	}

	versions, err := history.Parse(feed, r.UTCOffset)
	if err != nil {
		return contest.Article{}, false, fmt.Errorf("parse history: %w", err)
	}

	topicID, topicKnown := wiki.ExtractTopicID(feed)
	topic := contest.Topic{ID: topicID, Known: topicKnown}

	for attempt := 0; attempt <= maxAnomalyRetries; attempt++ {
		talkText, err := r.Talks.TalkPage(ctx, title)
		if err != nil {
			return contest.Article{}, false, fmt.Errorf("fetch talk page: %w", err)
		}

		nom, err := nomination.Parse(title, talkText, r.Params.TemplateName, r.Params.Countries)
		if err != nil {
			if retry := r.anomaly(anomalyKind(err), err); retry {
				continue
			}

			return contest.Article{}, false, nil
		}

		art, err := contest.Evaluate(nom, versions, r.Params, topic)
		if err != nil {
			if errors.Is(err, contest.ErrAuthorshipMismatch) {
				if retry := r.anomaly("authorship_mismatch", err); retry {
					continue
				}

				return contest.Article{}, false, nil
			}

			return contest.Article{}, false, err
		}

		r.Metrics.ArticlesEvaluated.Inc()

		if art.CreatedBeforeContest {
			r.Logger.Warn("article was created before the contest started",
				"title", title, "created", art.Time)
		}

		if art.Disqualified {
			r.Metrics.Disqualifications.WithLabelValues(art.Reason.String()).Inc()
		}

		return art, true, nil
	}

	return contest.Article{}, false, fmt.Errorf("%s: anomaly persisted after %d retries", title, maxAnomalyRetries)
}

// anomaly records an anomaly condition and asks the operator whether to
// retry with corrected input.
func (r *Runner) anomaly(kind string, err error) bool {
	r.Metrics.Anomalies.WithLabelValues(kind).Inc()
	r.Logger.Warn("source anomaly needs operator attention", "kind", kind, "error", err)

	if r.Prompt == nil {
		return false
	}

	return r.Prompt(err.Error())
}

// anomalyKind maps nomination conditions to metric label values.
func anomalyKind(err error) string {
	switch {
	case errors.Is(err, nomination.ErrNominationMissing):
		return "nomination_missing"
	case errors.Is(err, nomination.ErrAmbiguousNomination):
		return "nomination_ambiguous"
	case errors.Is(err, nomination.ErrMissingEditor):
		return "editor_missing"
	case errors.Is(err, nomination.ErrUnknownCountry):
		return "unknown_country"
	default:
		return "other"
	}
}

func skipTitle(title string) bool {
	for _, prefix := range skippedTitlePrefixes {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}

	return false
}
