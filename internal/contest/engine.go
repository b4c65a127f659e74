package contest

import (
	"errors"
	"fmt"

	"github.com/wikitools-ua/jurybot/internal/history"
	"github.com/wikitools-ua/jurybot/internal/nomination"
)

var (
	// ErrAuthorshipMismatch indicates a new-creation claim where the
	// article's first version was made by someone other than the claimed
	// editor. It is an input problem for the operator to correct, not a
	// disqualification.
	ErrAuthorshipMismatch = errors.New("claimed editor did not create the article")

	// ErrNoVersions indicates an empty version collection reached the
	// engine. Parsing never produces one, so this is a programming error.
	ErrNoVersions = errors.New("article has no versions")
)

// Topic is the article's external topic identifier, when one is linked.
type Topic struct {
	ID    int
	Known bool
}

// Evaluate classifies one nominated article as qualified or disqualified
// and computes its score inputs. It is a pure function of the nomination,
// the version history and the contest parameters; order-dependent fields
// are left for the aggregator.
//
// The first disqualifying rule wins, but the creation-or-improvement time
// and the contribution size are always computed, since the disqualified
// table reports them too.
func Evaluate(nom nomination.Nomination, versions *history.Collection, params *Parameters, topic Topic) (Article, error) {
	art := Article{
		Title:       nom.Title,
		Editor:      nom.Editor,
		IsExpansion: nom.IsExpansion,
		Countries:   nom.Countries,
	}

	art.RecommendedTopic = topic.Known && params.Recommended.Contains(topic.ID)

	// Recommended-list gate for new creations.
	if params.RestrictToRecommended && !nom.IsExpansion && !art.RecommendedTopic {
		art.Disqualified = true
		art.Reason = ReasonNotInRecommendedList
	}

	earliest, err := versions.Earliest()
	if err != nil {
		return Article{}, fmt.Errorf("%s: %w", nom.Title, ErrNoVersions)
	}

	// A new-creation claim requires the earliest version to be by the
	// claimed editor. Only the first character compares case-insensitively.
	if !nom.IsExpansion && !history.SameEditor(earliest.Editor, nom.Editor) {
		return Article{}, fmt.Errorf("%w: %s claimed by %q, created by %q",
			ErrAuthorshipMismatch, nom.Title, nom.Editor, earliest.Editor)
	}

	if !nom.IsExpansion && earliest.Timestamp.Before(params.StartTime) {
		art.CreatedBeforeContest = true
	}

	if earliest.Timestamp.After(params.FinishTime) {
		art.Disqualified = true
		art.Reason = ReasonCreatedAfterContest
	}

	if nom.IsExpansion {
		reached, ok := versions.VersionWhereByteCountReached(
			nom.Editor, params.MinimumImprovementBytes, params.StartTime, params.FinishTime)
		if ok {
			art.Time = reached.Timestamp
			art.TimeKnown = true
		} else if !art.Disqualified {
			art.Disqualified = true
			art.Reason = ReasonInsufficientImprovement
		}
	} else {
		art.Time = earliest.Timestamp
		art.TimeKnown = true
	}

	art.UserByteCount = versions.ByteCountForEditor(nom.Editor, params.StartTime, params.FinishTime)
	if !art.Disqualified && !nom.IsExpansion && art.UserByteCount < params.MinimumArticleSizeBytes {
		art.Disqualified = true
		art.Reason = ReasonArticleTooSmall
	}

	art.CountryCoefficient = params.Countries.MaxCoefficient(nom.Countries)

	// The small-article bonus requires the article to predate the contest.
	// Creation exactly at the boundary does not count.
	if earliest.Timestamp.Before(params.StartTime) {
		atStart, ok := versions.VersionAt(params.StartTime)
		art.ImprovedSmall = ok && atStart.Size <= params.SmallArticleSizeBytes
	}

	return art, nil
}
