package contest

import (
	"strconv"
	"time"
)

// Reason is a stable disqualification code. The numeric values are part
// of the output contract and must not be reordered.
type Reason int

// Disqualification reasons.
const (
	ReasonInsufficientImprovement Reason = iota
	ReasonArticleTooSmall
	ReasonNotInRecommendedList
	ReasonCreatedAfterContest
)

// String returns the stable code name of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonInsufficientImprovement:
		return "INSUFFICIENT_IMPROVEMENT"
	case ReasonArticleTooSmall:
		return "ARTICLE_TOO_SMALL"
	case ReasonNotInRecommendedList:
		return "NOT_IN_RECOMMENDED_LIST"
	case ReasonCreatedAfterContest:
		return "CREATED_AFTER_CONTEST"
	default:
		return "UNKNOWN"
	}
}

// ReasonText returns the localized explanation displayed in the
// disqualified-entries table. Threshold-dependent texts embed the
// configured limits.
func (p *Parameters) ReasonText(r Reason) string {
	switch r {
	case ReasonInsufficientImprovement:
		return "Користувач додав до статті менше ніж " +
			strconv.Itoa(p.MinimumImprovementBytes) + " байтів"
	case ReasonArticleTooSmall:
		return "Користувач створив статтю меншу за " +
			strconv.Itoa(p.MinimumArticleSizeBytes) + " байтів"
	case ReasonNotInRecommendedList:
		return "Користувач створив нову статтю не зі списку запропонованих"
	case ReasonCreatedAfterContest:
		return "Користувач створив статтю після завершення конкурсного періоду"
	default:
		return ""
	}
}

// Article is the evaluation result for one nominated article. It is
// produced by Evaluate and read-only afterwards; the aggregator fills in
// the order-dependent fields on qualified articles.
type Article struct {
	Title       string
	Editor      string
	IsExpansion bool
	Countries   []string

	// Time is the creation time for a new article, or the moment the
	// contributor's in-window contribution crossed the improvement bar
	// for an expansion. TimeKnown is false when no such moment exists
	// (which always coincides with an improvement disqualification).
	Time      time.Time
	TimeKnown bool

	// UserByteCount is the contributor's total in-window byte delta.
	UserByteCount int

	Disqualified bool
	Reason       Reason

	// CountryCoefficient is the highest coefficient among declared
	// countries.
	CountryCoefficient float64

	// RecommendedTopic is true when the article's external topic
	// identifier is in the recommended set.
	RecommendedTopic bool

	// ImprovedSmall is true when the article existed before the contest
	// and was at most the small-article size at contest start.
	ImprovedSmall bool

	// CreatedBeforeContest flags a new-creation claim whose earliest
	// version predates the window. It does not disqualify; the operator
	// reviews it.
	CreatedBeforeContest bool

	// SequentialID, UserOrdinal and OrderCoefficient are assigned by the
	// aggregator and are zero until then.
	SequentialID     int
	UserOrdinal      int
	OrderCoefficient float64
}

// Bonus tiers for the recommended-or-small bonus.
const (
	bonusRecommended = 2.0
	bonusSmall       = 1.5
	bonusDefault     = 1.0
)

// Bonus returns the recommended-or-small bonus tier: 2.0 for a
// recommended topic, 1.5 for an improved small article, 1.0 otherwise.
func (a *Article) Bonus() float64 {
	switch {
	case a.RecommendedTopic:
		return bonusRecommended
	case a.ImprovedSmall:
		return bonusSmall
	default:
		return bonusDefault
	}
}
