package contest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikitools-ua/jurybot/internal/contest"
)

func eligibleArticle(title, editor string, at time.Time) contest.Article {
	return contest.Article{Title: title, Editor: editor, Time: at, TimeKnown: true}
}

func TestAggregatePartitionsAndOrders(t *testing.T) {
	t.Parallel()

	articles := []contest.Article{
		eligibleArticle("Б", "Alice", january(10, 0)),
		{Title: "Г", Editor: "Bob", Disqualified: true, Reason: contest.ReasonArticleTooSmall},
		eligibleArticle("А", "Bob", january(5, 0)),
		eligibleArticle("В", "Alice", january(20, 0)),
	}

	results := contest.Aggregate(articles)

	require.Len(t, results.Eligible, 3)
	require.Len(t, results.Disqualified, 1)

	// Chronological by creation-or-improvement time.
	assert.Equal(t, []string{"А", "Б", "В"},
		[]string{results.Eligible[0].Title, results.Eligible[1].Title, results.Eligible[2].Title})

	// Sequential ids follow the sorted order.
	for i, art := range results.Eligible {
		assert.Equal(t, i+1, art.SequentialID)
	}

	// Per-editor ordinals count qualifying entries in processing order.
	assert.Equal(t, 1, results.Eligible[0].UserOrdinal) // Bob's 1st.
	assert.Equal(t, 1, results.Eligible[1].UserOrdinal) // Alice's 1st.
	assert.Equal(t, 2, results.Eligible[2].UserOrdinal) // Alice's 2nd.

	assert.InDelta(t, 0.99, results.Eligible[1].OrderCoefficient, 1e-9)
	assert.InDelta(t, 0.9801, results.Eligible[2].OrderCoefficient, 1e-9)
}

func TestAggregateDeterministic(t *testing.T) {
	t.Parallel()

	articles := []contest.Article{
		eligibleArticle("А", "Alice", january(3, 0)),
		eligibleArticle("Б", "Bob", january(3, 0)),
		eligibleArticle("В", "Alice", january(3, 0)),
	}

	first := contest.Aggregate(articles)
	second := contest.Aggregate(articles)

	require.Equal(t, first, second)

	// Equal timestamps keep arrival order (stable sort).
	assert.Equal(t, "А", first.Eligible[0].Title)
	assert.Equal(t, "Б", first.Eligible[1].Title)
	assert.Equal(t, "В", first.Eligible[2].Title)
}

func TestAggregateLeaderboard(t *testing.T) {
	t.Parallel()

	var articles []contest.Article
	for day := 1; day <= 3; day++ {
		articles = append(articles,
			eligibleArticle("A", "Bob", january(day, 0)),
			eligibleArticle("B", "Alice", january(day, 12)),
		)
	}

	articles = append(articles, eligibleArticle("C", "Carol", january(9, 0)))

	results := contest.Aggregate(articles)

	require.Len(t, results.Leaderboard, 3)

	// Alice and Bob tie on 3; the tie breaks lexicographically.
	assert.Equal(t, contest.LeaderboardEntry{Editor: "Alice", Count: 3}, results.Leaderboard[0])
	assert.Equal(t, contest.LeaderboardEntry{Editor: "Bob", Count: 3}, results.Leaderboard[1])
	assert.Equal(t, contest.LeaderboardEntry{Editor: "Carol", Count: 1}, results.Leaderboard[2])
}

func TestAggregateExclusivePartitions(t *testing.T) {
	t.Parallel()

	articles := []contest.Article{
		eligibleArticle("А", "Alice", january(3, 0)),
		{Title: "Б", Editor: "Bob", Disqualified: true, Reason: contest.ReasonCreatedAfterContest},
		{Title: "В", Editor: "Bob", Disqualified: true, Reason: contest.ReasonInsufficientImprovement},
	}

	results := contest.Aggregate(articles)

	assert.Len(t, results.Eligible, 1)
	assert.Len(t, results.Disqualified, 2)

	seen := map[string]bool{}
	for _, art := range results.Eligible {
		seen[art.Title] = true
	}

	for _, art := range results.Disqualified {
		assert.False(t, seen[art.Title], "article %s in both partitions", art.Title)
	}

	// Disqualified entries never receive order-dependent fields.
	for _, art := range results.Disqualified {
		assert.Zero(t, art.SequentialID)
		assert.Zero(t, art.UserOrdinal)
	}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	results := contest.Aggregate(nil)

	assert.Empty(t, results.Eligible)
	assert.Empty(t, results.Disqualified)
	assert.Empty(t, results.Leaderboard)
}
