package contest

import (
	"math"
	"sort"
)

// orderCoefficientBase is the per-entry diminishing factor applied to a
// contributor's Nth qualifying article.
const orderCoefficientBase = 0.99

// orderCoefficientScale rounds the order coefficient to 4 decimal places.
const orderCoefficientScale = 1e4

// LeaderboardEntry is one contributor's qualifying-entry count.
type LeaderboardEntry struct {
	Editor string
	Count  int
}

// Results is the aggregated outcome of a contest run.
type Results struct {
	// Eligible holds qualified articles in chronological order with
	// sequential ids, ordinals and order coefficients assigned.
	Eligible []Article

	// Disqualified holds disqualified articles in arrival order.
	Disqualified []Article

	// Leaderboard ranks contributors by qualifying-entry count, ties
	// broken by name.
	Leaderboard []LeaderboardEntry
}

// Aggregate partitions evaluated articles, orders the qualified ones
// chronologically and assigns the order-dependent fields in one
// sequential pass. Ordinal state lives entirely inside this function;
// re-running it over the same input is deterministic.
func Aggregate(articles []Article) Results {
	var results Results

	for _, art := range articles {
		if art.Disqualified {
			results.Disqualified = append(results.Disqualified, art)
		} else {
			// A qualified article always carries a creation or improvement
			// time; anything else is a bug in the engine.
			if !art.TimeKnown {
				panic("contest: qualified article " + art.Title + " has no timestamp")
			}

			results.Eligible = append(results.Eligible, art)
		}
	}

	// Stable: equal timestamps keep arrival order.
	sort.SliceStable(results.Eligible, func(i, j int) bool {
		return results.Eligible[i].Time.Before(results.Eligible[j].Time)
	})

	ordinals := map[string]int{}

	for i := range results.Eligible {
		art := &results.Eligible[i]

		art.SequentialID = i + 1

		ordinals[art.Editor]++
		art.UserOrdinal = ordinals[art.Editor]
		art.OrderCoefficient = orderCoefficient(art.UserOrdinal)
	}

	results.Leaderboard = make([]LeaderboardEntry, 0, len(ordinals))
	for editor, count := range ordinals {
		results.Leaderboard = append(results.Leaderboard, LeaderboardEntry{Editor: editor, Count: count})
	}

	sort.Slice(results.Leaderboard, func(i, j int) bool {
		a, b := results.Leaderboard[i], results.Leaderboard[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}

		return a.Editor < b.Editor
	})

	return results
}

// orderCoefficient is round(0.99^n, 4) for a contributor's nth entry.
func orderCoefficient(n int) float64 {
	return math.Round(math.Pow(orderCoefficientBase, float64(n))*orderCoefficientScale) / orderCoefficientScale
}
