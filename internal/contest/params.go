// Package contest holds the contest configuration, the per-article
// eligibility and scoring rules, and the cross-article aggregation that
// assigns ids, ordinals and the contributor leaderboard.
package contest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingParameter indicates a required contest parameter is
	// absent from the parameters file.
	ErrMissingParameter = errors.New("missing contest parameter")

	// ErrInvalidParameter indicates a parameter value that does not parse
	// or fails validation.
	ErrInvalidParameter = errors.New("invalid contest parameter")

	// ErrInvalidCountryRow indicates a malformed row in the country table.
	ErrInvalidCountryRow = errors.New("invalid country table row")

	// ErrInvalidTopicID indicates a non-integer line in the
	// recommended-topic list.
	ErrInvalidTopicID = errors.New("invalid recommended topic id")
)

// Recognized parameter keys. Keys ending _time parse as day.month.year
// dates, keys ending _int as integers, everything else as strings.
const (
	keyStartTime          = "start_time"
	keyFinishTime         = "finish_time"
	keyMinimumImprovement = "minimum_article_improv_int"
	keyMinimumSize        = "minimum_article_size_int"
	keySmallSize          = "small_article_size_int"
	keyRecommendedOnly    = "allow_recommended_only"
	keyTemplateName       = "nomination_template_name"
	keyCategoryName       = "articles_category_name"
)

const (
	timeKeySuffix = "_time"
	intKeySuffix  = "_int"

	dateFieldCount      = 3
	countryTableColumns = 3
)

// Country is one row of the country table.
type Country struct {
	// Abbreviation is the short form used by flag templates in output.
	Abbreviation string

	// Coefficient is the scoring weight of the country.
	Coefficient float64
}

// CountryTable maps a country identifier to its display abbreviation and
// scoring coefficient.
type CountryTable map[string]Country

// Contains reports whether tag resolves in the table.
func (t CountryTable) Contains(tag string) bool {
	_, ok := t[tag]

	return ok
}

// MaxCoefficient returns the highest coefficient among tags, 0 when tags
// is empty. Every tag is expected to resolve; unresolvable tags cannot
// reach this point because nomination parsing rejects them.
func (t CountryTable) MaxCoefficient(tags []string) float64 {
	maxCoef := 0.0

	for _, tag := range tags {
		if country, ok := t[tag]; ok && country.Coefficient > maxCoef {
			maxCoef = country.Coefficient
		}
	}

	return maxCoef
}

// TopicSet is the set of external topic identifiers the contest
// specifically solicited articles about.
type TopicSet map[int]struct{}

// Contains reports whether id is in the set.
func (s TopicSet) Contains(id int) bool {
	_, ok := s[id]

	return ok
}

// Parameters is the validated global contest configuration, loaded once
// per run. Every recognized option is an explicit typed field; the loader
// fails eagerly on values that do not parse.
type Parameters struct {
	// StartTime and FinishTime bound the contest window. Comparisons
	// treat the window as inclusive of both ends.
	StartTime  time.Time
	FinishTime time.Time

	// MinimumImprovementBytes is the contribution an expansion must
	// accumulate inside the window to count as an improvement.
	MinimumImprovementBytes int

	// MinimumArticleSizeBytes is the smallest acceptable contribution for
	// a newly created article.
	MinimumArticleSizeBytes int

	// SmallArticleSizeBytes bounds the "small article" bonus tier: an
	// article at most this large at contest start earns the 1.5 bonus
	// when improved.
	SmallArticleSizeBytes int

	// RestrictToRecommended disqualifies new creations whose topic is not
	// in the recommended set.
	RestrictToRecommended bool

	// TemplateName is the nomination template to look for on talk pages.
	TemplateName string

	// CategoryName is the category tree that enumerates nominated
	// articles.
	CategoryName string

	// Recommended is the recommended-topic set.
	Recommended TopicSet

	// Countries is the country table.
	Countries CountryTable
}

// LoadParameters parses the contest parameters file: one "key: value" or
// "key:value" pair per line. Unrecognized keys are ignored; the file also
// feeds collaborators outside this tool (credentials for the wiki
// session, for example).
func LoadParameters(r io.Reader) (*Parameters, error) {
	params := &Parameters{}
	seen := map[string]bool{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(strings.Replace(line, ": ", ":", 1), ":")
		if !found {
			return nil, fmt.Errorf("%w: line %q", ErrInvalidParameter, line)
		}

		if err := params.apply(key, value); err != nil {
			return nil, err
		}

		seen[key] = true
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}

	required := []string{
		keyStartTime, keyFinishTime, keyMinimumImprovement,
		keyMinimumSize, keySmallSize, keyTemplateName,
	}
	for _, key := range required {
		if !seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, key)
		}
	}

	if params.FinishTime.Before(params.StartTime) {
		return nil, fmt.Errorf("%w: finish_time precedes start_time", ErrInvalidParameter)
	}

	return params, nil
}

func (p *Parameters) apply(key, value string) error {
	switch {
	case strings.HasSuffix(key, timeKeySuffix):
		parsed, err := parseDate(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidParameter, key, value, err)
		}

		switch key {
		case keyStartTime:
			p.StartTime = parsed
		case keyFinishTime:
			p.FinishTime = parsed
		}
	case strings.HasSuffix(key, intKeySuffix):
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidParameter, key, value)
		}

		switch key {
		case keyMinimumImprovement:
			p.MinimumImprovementBytes = parsed
		case keyMinimumSize:
			p.MinimumArticleSizeBytes = parsed
		case keySmallSize:
			p.SmallArticleSizeBytes = parsed
		}
	default:
		switch key {
		case keyRecommendedOnly:
			p.RestrictToRecommended = value == "true"
		case keyTemplateName:
			p.TemplateName = value
		case keyCategoryName:
			p.CategoryName = value
		}
	}

	return nil
}

// parseDate parses "day.month.year" into midnight at that date in the
// reference zone.
func parseDate(value string) (time.Time, error) {
	parts := strings.Split(value, ".")
	if len(parts) != dateFieldCount {
		return time.Time{}, errors.New("want day.month.year")
	}

	day, dayErr := strconv.Atoi(parts[0])
	month, monthErr := strconv.Atoi(parts[1])
	year, yearErr := strconv.Atoi(parts[2])

	if dayErr != nil || monthErr != nil || yearErr != nil {
		return time.Time{}, errors.New("non-numeric date field")
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// LoadCountryTable parses the tab-delimited country table: identifier,
// display abbreviation, coefficient with an invariant-locale decimal
// point.
func LoadCountryTable(r io.Reader) (CountryTable, error) {
	table := CountryTable{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) != countryTableColumns {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCountryRow, line)
		}

		coefficient, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidCountryRow, line, err)
		}

		table[parts[0]] = Country{Abbreviation: parts[1], Coefficient: coefficient}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read country table: %w", err)
	}

	return table, nil
}

// LoadRecommendedTopics parses the newline-delimited list of external
// topic identifiers.
func LoadRecommendedTopics(r io.Reader) (TopicSet, error) {
	set := TopicSet{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTopicID, line)
		}

		set[id] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recommended topics: %w", err)
	}

	return set, nil
}
