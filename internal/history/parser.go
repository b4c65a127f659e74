package history

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrNoHistorySection indicates the feed contains no revision list.
	ErrNoHistorySection = errors.New("history feed has no pagehistory section")

	// ErrMalformedEntry indicates a revision entry is missing a required
	// fragment or carries one that does not parse.
	ErrMalformedEntry = errors.New("malformed revision entry")
)

// emptyPageLabel is the sentinel size label the feed renders for a
// zero-byte page.
const emptyPageLabel = "порожня"

// datePattern matches the localized revision date label:
// "HH:MM, D <month-name> YYYY".
var datePattern = regexp.MustCompile(`(\d{2}):(\d{2}), (\d{1,2}) (\S+) (\d{4})`)

// sizePattern captures the byte count from a size label such as
// "15 482 байти". Thousands groups are separated by NBSP.
var sizePattern = regexp.MustCompile(`([\d\s\x{00a0}]+)\s*байт`)

// Parse turns the raw, already joined history feed markup of one article
// into a version collection, newest-first. Entries whose revision has been
// suppressed or deleted are skipped and never materialized.
//
// utcOffset is the local UTC offset in effect for the run; feed timestamps
// are shifted by it so all versions share one reference zone.
func Parse(feedHTML string, utcOffset time.Duration) (*Collection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(feedHTML))
	if err != nil {
		return nil, fmt.Errorf("parse history feed: %w", err)
	}

	section := doc.Find("section#pagehistory")
	if section.Length() == 0 {
		return nil, ErrNoHistorySection
	}

	collection := NewCollection()

	var entryErr error

	section.Find("li[data-mw-revid]").EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		// A suppressed or deleted revision is never materialized.
		if entry.Find(".history-deleted").Length() > 0 {
			return true
		}

		ver, parseErr := parseEntry(entry, utcOffset)
		if parseErr != nil {
			revID, _ := entry.Attr("data-mw-revid")
			entryErr = fmt.Errorf("revision %s: %w", revID, parseErr)

			return false
		}

		collection.Append(ver)

		return true
	})

	if entryErr != nil {
		return nil, entryErr
	}

	return collection, nil
}

func parseEntry(entry *goquery.Selection, utcOffset time.Duration) (Version, error) {
	timestamp, err := parseEntryDate(entry, utcOffset)
	if err != nil {
		return Version{}, err
	}

	editor := entry.Find(".mw-userlink bdi").First().Text()
	if editor == "" {
		return Version{}, fmt.Errorf("%w: no editor link", ErrMalformedEntry)
	}

	size, err := parseEntrySize(entry)
	if err != nil {
		return Version{}, err
	}

	delta, err := parseEntryDelta(entry)
	if err != nil {
		return Version{}, err
	}

	return Version{
		Timestamp: timestamp,
		Editor:    editor,
		Size:      size,
		Delta:     delta,
	}, nil
}

func parseEntryDate(entry *goquery.Selection, utcOffset time.Duration) (time.Time, error) {
	label := entry.Find("a.mw-changeslist-date").First().Text()
	if label == "" {
		return time.Time{}, fmt.Errorf("%w: no date label", ErrMalformedEntry)
	}

	groups := datePattern.FindStringSubmatch(label)
	if groups == nil {
		return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrMalformedEntry, label)
	}

	hour, _ := strconv.Atoi(groups[1])
	minute, _ := strconv.Atoi(groups[2])
	day, _ := strconv.Atoi(groups[3])
	year, _ := strconv.Atoi(groups[5])

	timestamp, err := normalizeTimestamp(day, groups[4], year, hour, minute, utcOffset)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrMalformedEntry, label, err)
	}

	return timestamp, nil
}

func parseEntrySize(entry *goquery.Selection) (int, error) {
	label := entry.Find("span.history-size.mw-diff-bytes").First()
	if label.Length() == 0 {
		return 0, fmt.Errorf("%w: no size label", ErrMalformedEntry)
	}

	text := strings.TrimSpace(label.Text())
	if text == emptyPageLabel {
		return 0, nil
	}

	groups := sizePattern.FindStringSubmatch(text)
	if groups == nil {
		return 0, fmt.Errorf("%w: unparseable size %q", ErrMalformedEntry, text)
	}

	size, err := strconv.Atoi(stripSeparators(groups[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable size %q", ErrMalformedEntry, text)
	}

	return size, nil
}

func parseEntryDelta(entry *goquery.Selection) (int, error) {
	label := entry.Find(".mw-plusminus-pos, .mw-plusminus-neg, .mw-plusminus-null").
		Filter(".mw-diff-bytes").First()
	if label.Length() == 0 {
		return 0, fmt.Errorf("%w: no delta label", ErrMalformedEntry)
	}

	// The feed renders negatives with U+2212, not ASCII minus.
	text := strings.ReplaceAll(strings.TrimSpace(label.Text()), "−", "-")

	delta, err := strconv.Atoi(stripSeparators(text))
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable delta %q", ErrMalformedEntry, text)
	}

	return delta, nil
}

// stripSeparators removes the whitespace thousands separators the feed
// inserts into byte counts.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' {
			return -1
		}

		return r
	}, s)
}
