// Package history reconstructs the edit history of a wiki article from its
// raw history feed and answers windowed contribution queries over it.
package history

import (
	"errors"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrEmptyCollection is returned when a query requires at least one version.
var ErrEmptyCollection = errors.New("version collection is empty")

// Version is one revision of an article page. It is immutable once parsed.
type Version struct {
	// Timestamp is the moment the edit was committed, normalized to the
	// run's reference timezone.
	Timestamp time.Time

	// Editor is the display name of the user who made the edit.
	Editor string

	// Size is the size of the page in bytes after the edit.
	Size int

	// Delta is the byte difference against the previous version. Negative
	// for edits that shrink the page.
	Delta int
}

// Collection is the ordered set of versions for exactly one article,
// stored newest-first, matching the order of the source feed.
type Collection struct {
	versions []Version
}

// NewCollection creates an empty version collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds a version at the end of storage order. The feed is retrieved
// newest-first, so appending in feed order preserves the invariant.
func (c *Collection) Append(ver Version) {
	c.versions = append(c.versions, ver)
}

// Len returns the number of versions in the collection.
func (c *Collection) Len() int {
	return len(c.versions)
}

// Latest returns the newest version, the first in storage order.
func (c *Collection) Latest() (Version, error) {
	if len(c.versions) == 0 {
		return Version{}, ErrEmptyCollection
	}

	return c.versions[0], nil
}

// Earliest returns the oldest version, the last in storage order.
func (c *Collection) Earliest() (Version, error) {
	if len(c.versions) == 0 {
		return Version{}, ErrEmptyCollection
	}

	return c.versions[len(c.versions)-1], nil
}

// ByteCountForEditor sums Delta over versions made by editor with a
// timestamp inside [start, finish], both ends inclusive.
//
// The scan walks newest-first: versions newer than finish are skipped and
// the loop stops at the first version older than start. This relies on the
// descending-timestamp storage order.
func (c *Collection) ByteCountForEditor(editor string, start, finish time.Time) int {
	total := 0

	for _, ver := range c.versions {
		if ver.Timestamp.After(finish) {
			continue
		}

		if ver.Timestamp.Before(start) {
			break
		}

		if SameEditor(ver.Editor, editor) {
			total += ver.Delta
		}
	}

	return total
}

// VersionAt returns the version that was current at timePoint: the newest
// version whose timestamp is not after it. The second result is false when
// every version postdates timePoint.
func (c *Collection) VersionAt(timePoint time.Time) (Version, bool) {
	for _, ver := range c.versions {
		if !ver.Timestamp.After(timePoint) {
			return ver, true
		}
	}

	return Version{}, false
}

// VersionWhereByteCountReached walks versions oldest to newest, restricted
// to [start, finish], accumulating Delta for versions made by editor, and
// returns the first version at which the running sum reaches threshold.
// The second result is false when the threshold is never reached.
func (c *Collection) VersionWhereByteCountReached(editor string, threshold int, start, finish time.Time) (Version, bool) {
	sum := 0

	for i := len(c.versions) - 1; i >= 0; i-- {
		ver := c.versions[i]

		if ver.Timestamp.Before(start) {
			continue
		}

		if ver.Timestamp.After(finish) {
			break
		}

		if !SameEditor(ver.Editor, editor) {
			continue
		}

		sum += ver.Delta
		if sum >= threshold {
			return ver, true
		}
	}

	return Version{}, false
}

// SameEditor reports whether two editor display names identify the same
// user. Only the case of the first character is insignificant: the wiki
// capitalizes the first letter of user names, while nominations frequently
// spell it lowercase. The rest of the name compares case-sensitively.
func SameEditor(a, b string) bool {
	if a == b {
		return true
	}

	ra, sizeA := utf8.DecodeRuneInString(a)
	rb, sizeB := utf8.DecodeRuneInString(b)

	if ra == utf8.RuneError || rb == utf8.RuneError {
		return false
	}

	return unicode.ToUpper(ra) == unicode.ToUpper(rb) && a[sizeA:] == b[sizeB:]
}
