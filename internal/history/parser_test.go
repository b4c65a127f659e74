package history_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikitools-ua/jurybot/internal/history"
)

func feedEntry(revID int, date, editor, size, delta string) string {
	return fmt.Sprintf(`<li data-mw-revid="%d">
  <a class="mw-changeslist-date" title="%s">%s</a>
  <a class="mw-userlink" title="Користувач:%s"><bdi>%s</bdi></a>
  %s
  %s
</li>`, revID, editor, date, editor, editor, size, delta)
}

func sizeLabel(bytes, text string) string {
	return fmt.Sprintf(`<span class="history-size mw-diff-bytes" data-mw-bytes="%s">%s</span>`, bytes, text)
}

func deltaLabel(class, text string) string {
	return fmt.Sprintf(`<span class="mw-plusminus-%s mw-diff-bytes" title="зміна">%s</span>`, class, text)
}

func feed(entries ...string) string {
	body := ""
	for _, entry := range entries {
		body += entry + "\n"
	}

	return `<html><body><section id="pagehistory" class="mw-pager-body"><ul>` +
		body + `</ul></section></body></html>`
}

func TestParseFeed(t *testing.T) {
	t.Parallel()

	raw := feed(
		feedEntry(3, "12:30, 15 січня 2023", "Olena",
			sizeLabel("15482", "15 482 байти"), deltaLabel("pos", "+1 234")),
		feedEntry(2, "09:05, 7 січня 2023", "Taras",
			sizeLabel("14248", "14 248 байтів"), deltaLabel("neg", "−120")),
		feedEntry(1, "23:59, 31 грудня 2022", "Olena",
			sizeLabel("14368", "14 368 байтів"), deltaLabel("pos", "+14 368")),
	)

	collection, err := history.Parse(raw, 0)
	require.NoError(t, err)
	require.Equal(t, 3, collection.Len())

	latest, err := collection.Latest()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.January, 15, 12, 30, 0, 0, time.UTC), latest.Timestamp)
	assert.Equal(t, "Olena", latest.Editor)
	assert.Equal(t, 15482, latest.Size)
	assert.Equal(t, 1234, latest.Delta)

	earliest, err := collection.Earliest()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, time.December, 31, 23, 59, 0, 0, time.UTC), earliest.Timestamp)
	assert.Equal(t, 14368, earliest.Delta)

	middle, ok := collection.VersionAt(time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "Taras", middle.Editor)
	assert.Equal(t, -120, middle.Delta)
}

func TestParseShiftsByUTCOffset(t *testing.T) {
	t.Parallel()

	raw := feed(feedEntry(1, "23:30, 15 січня 2023", "Olena",
		sizeLabel("100", "100 байтів"), deltaLabel("pos", "+100")))

	collection, err := history.Parse(raw, 2*time.Hour)
	require.NoError(t, err)

	latest, err := collection.Latest()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.January, 16, 1, 30, 0, 0, time.UTC), latest.Timestamp)
}

func TestParseSkipsDeletedRevisions(t *testing.T) {
	t.Parallel()

	deleted := `<li data-mw-revid="2">
  <span class="history-deleted mw-changeslist-date">12:00, 10 січня 2023</span>
</li>`

	raw := feed(
		feedEntry(3, "12:30, 15 січня 2023", "Olena",
			sizeLabel("200", "200 байтів"), deltaLabel("pos", "+100")),
		deleted,
		feedEntry(1, "08:00, 5 січня 2023", "Olena",
			sizeLabel("100", "100 байтів"), deltaLabel("pos", "+100")),
	)

	collection, err := history.Parse(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, collection.Len())
}

func TestParseEmptyPageSentinel(t *testing.T) {
	t.Parallel()

	raw := feed(feedEntry(1, "10:00, 3 січня 2023", "Olena",
		sizeLabel("0", "порожня"), deltaLabel("null", "0")))

	collection, err := history.Parse(raw, 0)
	require.NoError(t, err)

	latest, err := collection.Latest()
	require.NoError(t, err)
	assert.Equal(t, 0, latest.Size)
	assert.Equal(t, 0, latest.Delta)
}

func TestParseMalformedEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry string
	}{
		{
			name: "missing delta label",
			entry: feedEntry(1, "10:00, 3 січня 2023", "Olena",
				sizeLabel("100", "100 байтів"), ""),
		},
		{
			name: "missing size label",
			entry: feedEntry(1, "10:00, 3 січня 2023", "Olena",
				"", deltaLabel("pos", "+100")),
		},
		{
			name: "missing editor link",
			entry: `<li data-mw-revid="1">
  <a class="mw-changeslist-date">10:00, 3 січня 2023</a>
  <span class="history-size mw-diff-bytes" data-mw-bytes="100">100 байтів</span>
  <span class="mw-plusminus-pos mw-diff-bytes">+100</span>
</li>`,
		},
		{
			name: "unknown month name",
			entry: feedEntry(1, "10:00, 3 january 2023", "Olena",
				sizeLabel("100", "100 байтів"), deltaLabel("pos", "+100")),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := history.Parse(feed(tt.entry), 0)
			require.ErrorIs(t, err, history.ErrMalformedEntry)
		})
	}
}

func TestParseNoHistorySection(t *testing.T) {
	t.Parallel()

	_, err := history.Parse(`<html><body><p>not a history page</p></body></html>`, 0)
	require.ErrorIs(t, err, history.ErrNoHistorySection)
}
