package wiki

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// cacheFileExt marks compressed feed files in the cache directory.
const cacheFileExt = ".html.lz4"

// FeedCache stores fetched history feeds on disk, lz4-compressed, one
// file per article title. It is strictly best-effort: any read or write
// failure degrades to a cache miss and is only logged.
type FeedCache struct {
	dir    string
	logger *slog.Logger
}

// NewFeedCache creates a feed cache under dir, creating the directory if
// needed.
func NewFeedCache(dir string, logger *slog.Logger) (*FeedCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &FeedCache{dir: dir, logger: logger}, nil
}

// Get returns the cached feed for title, if present and readable.
func (fc *FeedCache) Get(title string) (string, bool) {
	file, err := os.Open(fc.path(title))
	if err != nil {
		return "", false
	}
	defer file.Close()

	feed, err := io.ReadAll(lz4.NewReader(file))
	if err != nil {
		fc.logger.Warn("feed cache entry unreadable", "title", title, "error", err)

		return "", false
	}

	return string(feed), true
}

// Put stores the feed for title.
func (fc *FeedCache) Put(title, feed string) {
	file, err := os.Create(fc.path(title))
	if err != nil {
		fc.logger.Warn("feed cache write failed", "title", title, "error", err)

		return
	}
	defer file.Close()

	writer := lz4.NewWriter(file)

	if _, err := writer.Write([]byte(feed)); err != nil {
		fc.logger.Warn("feed cache write failed", "title", title, "error", err)

		return
	}

	if err := writer.Close(); err != nil {
		fc.logger.Warn("feed cache write failed", "title", title, "error", err)
	}
}

// path maps a title to its cache file, replacing path separators that
// legitimately occur in titles.
func (fc *FeedCache) path(title string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(title)

	return filepath.Join(fc.dir, safe+cacheFileExt)
}
