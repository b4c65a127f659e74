package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrUnexpectedStatus indicates a non-200 response from the wiki.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrTooManyPages guards pagination against a feed that never stops
	// offering a next page.
	ErrTooManyPages = errors.New("history pagination exceeded the page limit")
)

const (
	// historyPageSize is the number of revisions requested per history
	// page.
	historyPageSize = 500

	// maxHistoryPages bounds pagination; 500 revisions per page makes
	// this 100k revisions, far beyond any contest article.
	maxHistoryPages = 200

	// categoryMemberBatch is the page size for category listing requests.
	categoryMemberBatch = 500

	defaultHTTPTimeout = 30 * time.Second
)

// truncatedFeedMarker appears in the feed when newer revisions exist
// beyond the current page, i.e. the history is paginated.
const truncatedFeedMarker = "новіших 5"

// Client fetches pages from one MediaWiki site. It implements
// HistorySource, NominationSource and PageLister.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
	cache       *FeedCache
	pageCounter prometheus.Counter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithFeedCache attaches a local cache for history feeds.
func WithFeedCache(cache *FeedCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithPageCounter counts every page retrieved over HTTP.
func WithPageCounter(counter prometheus.Counter) Option {
	return func(c *Client) { c.pageCounter = counter }
}

// NewClient creates a client for the wiki at baseURL, for example
// "https://uk.wikipedia.org".
func NewClient(baseURL string, logger *slog.Logger, options ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logger,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// ArticleHistory fetches the article's revision-history feed, following
// the embedded next-page link until the history is exhausted, and returns
// the concatenated markup. Cached feeds are served without network access.
func (c *Client) ArticleHistory(ctx context.Context, title string) (string, error) {
	if c.cache != nil {
		if feed, ok := c.cache.Get(title); ok {
			c.logger.Debug("history feed served from cache", "title", title)

			return feed, nil
		}
	}

	address := fmt.Sprintf("%s/w/index.php?title=%s&action=history&limit=%d",
		c.baseURL, escapeTitle(title), historyPageSize)

	page, err := c.get(ctx, address)
	if err != nil {
		return "", err
	}

	feed := page
	pages := 1

	// Older revisions spill onto further pages only when the feed says
	// newer ones were cut off.
	if strings.Contains(page, truncatedFeedMarker) {
		for {
			next, ok, nextErr := nextPageLink(page)
			if nextErr != nil {
				return "", nextErr
			}

			if !ok {
				break
			}

			pages++
			if pages > maxHistoryPages {
				return "", fmt.Errorf("%w: %s", ErrTooManyPages, title)
			}

			page, err = c.get(ctx, c.baseURL+next)
			if err != nil {
				return "", err
			}

			feed += page
		}
	}

	c.logger.Debug("history feed fetched", "title", title, "pages", pages)

	if c.cache != nil {
		c.cache.Put(title, feed)
	}

	return feed, nil
}

// TalkPage fetches the raw wikitext of the article's talk page.
func (c *Client) TalkPage(ctx context.Context, title string) (string, error) {
	address := fmt.Sprintf("%s/w/index.php?title=%s&action=raw",
		c.baseURL, escapeTitle(TalkPageTitle(title)))

	return c.get(ctx, address)
}

// categoryMembersResponse is the slice of the API answer the lister needs.
type categoryMembersResponse struct {
	Continue struct {
		CMContinue string `json:"cmcontinue"`
	} `json:"continue"`
	Query struct {
		CategoryMembers []struct {
			Title string `json:"title"`
			NS    int    `json:"ns"`
		} `json:"categorymembers"`
	} `json:"query"`
}

// Namespace numbers of category members that are followed or collected.
const (
	nsArticle  = 0
	nsCategory = 14
)

// CategoryPages walks the category tree rooted at category and returns
// the article titles in it. Subcategories are followed; non-article
// members are dropped.
func (c *Client) CategoryPages(ctx context.Context, category string) ([]string, error) {
	var titles []string

	pending := []string{category}
	visited := map[string]bool{}

	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]

		if visited[current] {
			continue
		}

		visited[current] = true

		members, subcategories, err := c.categoryMembers(ctx, current)
		if err != nil {
			return nil, err
		}

		titles = append(titles, members...)
		pending = append(pending, subcategories...)
	}

	return titles, nil
}

func (c *Client) categoryMembers(ctx context.Context, category string) (articles, subcategories []string, err error) {
	continueToken := ""

	for {
		address := fmt.Sprintf(
			"%s/w/api.php?action=query&list=categorymembers&cmtitle=%s&cmlimit=%d&format=json",
			c.baseURL, url.QueryEscape("Категорія:"+category), categoryMemberBatch)
		if continueToken != "" {
			address += "&cmcontinue=" + url.QueryEscape(continueToken)
		}

		body, getErr := c.get(ctx, address)
		if getErr != nil {
			return nil, nil, getErr
		}

		var response categoryMembersResponse
		if jsonErr := json.Unmarshal([]byte(body), &response); jsonErr != nil {
			return nil, nil, fmt.Errorf("decode category members: %w", jsonErr)
		}

		for _, member := range response.Query.CategoryMembers {
			switch member.NS {
			case nsArticle:
				articles = append(articles, member.Title)
			case nsCategory:
				subcategories = append(subcategories, strings.TrimPrefix(member.Title, "Категорія:"))
			}
		}

		continueToken = response.Continue.CMContinue
		if continueToken == "" {
			return articles, subcategories, nil
		}
	}
}

func (c *Client) get(ctx context.Context, address string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", address, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, response.Status, address)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", address, err)
	}

	if c.pageCounter != nil {
		c.pageCounter.Inc()
	}

	return string(body), nil
}

// nextPageLink extracts the older-revisions pagination link, when present.
func nextPageLink(page string) (href string, ok bool, err error) {
	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(page))
	if parseErr != nil {
		return "", false, fmt.Errorf("parse history page: %w", parseErr)
	}

	href, exists := doc.Find(`a.mw-nextlink[rel="next"]`).Last().Attr("href")

	return href, exists, nil
}

// escapeTitle encodes an article title the way history URLs expect:
// spaces become underscores and ampersands are percent-encoded.
func escapeTitle(title string) string {
	return url.QueryEscape(strings.ReplaceAll(title, " ", "_"))
}
