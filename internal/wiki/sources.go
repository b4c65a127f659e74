// Package wiki provides the external collaborators the evaluation core
// depends on: retrieval of history feeds, talk-page wikitext and category
// listings from a MediaWiki site, plus a best-effort local feed cache.
package wiki

import "context"

// talkNamespacePrefix is the namespace prefix of article talk pages.
const talkNamespacePrefix = "Обговорення:"

// HistorySource returns the raw history feed markup for an article,
// paginated pages already joined.
type HistorySource interface {
	ArticleHistory(ctx context.Context, title string) (string, error)
}

// NominationSource returns the raw wikitext of an article's talk page,
// where the nomination declaration lives.
type NominationSource interface {
	TalkPage(ctx context.Context, title string) (string, error)
}

// PageLister enumerates the article titles in a category tree.
type PageLister interface {
	CategoryPages(ctx context.Context, category string) ([]string, error)
}

// TalkPageTitle returns the talk-page title of an article.
func TalkPageTitle(article string) string {
	return talkNamespacePrefix + article
}

// ArticleTitle strips the talk namespace from a talk-page title.
func ArticleTitle(talkPage string) string {
	if len(talkPage) >= len(talkNamespacePrefix) && talkPage[:len(talkNamespacePrefix)] == talkNamespacePrefix {
		return talkPage[len(talkNamespacePrefix):]
	}

	return talkPage
}
