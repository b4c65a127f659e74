package wiki

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// entityPagePrefix is the Wikidata entity link every connected article
// carries in its tools sidebar.
const entityPagePrefix = "https://www.wikidata.org/wiki/Special:EntityPage/Q"

var topicIDPattern = regexp.MustCompile(`/Special:EntityPage/Q(\d+)$`)

// ExtractTopicID pulls the article's external topic identifier (its
// Wikidata item number) out of the history feed markup. The second result
// is false for articles not linked to any item.
func ExtractTopicID(feedHTML string) (int, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(feedHTML))
	if err != nil {
		return 0, false
	}

	id := 0
	found := false

	doc.Find(`a[accesskey="g"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || !strings.HasPrefix(href, entityPagePrefix) {
			return true
		}

		groups := topicIDPattern.FindStringSubmatch(href)
		if groups == nil {
			return true
		}

		parsed, parseErr := strconv.Atoi(groups[1])
		if parseErr != nil {
			return true
		}

		id = parsed
		found = true

		return false
	})

	return id, found
}
