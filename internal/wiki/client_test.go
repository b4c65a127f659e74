package wiki_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikitools-ua/jurybot/internal/wiki"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestArticleHistorySinglePage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/w/index.php", r.URL.Path)
		assert.Equal(t, "Моя_стаття", r.URL.Query().Get("title"))
		assert.Equal(t, "history", r.URL.Query().Get("action"))

		io.WriteString(w, `<section id="pagehistory"><ul></ul></section>`)
	}))
	defer server.Close()

	client := wiki.NewClient(server.URL, discardLogger())

	feed, err := client.ArticleHistory(context.Background(), "Моя стаття")
	require.NoError(t, err)
	assert.Contains(t, feed, "pagehistory")
}

func TestArticleHistoryFollowsPagination(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/w/index.php", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("offset") {
		case "":
			io.WriteString(w, `<p>новіших 500</p><ul><li>page-one</li></ul>`+
				`<a href="/w/index.php?offset=2" rel="next" class="mw-nextlink">старіших 500</a>`)
		case "2":
			io.WriteString(w, `<ul><li>page-two</li></ul>`)
		default:
			http.NotFound(w, r)
		}
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := wiki.NewClient(server.URL, discardLogger())

	feed, err := client.ArticleHistory(context.Background(), "Стаття")
	require.NoError(t, err)
	assert.Contains(t, feed, "page-one")
	assert.Contains(t, feed, "page-two")
}

func TestArticleHistoryUsesCache(t *testing.T) {
	t.Parallel()

	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++

		io.WriteString(w, `<section id="pagehistory"></section>`)
	}))
	defer server.Close()

	cache, err := wiki.NewFeedCache(t.TempDir(), discardLogger())
	require.NoError(t, err)

	client := wiki.NewClient(server.URL, discardLogger(), wiki.WithFeedCache(cache))

	_, err = client.ArticleHistory(context.Background(), "Стаття")
	require.NoError(t, err)

	_, err = client.ArticleHistory(context.Background(), "Стаття")
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
}

func TestArticleHistoryErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := wiki.NewClient(server.URL, discardLogger())

	_, err := client.ArticleHistory(context.Background(), "Стаття")
	require.ErrorIs(t, err, wiki.ErrUnexpectedStatus)
}

func TestTalkPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "raw", r.URL.Query().Get("action"))
		assert.Equal(t, "Обговорення:Стаття", r.URL.Query().Get("title"))

		io.WriteString(w, "{{Шаблон|користувач=Olena}}")
	}))
	defer server.Close()

	client := wiki.NewClient(server.URL, discardLogger())

	text, err := client.TalkPage(context.Background(), "Стаття")
	require.NoError(t, err)
	assert.Contains(t, text, "Olena")
}

func TestCategoryPagesWalksTree(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cmtitle") {
		case "Категорія:Коренева":
			io.WriteString(w, `{"query":{"categorymembers":[
				{"title":"Стаття один","ns":0},
				{"title":"Категорія:Вкладена","ns":14},
				{"title":"Шаблон:Зайвий","ns":10}]}}`)
		case "Категорія:Вкладена":
			io.WriteString(w, `{"query":{"categorymembers":[
				{"title":"Стаття два","ns":0}]}}`)
		default:
			http.NotFound(w, r)
		}
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := wiki.NewClient(server.URL, discardLogger())

	titles, err := client.CategoryPages(context.Background(), "Коренева")
	require.NoError(t, err)
	assert.Equal(t, []string{"Стаття один", "Стаття два"}, titles)
}

func TestFeedCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache, err := wiki.NewFeedCache(t.TempDir(), discardLogger())
	require.NoError(t, err)

	_, ok := cache.Get("Стаття")
	assert.False(t, ok)

	cache.Put("Стаття з / та : у назві", "<html>вміст</html>")

	feed, ok := cache.Get("Стаття з / та : у назві")
	require.True(t, ok)
	assert.Equal(t, "<html>вміст</html>", feed)
}

func TestExtractTopicID(t *testing.T) {
	t.Parallel()

	feed := `<html><body>
	<a href="https://www.wikidata.org/wiki/Special:EntityPage/Q12345"
	   title="Посилання на пов’язаний елемент сховища даних [g]" accesskey="g">
	   <span>Елемент Вікіданих</span></a>
	</body></html>`

	id, ok := wiki.ExtractTopicID(feed)
	require.True(t, ok)
	assert.Equal(t, 12345, id)

	_, ok = wiki.ExtractTopicID(`<html><body>нема посилання</body></html>`)
	assert.False(t, ok)
}

func TestTalkPageTitleHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Обговорення:Стаття", wiki.TalkPageTitle("Стаття"))
	assert.Equal(t, "Стаття", wiki.ArticleTitle("Обговорення:Стаття"))
	assert.Equal(t, "Стаття", wiki.ArticleTitle("Стаття"))
}
