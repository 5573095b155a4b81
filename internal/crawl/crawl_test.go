package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yufengw/ai-news-agent/internal/store"
)

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<p>hello <b>world</b></p>", "hello world"},
		{"<p>a &amp; b</p>", "a & b"},
	}
	for _, c := range cases {
		if got := stripHTML(c.in); got != c.want {
			t.Fatalf("stripHTML(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 500); got != "short" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	if got := truncate(string(long), 500); len(got) != 500 {
		t.Fatalf("expected 500 chars, got %d", len(got))
	}
}

func TestRegistry(t *testing.T) {
	crawlers := All(nil)
	if len(crawlers) != 7 {
		t.Fatalf("expected 7 crawlers, got %d", len(crawlers))
	}
	if Get("hackernews", nil) == nil {
		t.Fatal("expected hackernews crawler registered")
	}
	if Get("nope", nil) != nil {
		t.Fatal("expected nil for unknown crawler")
	}
	if names := Names(nil); len(names) != len(crawlers) {
		t.Fatalf("expected %d names, got %d", len(crawlers), len(names))
	}
}

func TestHackerNewsCrawl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/topstories.json":
			fmt.Fprint(w, "[1, 2, 3]")
		case "/item/1.json":
			fmt.Fprint(w, `{"type":"story","title":"First","url":"https://example.com/1","by":"alice","score":42}`)
		case "/item/2.json":
			fmt.Fprint(w, `{"type":"job","title":"Hiring"}`)
		case "/item/3.json":
			fmt.Fprint(w, `{"type":"story","title":"Ask HN: no url","by":"bob","score":7}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	hn := newHackerNewsWithBaseURL(srv.URL, srv.Client())
	articles, err := hn.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 stories (job filtered), got %d", len(articles))
	}
	if articles[0].Score != 42 || articles[0].Source != "hackernews" {
		t.Fatalf("unexpected article: %+v", articles[0])
	}
	if articles[1].URL != "https://news.ycombinator.com/item?id=3" {
		t.Fatalf("expected HN permalink fallback, got %s", articles[1].URL)
	}
}

type stubCrawler struct {
	name     string
	articles []store.Article
	err      error
}

func (s stubCrawler) Name() string { return s.name }
func (s stubCrawler) Crawl(ctx context.Context) ([]store.Article, error) {
	return s.articles, s.err
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	crawlers := []Crawler{
		stubCrawler{name: "good", articles: []store.Article{{URL: "u1", Title: "T", Source: "good"}}},
		stubCrawler{name: "bad", err: errors.New("down")},
	}
	articles := FetchAll(context.Background(), crawlers)
	if len(articles) != 1 || articles[0].Source != "good" {
		t.Fatalf("expected the healthy source's article, got %+v", articles)
	}
}
