package main

// #region imports
import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yufengw/ai-news-agent/internal/classify"
	"github.com/yufengw/ai-news-agent/internal/config"
	"github.com/yufengw/ai-news-agent/internal/crawl"
	"github.com/yufengw/ai-news-agent/internal/digest"
	"github.com/yufengw/ai-news-agent/internal/email"
	"github.com/yufengw/ai-news-agent/internal/learn"
	"github.com/yufengw/ai-news-agent/internal/linkedin"
	"github.com/yufengw/ai-news-agent/internal/llm"
	"github.com/yufengw/ai-news-agent/internal/score"
	"github.com/yufengw/ai-news-agent/internal/store"
	"github.com/yufengw/ai-news-agent/internal/summarize"
	"github.com/yufengw/ai-news-agent/internal/ui"
)

// #endregion

// #region app

// app bundles the wired components behind every subcommand.
type app struct {
	cfg        config.Config
	store      *store.Store
	llm        *llm.Client // nil without an API key
	classifier *classify.Classifier
	engine     *learn.Engine
	scorer     *score.Scorer
	digest     *digest.Generator
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: st}
	if cfg.APIKey != "" {
		a.llm = llm.NewClient(cfg.APIKey, cfg.Model, nil)
		a.classifier = classify.NewClassifier(a.llm)
	} else {
		// Keyword-only classification still works end to end.
		a.classifier = classify.NewClassifier(nil)
	}
	a.engine = learn.NewEngine(st, a.classifier)
	a.scorer = score.NewScorer(a.classifier)

	var sender digest.Sender
	if cfg.ResendAPIKey != "" && cfg.DigestEmailTo != "" {
		sender = email.NewResend(cfg.ResendAPIKey, cfg.DigestEmailFrom, cfg.DigestEmailTo)
	}
	if a.llm != nil {
		a.digest = digest.NewGenerator(st, a.llm, a.scorer, sender)
	}
	return a, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
}

// #endregion app

// #region main

func usage() {
	fmt.Fprintln(os.Stderr, `usage: newsagent <command> [flags]

commands:
  crawl        fetch articles from all (or one) source
  list         show recent articles ranked by preference
  rate         rate an article: rate <article-id> <up|down|neutral>
  prefs        show learned preferences
  reset-prefs  delete all learned preferences
  summarize    fill in neutral summaries for recent articles
  digest       generate (and optionally email) a digest
  linkedin     draft a LinkedIn post or article from top stories
  watch        run crawl and digest on a schedule

the HTTP review dashboard is a separate binary: cmd/dashboard`)
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	a, err := newApp()
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer a.close()

	ctx := context.Background()
	switch os.Args[1] {
	case "crawl":
		err = a.runCrawl(ctx, os.Args[2:])
	case "list":
		err = a.runList(ctx, os.Args[2:])
	case "rate":
		err = a.runRate(ctx, os.Args[2:])
	case "prefs":
		err = a.runPrefs(os.Args[2:])
	case "reset-prefs":
		err = a.runResetPrefs()
	case "summarize":
		err = a.runSummarize(ctx, os.Args[2:])
	case "digest":
		err = a.runDigest(ctx, os.Args[2:])
	case "linkedin":
		err = a.runLinkedIn(ctx, os.Args[2:])
	case "watch":
		err = a.runWatch(ctx)
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

// #endregion main

// #region crawl

func (a *app) runCrawl(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	source := fs.String("source", "", "crawl a single source by name")
	fs.Parse(args)

	var crawlers []crawl.Crawler
	if *source != "" {
		c := crawl.Get(*source, a.cfg.Feeds)
		if c == nil {
			return fmt.Errorf("unknown source %q (have %v)", *source, crawl.Names(a.cfg.Feeds))
		}
		crawlers = []crawl.Crawler{c}
	} else {
		crawlers = crawl.All(a.cfg.Feeds)
	}

	articles := crawl.FetchAll(ctx, crawlers)
	saved, err := a.store.SaveArticles(articles)
	if err != nil {
		return err
	}
	fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("crawled %d articles, %d new", len(articles), saved)))
	return nil
}

// #endregion crawl

// #region list

func (a *app) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	hours := fs.Int("hours", 24, "look back this many hours")
	limit := fs.Int("limit", 20, "show at most N articles")
	unrated := fs.Bool("unrated", false, "only articles without a rating")
	rated := fs.Bool("rated", false, "only articles already rated")
	source := fs.String("source", "", "filter by source")
	fs.Parse(args)

	since := time.Now().UTC().Add(-time.Duration(*hours) * time.Hour)
	if *rated {
		return a.listRated(since, *limit)
	}
	var articles []store.Article
	var err error
	if *unrated {
		articles, err = a.store.GetUnratedArticles(since)
	} else {
		articles, err = a.store.GetArticlesSince(since, *source)
	}
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		fmt.Println(ui.DimStyle.Render("no articles found; run `newsagent crawl` first"))
		return nil
	}

	prefs, err := a.store.GetAllPreferences()
	if err != nil {
		return err
	}
	ranked := score.Top(a.scorer.Rank(ctx, articles, prefs), *limit)

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Top %d of %d articles (last %dh)", len(ranked), len(articles), *hours)))
	for i, r := range ranked {
		fmt.Println(ui.RenderArticle(i, r))
	}
	return nil
}

// listRated shows the rating history, most recent first.
func (a *app) listRated(since time.Time, limit int) error {
	rated, err := a.store.GetRatedArticles(since)
	if err != nil {
		return err
	}
	if len(rated) == 0 {
		fmt.Println(ui.DimStyle.Render("no rated articles in this window"))
		return nil
	}
	if len(rated) > limit {
		rated = rated[:limit]
	}
	for _, ra := range rated {
		fmt.Printf("%s %s %s\n", ui.RenderRating(ra.Rating), ui.TitleStyle.Render(ra.Title), ui.DimStyle.Render(ra.Source))
	}
	return nil
}

// #endregion list

// #region rate

func (a *app) runRate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: rate <article-id> <up|down|neutral>")
	}
	if err := a.engine.Rate(ctx, args[0], args[1]); err != nil {
		return err
	}
	rating, _ := store.ParseRating(args[1])
	fmt.Printf("%s %s\n", ui.RenderRating(rating), ui.DimStyle.Render(args[0]))
	return nil
}

// #endregion rate

// #region prefs

func (a *app) runPrefs(args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	limit := fs.Int("limit", 10, "top N per category")
	fs.Parse(args)

	stats, err := a.store.PreferenceStats(*limit)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println(ui.DimStyle.Render("no preferences learned yet; rate some articles"))
		return nil
	}

	for _, category := range store.Categories {
		prefs := stats[category]
		if len(prefs) == 0 {
			continue
		}
		fmt.Println(ui.TitleStyle.Render(category))
		for _, p := range prefs {
			fmt.Println(ui.RenderPreference(p))
		}
		fmt.Println()
	}
	return nil
}

func (a *app) runResetPrefs() error {
	if err := a.store.ResetPreferences(); err != nil {
		return err
	}
	fmt.Println(ui.SuccessStyle.Render("all preferences reset"))
	return nil
}

// #endregion prefs

// #region summarize

func (a *app) runSummarize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summarize", flag.ExitOnError)
	hours := fs.Int("hours", 24, "look back this many hours")
	limit := fs.Int("limit", a.cfg.SummarizeLimit, "summarize at most N articles")
	fs.Parse(args)

	var gen summarize.TextGenerator
	if a.llm != nil {
		gen = a.llm
	}
	s := summarize.NewSummarizer(a.store, gen, nil)
	since := time.Now().UTC().Add(-time.Duration(*hours) * time.Hour)
	updated, err := s.FillMissing(ctx, since, *limit)
	if err != nil {
		return err
	}
	fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("summarized %d articles", updated)))
	return nil
}

// #endregion summarize

// #region digest

func (a *app) runDigest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("digest", flag.ExitOnError)
	hours := fs.Int("hours", 24, "cover articles from the last N hours")
	dryRun := fs.Bool("dry-run", false, "print only, never email")
	fs.Parse(args)

	if a.digest == nil {
		return fmt.Errorf("digest requires ANTHROPIC_API_KEY")
	}
	since := time.Now().UTC().Add(-time.Duration(*hours) * time.Hour)
	content, err := a.digest.Generate(ctx, since, *dryRun)
	if err != nil {
		return err
	}
	fmt.Println(content)
	return nil
}

// #endregion digest

// #region linkedin

func (a *app) runLinkedIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("linkedin", flag.ExitOnError)
	hours := fs.Int("hours", 48, "pick topics from the last N hours")
	topics := fs.Int("topics", 3, "number of top stories to write about")
	article := fs.Bool("article", false, "draft a long-form article instead of a post")
	fs.Parse(args)

	if a.llm == nil {
		return fmt.Errorf("linkedin requires ANTHROPIC_API_KEY")
	}

	since := time.Now().UTC().Add(-time.Duration(*hours) * time.Hour)
	articles, err := a.store.GetArticlesSince(since, "")
	if err != nil {
		return err
	}
	prefs, err := a.store.GetAllPreferences()
	if err != nil {
		return err
	}
	top := score.Top(a.scorer.Rank(ctx, articles, prefs), *topics)

	w := linkedin.NewWriter(a.llm)
	var draft string
	if *article {
		draft, err = w.ArticleDraft(ctx, top)
	} else {
		draft, err = w.Post(ctx, top)
	}
	if err != nil {
		return err
	}
	fmt.Println(draft)
	return nil
}

// #endregion linkedin

// #region watch

// runWatch schedules crawling and digest generation. Blocks forever.
func (a *app) runWatch(ctx context.Context) error {
	c := cron.New()

	if _, err := c.AddFunc(a.cfg.CrawlSchedule, func() {
		articles := crawl.FetchAll(ctx, crawl.All(a.cfg.Feeds))
		saved, err := a.store.SaveArticles(articles)
		if err != nil {
			log.Printf("scheduled crawl: %v", err)
			return
		}
		log.Printf("scheduled crawl: %d articles, %d new", len(articles), saved)
	}); err != nil {
		return fmt.Errorf("crawl schedule %q: %w", a.cfg.CrawlSchedule, err)
	}

	if a.digest != nil {
		if _, err := c.AddFunc(a.cfg.DigestSchedule, func() {
			if _, err := a.digest.Generate(ctx, time.Now().UTC().Add(-24*time.Hour), false); err != nil {
				log.Printf("scheduled digest: %v", err)
				return
			}
			log.Printf("scheduled digest: done")
		}); err != nil {
			return fmt.Errorf("digest schedule %q: %w", a.cfg.DigestSchedule, err)
		}
	}

	log.Printf("watching: crawl %q, digest %q", a.cfg.CrawlSchedule, a.cfg.DigestSchedule)
	c.Run()
	return nil
}

// #endregion watch
