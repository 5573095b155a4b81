package main

// #region imports
import (
	"log"

	"github.com/yufengw/ai-news-agent/internal/classify"
	"github.com/yufengw/ai-news-agent/internal/config"
	"github.com/yufengw/ai-news-agent/internal/dashboard"
	"github.com/yufengw/ai-news-agent/internal/digest"
	"github.com/yufengw/ai-news-agent/internal/email"
	"github.com/yufengw/ai-news-agent/internal/learn"
	"github.com/yufengw/ai-news-agent/internal/llm"
	"github.com/yufengw/ai-news-agent/internal/score"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region main

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	// Without an API key the dashboard still serves reads and ratings;
	// classification falls back to keywords and digests are disabled.
	classifier := classify.NewClassifier(nil)
	var runner dashboard.DigestRunner
	if cfg.APIKey != "" {
		client := llm.NewClient(cfg.APIKey, cfg.Model, nil)
		classifier = classify.NewClassifier(client)

		var sender digest.Sender
		if cfg.ResendAPIKey != "" && cfg.DigestEmailTo != "" {
			sender = email.NewResend(cfg.ResendAPIKey, cfg.DigestEmailFrom, cfg.DigestEmailTo)
		}
		runner = digest.NewGenerator(st, client, score.NewScorer(classifier), sender)
	}

	srv := dashboard.NewServer(st, learn.NewEngine(st, classifier), score.NewScorer(classifier), runner)
	if err := srv.ListenAndServe(cfg.DashboardAddr); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

// #endregion main
