package dashboard

// #region imports
import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yufengw/ai-news-agent/internal/learn"
	"github.com/yufengw/ai-news-agent/internal/score"
	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region server

const defaultSince = 7 * 24 * time.Hour

// DigestRunner triggers a digest on demand. Satisfied by digest.Generator.
type DigestRunner interface {
	Generate(ctx context.Context, since time.Time, dryRun bool) (string, error)
}

// Server exposes the review/rating workflow over HTTP.
type Server struct {
	store  *store.Store
	engine *learn.Engine
	scorer *score.Scorer
	digest DigestRunner // may be nil: digest endpoint disabled
	router chi.Router
}

// NewServer wires the HTTP API.
func NewServer(st *store.Store, engine *learn.Engine, scorer *score.Scorer, digest DigestRunner) *Server {
	s := &Server{store: st, engine: engine, scorer: scorer, digest: digest}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", s.handleListArticles)
		r.Get("/articles/{id}", s.handleGetArticle)
		r.Post("/articles/{id}/rating", s.handleRateArticle)
		r.Get("/preferences", s.handlePreferences)
		r.Delete("/preferences", s.handleResetPreferences)
		r.Post("/digest", s.handleDigest)
		r.Get("/digests", s.handleListDigests)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("dashboard listening on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
	}
	return srv.ListenAndServe()
}

// #endregion server

// #region handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListArticles returns articles crawled in the window, ranked by
// learned preference. Query params: hours (default 168), source,
// unrated=1, limit.
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-defaultSince)
	if hours := queryInt(r, "hours", 0); hours > 0 {
		since = time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	}

	var articles []store.Article
	var err error
	if r.URL.Query().Get("unrated") == "1" {
		articles, err = s.store.GetUnratedArticles(since)
	} else {
		articles, err = s.store.GetArticlesSince(since, r.URL.Query().Get("source"))
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	prefs, err := s.store.GetAllPreferences()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	ranked := s.scorer.Rank(r.Context(), articles, prefs)
	if limit := queryInt(r, "limit", 0); limit > 0 {
		ranked = score.Top(ranked, limit)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(ranked),
		"articles": ranked,
	})
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.GetArticleByID(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, errors.New("article not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := map[string]interface{}{"article": article}
	if rating, ok, err := s.store.GetRating(article.ID); err == nil && ok {
		resp["rating"] = rating
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRateArticle records a rating and feeds it to the learning
// engine in one step.
func (s *Server) handleRateArticle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating string `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.store.GetArticleByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, errors.New("article not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.engine.Rate(r.Context(), id, body.Rating); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"article_id": id, "rating": body.Rating})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.PreferenceStats(queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleResetPreferences(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResetPreferences(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	if s.digest == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("digest generation not configured"))
		return
	}
	since := time.Now().UTC().Add(-time.Duration(queryInt(r, "hours", 24)) * time.Hour)
	content, err := s.digest.Generate(r.Context(), since, r.URL.Query().Get("dry_run") == "1")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

func (s *Server) handleListDigests(w http.ResponseWriter, r *http.Request) {
	digests, err := s.store.ListDigests(queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"digests": digests})
}

// #endregion handlers

// #region helpers

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}

// #endregion helpers
