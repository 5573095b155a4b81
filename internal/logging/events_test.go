package logging

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE learning_log (
		event_id           TEXT PRIMARY KEY,
		article_id         TEXT NOT NULL,
		rating             TEXT NOT NULL,
		category           TEXT NOT NULL,
		key                TEXT NOT NULL,
		delta              REAL NOT NULL,
		weight_after       REAL NOT NULL,
		sample_count_after INTEGER NOT NULL,
		created_at         TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// #endregion helpers

// #region log-event-tests
func TestLogEvent_Success(t *testing.T) {
	db := setupDB(t)

	e := LearningEvent{
		EventID:          "e1",
		ArticleID:        "a1",
		Rating:           "up",
		Category:         "theme",
		Key:              "open_source",
		Delta:            0.1,
		WeightAfter:      0.1,
		SampleCountAfter: 1,
		CreatedAt:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := LogEvent(db, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM learning_log").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	var articleID, category string
	var delta float64
	db.QueryRow("SELECT article_id, category, delta FROM learning_log").Scan(&articleID, &category, &delta)
	if articleID != "a1" {
		t.Errorf("expected article_id 'a1', got %q", articleID)
	}
	if category != "theme" {
		t.Errorf("expected category 'theme', got %q", category)
	}
	if delta != 0.1 {
		t.Errorf("expected delta 0.1, got %v", delta)
	}
}

func TestLogEvent_ZeroCreatedAt(t *testing.T) {
	db := setupDB(t)

	before := time.Now().UTC()
	err := LogEvent(db, LearningEvent{EventID: "e2", ArticleID: "a1", Rating: "down", Category: "source", Key: "reddit"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAtStr string
	db.QueryRow("SELECT created_at FROM learning_log").Scan(&createdAtStr)
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if createdAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestLogEvent_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	err := LogEvent(db, LearningEvent{EventID: "e3", ArticleID: "a1", Rating: "up", Category: "type", Key: "news"})
	if err == nil {
		t.Fatal("expected error on closed db")
	}
}

// #endregion log-event-tests

// #region list-events-tests
func TestListEvents_NewestFirst(t *testing.T) {
	db := setupDB(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"e1", "e2", "e3"} {
		e := LearningEvent{
			EventID: id, ArticleID: "a1", Rating: "up", Category: "theme", Key: "agents",
			Delta: 0.1, WeightAfter: 0.1 * float64(i+1), SampleCountAfter: i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := LogEvent(db, e); err != nil {
			t.Fatalf("log %s: %v", id, err)
		}
	}

	events, err := ListEvents(db, 2)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventID != "e3" || events[1].EventID != "e2" {
		t.Errorf("expected newest first, got %s, %s", events[0].EventID, events[1].EventID)
	}
}

// #endregion list-events-tests
