package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region event

// LearningEvent records one preference delta applied by the learning engine,
// with the resulting weight so the trail can be audited later.
type LearningEvent struct {
	EventID          string    `json:"event_id"`
	ArticleID        string    `json:"article_id"`
	Rating           string    `json:"rating"`
	Category         string    `json:"category"`
	Key              string    `json:"key"`
	Delta            float64   `json:"delta"`
	WeightAfter      float64   `json:"weight_after"`
	SampleCountAfter int       `json:"sample_count_after"`
	CreatedAt        time.Time `json:"created_at"`
}

// #endregion event

// #region log-event

// LogEvent writes a learning event to the learning_log table.
func LogEvent(db *sql.DB, e LearningEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(
		`INSERT INTO learning_log (event_id, article_id, rating, category, key, delta, weight_after, sample_count_after, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventID,
		e.ArticleID,
		e.Rating,
		e.Category,
		e.Key,
		e.Delta,
		e.WeightAfter,
		e.SampleCountAfter,
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log learning event: %w", err)
	}
	return nil
}

// #endregion log-event

// #region list-events

// ListEvents returns the most recent learning events, newest first.
func ListEvents(db *sql.DB, limit int) ([]LearningEvent, error) {
	rows, err := db.Query(
		`SELECT event_id, article_id, rating, category, key, delta, weight_after, sample_count_after, created_at
		 FROM learning_log ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query learning log: %w", err)
	}
	defer rows.Close()

	var out []LearningEvent
	for rows.Next() {
		var e LearningEvent
		var createdAt string
		err := rows.Scan(&e.EventID, &e.ArticleID, &e.Rating, &e.Category, &e.Key,
			&e.Delta, &e.WeightAfter, &e.SampleCountAfter, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan learning event: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-events
