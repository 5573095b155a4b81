package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region save-digest
// SaveDigest stores a synthesized digest and returns it with its new ID.
func (s *Store) SaveDigest(content string, articleCount int) (Digest, error) {
	d := Digest{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		Content:      content,
		ArticleCount: articleCount,
	}
	_, err := s.db.Exec(
		"INSERT INTO digests (id, created_at, content, article_count) VALUES (?, ?, ?, ?)",
		d.ID, d.CreatedAt.Format(time.RFC3339Nano), d.Content, d.ArticleCount)
	if err != nil {
		return Digest{}, fmt.Errorf("save digest: %w", err)
	}
	return d, nil
}

// #endregion save-digest

// #region mark-emailed
// MarkDigestEmailed stamps a digest as delivered.
func (s *Store) MarkDigestEmailed(digestID string) error {
	_, err := s.db.Exec(
		"UPDATE digests SET emailed_at = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339Nano), digestID)
	if err != nil {
		return fmt.Errorf("mark digest emailed: %w", err)
	}
	return nil
}

// #endregion mark-emailed

// #region list-digests
// ListDigests returns the most recent digests, newest first.
func (s *Store) ListDigests(limit int) ([]Digest, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, content, article_count, emailed_at
		 FROM digests ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query digests: %w", err)
	}
	defer rows.Close()

	var out []Digest
	for rows.Next() {
		var d Digest
		var createdAt string
		var emailedAt sql.NullString
		var count sql.NullInt64
		if err := rows.Scan(&d.ID, &createdAt, &d.Content, &count, &emailedAt); err != nil {
			return nil, fmt.Errorf("scan digest: %w", err)
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		d.ArticleCount = int(count.Int64)
		if emailedAt.Valid {
			d.EmailedAt, _ = time.Parse(time.RFC3339Nano, emailedAt.String)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// #endregion list-digests
