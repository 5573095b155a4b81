package store

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"
)

// #region get-all
// GetAllPreferences returns every preference keyed by (category, key).
// Learning and scoring both work from this snapshot.
func (s *Store) GetAllPreferences() (map[PrefKey]Preference, error) {
	rows, err := s.db.Query(
		"SELECT category, key, weight, sample_count FROM user_preferences")
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[PrefKey]Preference)
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Category, &p.Key, &p.Weight, &p.SampleCount); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs[PrefKey{p.Category, p.Key}] = p
	}
	return prefs, rows.Err()
}

// #endregion get-all

// #region get-one
// GetPreference returns a single preference, or ok=false when never learned.
func (s *Store) GetPreference(category, key string) (Preference, bool, error) {
	p := Preference{Category: category, Key: key}
	err := s.db.QueryRow(
		"SELECT weight, sample_count FROM user_preferences WHERE category = ? AND key = ?",
		category, key).Scan(&p.Weight, &p.SampleCount)
	if err == sql.ErrNoRows {
		return Preference{}, false, nil
	}
	if err != nil {
		return Preference{}, false, fmt.Errorf("get preference: %w", err)
	}
	return p, true, nil
}

// #endregion get-one

// #region update
// UpdatePreference applies a bounded delta to one preference. The clamp to
// [-1.0, 1.0] and the sample increment happen inside a single upsert
// statement, so concurrent updates are atomic per statement. A never-seen
// key starts from weight 0 and sample_count 1. Returns the resulting row.
func (s *Store) UpdatePreference(category, key string, delta float64) (Preference, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.Exec(
		`INSERT INTO user_preferences (category, key, weight, sample_count, updated_at)
		 VALUES (?, ?, max(-1.0, min(1.0, ?)), 1, ?)
		 ON CONFLICT(category, key) DO UPDATE SET
			weight = max(-1.0, min(1.0, weight + ?)),
			sample_count = sample_count + 1,
			updated_at = excluded.updated_at`,
		category, key, delta, now, delta)
	if err != nil {
		return Preference{}, fmt.Errorf("update preference %s/%s: %w", category, key, err)
	}

	p, ok, err := s.GetPreference(category, key)
	if err != nil {
		return Preference{}, err
	}
	if !ok {
		return Preference{}, fmt.Errorf("preference %s/%s missing after update", category, key)
	}
	return p, nil
}

// #endregion update

// #region reset
// ResetPreferences clears the entire preference store.
func (s *Store) ResetPreferences() error {
	if _, err := s.db.Exec("DELETE FROM user_preferences"); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}
	return nil
}

// #endregion reset

// #region stats
// PreferenceStats returns preferences grouped by category, ordered by
// absolute weight descending, for display. limit <= 0 means no limit.
func (s *Store) PreferenceStats(limit int) (map[string][]Preference, error) {
	rows, err := s.db.Query(
		"SELECT category, key, weight, sample_count FROM user_preferences")
	if err != nil {
		return nil, fmt.Errorf("query preference stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string][]Preference, len(Categories))
	for _, c := range Categories {
		stats[c] = []Preference{}
	}
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Category, &p.Key, &p.Weight, &p.SampleCount); err != nil {
			return nil, fmt.Errorf("scan preference stats: %w", err)
		}
		stats[p.Category] = append(stats[p.Category], p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for c, prefs := range stats {
		sort.SliceStable(prefs, func(i, j int) bool {
			return math.Abs(prefs[i].Weight) > math.Abs(prefs[j].Weight)
		})
		if limit > 0 && len(prefs) > limit {
			stats[c] = prefs[:limit]
		}
	}
	return stats, nil
}

// #endregion stats
