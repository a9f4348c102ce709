package store

import (
	"database/sql"
	"fmt"
	"time"
)

// DefaultCooldownWindow is how long a photo stays excluded from normal
// selection after it has been shown in a batch.
const DefaultCooldownWindow = 24 * time.Hour

// CooldownStore persists id -> last-picked timestamps on top of the
// photosieve database. One instance per running session; callers own
// serialization (the engine holds a mutex across its read-select-write
// sequence).
type CooldownStore struct {
	db     *DB
	Window time.Duration
}

// NewCooldownStore wraps db with the default cooldown window.
func NewCooldownStore(db *DB) *CooldownStore {
	return &CooldownStore{db: db, Window: DefaultCooldownWindow}
}

// ActiveIDs returns every photo id whose cooldown has not yet expired at
// now, mapped to its pick timestamp (ms epoch). The timestamps let
// callers order backfill by soonest-to-expire without a second query.
func (s *CooldownStore) ActiveIDs(now time.Time) (map[string]int64, error) {
	cutoff := now.UnixMilli() - s.Window.Milliseconds()
	rows, err := s.db.Query(`
		SELECT photo_id, picked_at FROM cooldowns WHERE picked_at > ?
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query active cooldowns: %w", err)
	}
	defer rows.Close()

	active := make(map[string]int64)
	for rows.Next() {
		var id string
		var pickedAt int64
		if err := rows.Scan(&id, &pickedAt); err != nil {
			return nil, fmt.Errorf("scan cooldown: %w", err)
		}
		active[id] = pickedAt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return active, nil
}

// PickedAt returns the last-picked timestamp for id. The second return
// is false when no record exists.
func (s *CooldownStore) PickedAt(id string) (int64, bool, error) {
	var pickedAt int64
	err := s.db.QueryRow(
		"SELECT picked_at FROM cooldowns WHERE photo_id = ?", id,
	).Scan(&pickedAt)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cooldown: %w", err)
	}
	return pickedAt, true, nil
}

// RecordPicks upserts all ids with the same timestamp in one
// transaction, so no reader observes a partially written batch.
func (s *CooldownStore) RecordPicks(ids []string, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin record picks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cooldowns (photo_id, picked_at) VALUES (?, ?)
		ON CONFLICT(photo_id) DO UPDATE SET picked_at = excluded.picked_at
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare record picks: %w", err)
	}
	defer stmt.Close()

	ts := now.UnixMilli()
	for _, id := range ids {
		if _, err := stmt.Exec(id, ts); err != nil {
			tx.Rollback()
			return fmt.Errorf("record pick %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record picks: %w", err)
	}
	return nil
}

// CleanupExpired removes every record whose cooldown window has elapsed
// at now.
func (s *CooldownStore) CleanupExpired(now time.Time) error {
	cutoff := now.UnixMilli() - s.Window.Milliseconds()
	if _, err := s.db.Exec("DELETE FROM cooldowns WHERE picked_at <= ?", cutoff); err != nil {
		return fmt.Errorf("cleanup expired cooldowns: %w", err)
	}
	return nil
}

// ClearCooldowns wipes all records, making every photo immediately
// eligible again.
func (s *CooldownStore) ClearCooldowns() error {
	if _, err := s.db.Exec("DELETE FROM cooldowns"); err != nil {
		return fmt.Errorf("clear cooldowns: %w", err)
	}
	return nil
}

// CountActive returns how many photos are currently cooling down.
func (s *CooldownStore) CountActive(now time.Time) (int, error) {
	cutoff := now.UnixMilli() - s.Window.Milliseconds()
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM cooldowns WHERE picked_at > ?", cutoff,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active cooldowns: %w", err)
	}
	return n, nil
}

// OldestActive returns the pick timestamp of the longest-cooling record,
// or false when none are active. Used by the stats surface to report the
// soonest upcoming expiry.
func (s *CooldownStore) OldestActive(now time.Time) (int64, bool, error) {
	cutoff := now.UnixMilli() - s.Window.Milliseconds()
	var pickedAt sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(picked_at) FROM cooldowns WHERE picked_at > ?", cutoff,
	).Scan(&pickedAt)
	if err != nil {
		return 0, false, fmt.Errorf("oldest active cooldown: %w", err)
	}
	if !pickedAt.Valid {
		return 0, false, nil
	}
	return pickedAt.Int64, true, nil
}
