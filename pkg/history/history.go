// Package history persists finished hands so players can revisit their
// recent sessions.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"pokerarena-server/pkg/db"
)

// DefaultRecentLimit caps how many hands Recent returns by default
const DefaultRecentLimit = 10

// Entry is one finished hand
type Entry struct {
	ID         int64           `json:"id"`
	SessionID  uuid.UUID       `json:"sessionId"`
	HandNumber int             `json:"handNumber"`
	Variant    string          `json:"variant"`
	Board      string          `json:"board"`
	Winners    []string        `json:"winners"`
	Pot        int             `json:"pot"`
	Review     string          `json:"review,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Created    time.Time       `json:"created"`
}

// Store reads and writes hand history
type Store struct {
	db *sql.DB
}

// NewStore returns a store backed by the given database
func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

// Record persists a finished hand and returns its row ID
func (s *Store) Record(ctx context.Context, entry *Entry) (int64, error) {
	const query = `
INSERT INTO hand_history (session_id, hand_number, variant, board, winners, pot, review, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

	payload := entry.Payload
	if payload == nil {
		payload = json.RawMessage("{}")
	}

	row := s.db.QueryRowContext(ctx, query,
		entry.SessionID,
		entry.HandNumber,
		entry.Variant,
		entry.Board,
		strings.Join(entry.Winners, ","),
		entry.Pot,
		entry.Review,
		[]byte(payload),
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

// SetReview attaches a coaching review to an already recorded hand.
// Reviews arrive asynchronously, often after the next hand has begun.
func (s *Store) SetReview(ctx context.Context, sessionID uuid.UUID, handNumber int, review string) error {
	const query = `
UPDATE hand_history
SET review = $1
WHERE session_id = $2 AND hand_number = $3`

	_, err := s.db.ExecContext(ctx, query, review, sessionID, handNumber)
	return err
}

// Recent returns the most recently played hands for a session, newest
// first. A non-positive limit uses the default.
func (s *Store) Recent(ctx context.Context, sessionID uuid.UUID, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	const query = `
SELECT id, session_id, hand_number, variant, board, winners, pot, review, payload, created
FROM hand_history
WHERE session_id = $1
ORDER BY hand_number DESC
LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*Entry, 0, limit)
	for rows.Next() {
		entry, err := entryByRow(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// entryByRow scans a hand history row
func entryByRow(row db.Scanner) (*Entry, error) {
	var entry Entry
	var winners string
	var payload []byte
	if err := row.Scan(
		&entry.ID,
		&entry.SessionID,
		&entry.HandNumber,
		&entry.Variant,
		&entry.Board,
		&winners,
		&entry.Pot,
		&entry.Review,
		&payload,
		&entry.Created,
	); err != nil {
		return nil, err
	}

	if winners != "" {
		entry.Winners = strings.Split(winners, ",")
	}

	entry.Payload = payload
	return &entry, nil
}
