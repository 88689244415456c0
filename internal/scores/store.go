// Package scores persists finished-game results and serves
// leaderboards and per-user bests. Results are keyed by game type and
// difficulty; guests are tracked by an anonymous ID that can be claimed
// by an account on signup or login.
package scores

import (
	"context"
	"database/sql"

	"github.com/MOHAMMEDALMASHHOR/imagi-craft-game-sub001/internal/session"
)

// Result is one solved session as reported by the session engine.
type Result struct {
	ID          string `json:"id"`
	UserID      string `json:"userId,omitempty"`
	AnonymousID string `json:"-"`
	GameType    string `json:"gameType"`
	Difficulty  string `json:"difficulty"`
	Moves       int    `json:"moves"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Owner     string `json:"owner"` // username, or "guest" for anon rows
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store wraps the results tables.
type Store struct{ db *sql.DB }

// NewStore builds a Store over db.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// FromReport converts a session's score report into a Result row.
func FromReport(id string, r *session.ScoreReport) Result {
	return Result{
		ID:         id,
		GameType:   string(r.GameType),
		Difficulty: r.Difficulty,
		Moves:      r.Moves,
		ElapsedMs:  r.ElapsedMs,
	}
}

// Insert records a result. Exactly one of UserID/AnonymousID should be
// set; inserting the same session ID twice is ignored.
func (s *Store) Insert(ctx context.Context, r Result) error {
	var userID, anonID any
	if r.UserID != "" {
		userID = r.UserID
	}
	if r.AnonymousID != "" {
		anonID = r.AnonymousID
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (id, user_id, anonymous_id, game_type, difficulty, moves, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, userID, anonID, r.GameType, r.Difficulty, r.Moves, r.ElapsedMs,
	)
	return err
}

// Leaderboard fetches the top results for a game type and difficulty,
// fastest first, ties broken by fewer moves then submission order.
func (s *Store) Leaderboard(ctx context.Context, gameType, difficulty string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT COALESCE(u.username, 'guest'), r.moves, r.elapsed_ms
        FROM results r
        LEFT JOIN users u ON u.id = r.user_id
        WHERE r.game_type=? AND r.difficulty=?
        ORDER BY r.elapsed_ms ASC, r.moves ASC, r.created_at ASC
        LIMIT ?`, gameType, difficulty, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Owner, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Best returns a user's best result for a game type and difficulty, or
// nil when they have none.
func (s *Store) Best(ctx context.Context, userID, gameType, difficulty string) (*LBRow, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT COALESCE(u.username, 'guest'), r.moves, r.elapsed_ms
        FROM results r
        LEFT JOIN users u ON u.id = r.user_id
        WHERE r.user_id=? AND r.game_type=? AND r.difficulty=?
        ORDER BY r.elapsed_ms ASC, r.moves ASC
        LIMIT 1`, userID, gameType, difficulty,
	)
	var r LBRow
	if err := row.Scan(&r.Owner, &r.Moves, &r.ElapsedMs); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// ClaimAnon transfers any anonymous results to a user account after
// signup or login.
func (s *Store) ClaimAnon(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE results SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`,
		userID, anonID)
	return err
}
