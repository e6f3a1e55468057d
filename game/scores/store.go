// Package scores records finished games in SQLite.
//
// It is the score-recording collaborator the engine hands terminal
// results to: one row per finished game keyed by an opaque player id.
package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/wricardo/playzone-arcade/game/engine"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var ErrInvalidScore = errors.New("invalid score")

// Score is one recorded game result
type Score struct {
	ID         string            `json:"id"`
	PlayerID   string            `json:"player_id"`
	GameType   engine.GameType   `json:"game_type"`
	Points     int               `json:"points"`
	Attempts   int               `json:"attempts"`
	Difficulty engine.Difficulty `json:"difficulty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// FromResult builds a Score for playerID from an engine result
func FromResult(playerID string, r engine.Result) Score {
	return Score{
		PlayerID:   playerID,
		GameType:   r.GameType,
		Points:     r.Points,
		Attempts:   r.Attempts,
		Difficulty: r.Difficulty,
	}
}

// Recorder accepts finished game results
type Recorder interface {
	Record(ctx context.Context, score Score) (*Score, error)
}

// Store provides SQLite persistence for scores
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens/creates a SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("scores: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			game_type TEXT NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 0,
			difficulty TEXT NOT NULL DEFAULT 'medium',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_player_game ON scores(player_id, game_type, points)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("scores: migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Record validates and inserts a score, filling ID, CreatedAt and the
// default difficulty.
func (s *Store) Record(ctx context.Context, score Score) (*Score, error) {
	score.PlayerID = strings.TrimSpace(score.PlayerID)
	if score.PlayerID == "" {
		return nil, fmt.Errorf("%w: player_id is required", ErrInvalidScore)
	}
	gameType, err := engine.ParseGameType(string(score.GameType))
	if err != nil {
		return nil, fmt.Errorf("%w: unknown game_type %q", ErrInvalidScore, score.GameType)
	}
	score.GameType = gameType
	if score.Points < 0 || score.Attempts < 0 {
		return nil, fmt.Errorf("%w: points and attempts must not be negative", ErrInvalidScore)
	}
	if score.Difficulty == "" {
		score.Difficulty = engine.Medium
	}

	score.ID = uuid.NewString()
	score.CreatedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores (id, player_id, game_type, points, attempts, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		score.ID, score.PlayerID, string(score.GameType), score.Points, score.Attempts,
		string(score.Difficulty), score.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("scores: insert: %w", err)
	}
	return &score, nil
}

// ListByPlayer returns a player's scores, newest first
func (s *Store) ListByPlayer(ctx context.Context, playerID string, limit int) ([]Score, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_id, game_type, points, attempts, difficulty, created_at
		 FROM scores WHERE player_id = ?
		 ORDER BY created_at DESC, id
		 LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("scores: list: %w", err)
	}
	defer rows.Close()

	out := []Score{}
	for rows.Next() {
		var sc Score
		var gameType, difficulty string
		var created int64
		if err := rows.Scan(&sc.ID, &sc.PlayerID, &gameType, &sc.Points, &sc.Attempts, &difficulty, &created); err != nil {
			return nil, fmt.Errorf("scores: scan: %w", err)
		}
		sc.GameType = engine.GameType(gameType)
		sc.Difficulty = engine.Difficulty(difficulty)
		sc.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scores: rows: %w", err)
	}
	return out, nil
}

// BestByPlayer returns the highest points per game type. Every game type
// is present, with 0 when the player has no score for it.
func (s *Store) BestByPlayer(ctx context.Context, playerID string) (map[engine.GameType]int, error) {
	best := make(map[engine.GameType]int, len(engine.GameTypes))
	for _, gt := range engine.GameTypes {
		best[gt] = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT game_type, MAX(points) FROM scores WHERE player_id = ? GROUP BY game_type`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("scores: best: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gameType string
		var points int
		if err := rows.Scan(&gameType, &points); err != nil {
			return nil, fmt.Errorf("scores: scan: %w", err)
		}
		best[engine.GameType(gameType)] = points
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scores: rows: %w", err)
	}
	return best, nil
}
