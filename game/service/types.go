package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wricardo/playzone-arcade/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string          `json:"id"`
	GameType       engine.GameType `json:"game_type"`
	Status         engine.Status   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	View           any             `json:"view"`
}

// StartResult is returned when a session game starts. It marshals as the
// game's initial view with game_id and game_type added.
type StartResult struct {
	SessionID string
	GameType  engine.GameType
	View      any
}

func (r *StartResult) MarshalJSON() ([]byte, error) {
	fields, err := flatten(r.View)
	if err != nil {
		return nil, err
	}
	fields["game_id"] = r.SessionID
	fields["game_type"] = r.GameType
	return json.Marshal(fields)
}

// flatten turns a JSON object value into a field map
func flatten(v any) (map[string]any, error) {
	fields := map[string]any{}
	if v == nil {
		return fields, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("value must marshal to an object: %w", err)
	}
	return fields, nil
}

// ActionResult contains the outcome of one action on a session
type ActionResult struct {
	SessionID string
	GameType  engine.GameType
	Outcome   any
	Status    engine.Status
	// Result is set only by the action that ended the game
	Result *engine.Result
}

// MarshalJSON writes the outcome fields with game_id, game_type and
// game_status added, plus final_result on the finishing action.
func (r *ActionResult) MarshalJSON() ([]byte, error) {
	fields, err := flatten(r.Outcome)
	if err != nil {
		return nil, err
	}
	fields["game_id"] = r.SessionID
	fields["game_type"] = r.GameType
	fields["game_status"] = r.Status
	if r.Result != nil {
		fields["final_result"] = r.Result
	}
	return json.Marshal(fields)
}

// PresetInfo describes one playable game and difficulty
type PresetInfo struct {
	GameType    engine.GameType   `json:"game_type"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	Description string            `json:"description"`
	Min         int               `json:"min,omitempty"`
	Max         int               `json:"max,omitempty"`
	MaxAttempts int               `json:"max_attempts,omitempty"`
	GridSize    int               `json:"grid_size,omitempty"`
}
