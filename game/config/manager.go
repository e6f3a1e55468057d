package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager holds the active game presets, optionally overridden by a YAML file
type Manager struct {
	path    string
	presets engine.Presets
	mu      sync.RWMutex
}

// NewManager creates a presets manager. An empty path uses the built-in
// defaults; otherwise the file must exist and validate.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path, presets: engine.DefaultPresets()}
	if path == "" {
		return m, nil
	}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadPresetsFile reads a YAML presets file on top of the defaults. Keys
// missing from the file keep their default values.
func LoadPresetsFile(path string) (engine.Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return engine.Presets{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return engine.Presets{}, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes YAML presets over the defaults and validates them
func ParsePresets(data []byte) (engine.Presets, error) {
	presets := engine.DefaultPresets()
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return engine.Presets{}, fmt.Errorf("%w: failed to parse presets: %v", ErrInvalidConfig, err)
	}
	if err := engine.ValidatePresets(presets); err != nil {
		return engine.Presets{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return presets, nil
}

// Reload re-reads the presets file. The previous presets stay active if the
// file is invalid.
func (m *Manager) Reload() error {
	if m.path == "" {
		return nil
	}
	presets, err := LoadPresetsFile(m.path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets = presets
	return nil
}

// Path returns the presets file, or "" for built-in defaults
func (m *Manager) Path() string {
	return m.path
}

// Presets returns a copy of the active presets
func (m *Manager) Presets() engine.Presets {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.presets.Clone()
}

// ListPresets describes every playable game and difficulty
func (m *Manager) ListPresets() []*service.PresetInfo {
	p := m.Presets()
	levels := []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard}

	var out []*service.PresetInfo
	for _, d := range levels {
		r := p.NumberRange(d)
		out = append(out, &service.PresetInfo{
			GameType:    engine.NumberGuess,
			Difficulty:  d,
			Description: fmt.Sprintf("Guess a number between %d and %d in %d attempts", r.Min, r.Max, p.MaxAttempts),
			Min:         r.Min,
			Max:         r.Max,
			MaxAttempts: p.MaxAttempts,
		})
	}
	out = append(out, &service.PresetInfo{
		GameType:    engine.RockPaperScissors,
		Difficulty:  engine.Normal,
		Description: "Single round against a random hand",
	}, &service.PresetInfo{
		GameType:    engine.TicTacToe,
		Difficulty:  engine.Normal,
		Description: "Play X against the computer, you move first",
		GridSize:    3,
	})
	for _, d := range levels {
		side := p.MemorySide(d)
		out = append(out, &service.PresetInfo{
			GameType:    engine.Memory,
			Difficulty:  d,
			Description: fmt.Sprintf("Match %d pairs on a %dx%d grid", side*side/2, side, side),
			GridSize:    side,
		})
	}
	out = append(out, &service.PresetInfo{
		GameType:    engine.Snake,
		Difficulty:  engine.Normal,
		Description: fmt.Sprintf("Eat food for %d points on a %dx%d grid", p.Snake.FoodScore, p.Snake.GridSize, p.Snake.GridSize),
		GridSize:    p.Snake.GridSize,
	})
	return out
}
