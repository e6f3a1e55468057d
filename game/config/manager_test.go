package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/playzone-arcade/game/engine"
)

func writePresetsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewManagerDefaults(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	assert.Equal(t, engine.DefaultPresets(), m.Presets())
	assert.Empty(t, m.Path())
	assert.NoError(t, m.Reload())
}

func TestNewManagerMergesFile(t *testing.T) {
	path := writePresetsFile(t, `
number_ranges:
  easy: {min: 1, max: 30}
max_attempts: 8
memory_sides:
  hard: 10
snake:
  grid_size: 24
`)

	m, err := NewManager(path)
	require.NoError(t, err)

	p := m.Presets()
	assert.Equal(t, engine.Range{Min: 1, Max: 30}, p.NumberRanges[engine.Easy])
	assert.Equal(t, engine.Range{Min: 1, Max: 100}, p.NumberRanges[engine.Medium], "unset keys keep defaults")
	assert.Equal(t, 8, p.MaxAttempts)
	assert.Equal(t, 10, p.MemorySides[engine.Hard])
	assert.Equal(t, 4, p.MemorySides[engine.Easy])
	assert.Equal(t, 24, p.Snake.GridSize)
	assert.Equal(t, engine.Position{X: 10, Y: 10}, p.Snake.Start)
}

func TestNewManagerErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := NewManager(writePresetsFile(t, "number_ranges: [oops"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("fails validation", func(t *testing.T) {
		_, err := NewManager(writePresetsFile(t, "memory_sides:\n  easy: 3\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "must be even")
	})
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	path := writePresetsFile(t, "max_attempts: 5\n")
	m, err := NewManager(path)
	require.NoError(t, err)
	require.Equal(t, 5, m.Presets().MaxAttempts)

	require.NoError(t, os.WriteFile(path, []byte("max_attempts: 0\n"), 0644))
	assert.ErrorIs(t, m.Reload(), ErrInvalidConfig)
	assert.Equal(t, 5, m.Presets().MaxAttempts)

	require.NoError(t, os.WriteFile(path, []byte("max_attempts: 7\n"), 0644))
	require.NoError(t, m.Reload())
	assert.Equal(t, 7, m.Presets().MaxAttempts)
}

func TestPresetsReturnsCopy(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	p := m.Presets()
	p.NumberRanges[engine.Easy] = engine.Range{Min: 0, Max: 0}
	assert.Equal(t, 50, m.Presets().NumberRanges[engine.Easy].Max)
}

func TestConcurrentAccess(t *testing.T) {
	path := writePresetsFile(t, "max_attempts: 9\n")
	m, err := NewManager(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Presets()
			_ = m.ListPresets()
		}()
		go func() {
			defer wg.Done()
			_ = m.Reload()
		}()
	}
	wg.Wait()
	assert.Equal(t, 9, m.Presets().MaxAttempts)
}

func TestListPresets(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	list := m.ListPresets()
	require.Len(t, list, 9)

	seen := map[engine.GameType]int{}
	for _, info := range list {
		seen[info.GameType]++
		assert.NotEmpty(t, info.Description)
	}
	assert.Equal(t, 3, seen[engine.NumberGuess])
	assert.Equal(t, 3, seen[engine.Memory])
	assert.Equal(t, 1, seen[engine.Snake])

	assert.Equal(t, 1, list[0].Min)
	assert.Equal(t, 50, list[0].Max)
	assert.Equal(t, 10, list[0].MaxAttempts)
}

func TestLoadServerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadServerConfig()
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, time.Hour, cfg.CleanupInterval)
		assert.Equal(t, "localhost:8080", cfg.Addr())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("ARCADE_PORT", "9090")
		t.Setenv("ARCADE_SESSION_TTL", "30m")
		t.Setenv("ARCADE_RNG_SEED", "42")
		t.Setenv("ARCADE_DEBUG", "true")

		cfg, err := LoadServerConfig()
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
		assert.Equal(t, int64(42), cfg.RNGSeed)
		assert.True(t, cfg.Debug)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("ARCADE_SESSION_TTL", "soon")
		_, err := LoadServerConfig()
		assert.Error(t, err)
	})

	t.Run("ngrok without token", func(t *testing.T) {
		t.Setenv("NGROK_ENABLED", "true")
		t.Setenv("NGROK_AUTHTOKEN", "")
		_, err := LoadServerConfig()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
