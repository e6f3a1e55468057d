package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/game/rng"
	"github.com/wricardo/playzone-arcade/game/service"
)

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	session, err := manager.Create(engine.NewTicTacToe())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if _, err := uuid.Parse(session.ID); err != nil {
		t.Errorf("Expected a UUID session ID, got %q", session.ID)
	}
	if session.GameType != engine.TicTacToe {
		t.Errorf("Expected game type tictactoe, got %s", session.GameType)
	}
	if session.CreatedAt.IsZero() || session.LastAccessedAt().IsZero() {
		t.Error("Expected timestamps to be set")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", manager.Count())
	}

	if _, err := manager.Create(nil); !errors.Is(err, ErrNilGame) {
		t.Errorf("Expected ErrNilGame, got %v", err)
	}
}

func TestManager_CreateUniqueIDs(t *testing.T) {
	manager := NewManager()
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		session, err := manager.Create(engine.NewTicTacToe())
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		if seen[session.ID] {
			t.Fatalf("Duplicate session ID %s", session.ID)
		}
		seen[session.ID] = true
	}
}

func TestManager_CreateCollision(t *testing.T) {
	manager := NewManager()
	manager.newID = func() string { return "fixed" }

	if _, err := manager.Create(engine.NewTicTacToe()); err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Create(engine.NewTicTacToe()); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create(engine.NewTicTacToe())

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"existing", created.ID, nil},
		{"unknown", uuid.NewString(), ErrSessionNotFound},
		{"empty", "", ErrInvalidSessionID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := manager.Get(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != created {
				t.Error("Expected the same session pointer")
			}
		})
	}
}

func TestManager_NotFoundIsEngineKind(t *testing.T) {
	manager := NewManager()
	_, err := manager.Get("missing")
	if !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("Expected not_found kind, got %v", err)
	}
	if engine.FieldOf(err) != "game_id" {
		t.Errorf("Expected field game_id, got %q", engine.FieldOf(err))
	}
}

func TestManager_WithAndUpdate(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create(engine.NewTicTacToe())

	err := manager.With(created.ID, func(s *service.Session) error {
		_, err := s.Game().Apply(rng.NewScripted(), engine.Place{Position: 4})
		return err
	})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}

	board := created.Game().(*engine.TicTacToeGame).Board()
	if board[4] != engine.X {
		t.Error("Expected X on the center")
	}

	fresh := engine.NewTicTacToe()
	if err := manager.Update(created.ID, fresh); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if created.Game() != engine.Game(fresh) {
		t.Error("Expected the game to be replaced")
	}

	if err := manager.Update(created.ID, engine.NewSnake(engine.DefaultPresets())); !errors.Is(err, ErrGameTypeMismatch) {
		t.Errorf("Expected ErrGameTypeMismatch, got %v", err)
	}
	if created.Game() != engine.Game(fresh) || created.GameType != engine.TicTacToe {
		t.Error("Expected a rejected update to leave the session unchanged")
	}

	if err := manager.Update(created.ID, nil); !errors.Is(err, ErrNilGame) {
		t.Errorf("Expected ErrNilGame, got %v", err)
	}
	if err := manager.With("missing", func(*service.Session) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_WithPropagatesError(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create(engine.NewTicTacToe())

	want := errors.New("boom")
	if err := manager.With(created.ID, func(*service.Session) error { return want }); !errors.Is(err, want) {
		t.Errorf("Expected fn error, got %v", err)
	}
}

func TestManager_WithAfterDelete(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create(engine.NewTicTacToe())

	created.Lock()
	done := make(chan error, 1)
	go func() {
		done <- manager.With(created.ID, func(*service.Session) error { return nil })
	}()

	// give With time to fetch the session and block on its lock
	time.Sleep(20 * time.Millisecond)
	if err := manager.Delete(created.ID); err != nil {
		t.Fatal(err)
	}
	created.Unlock()

	if err := <-done; !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	if len(manager.List()) != 0 {
		t.Error("Expected empty list")
	}

	for i := 0; i < 3; i++ {
		manager.Create(engine.NewTicTacToe())
	}
	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create(engine.NewTicTacToe())

	if err := manager.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get(created.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected session to be gone")
	}
	if err := manager.Delete(created.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
	if err := manager.Delete(""); !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("Expected ErrInvalidSessionID, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	now := time.Now()
	manager.now = func() time.Time { return now }

	old, _ := manager.Create(engine.NewTicTacToe())
	recent, _ := manager.Create(engine.NewTicTacToe())

	old.Touch(now.Add(-2 * time.Hour))
	recent.Touch(now.Add(-10 * time.Minute))

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}
	if _, err := manager.Get(old.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected old session to be removed")
	}
	if _, err := manager.Get(recent.ID); err != nil {
		t.Error("Expected recent session to remain")
	}
}

func TestManager_WithTouchesSession(t *testing.T) {
	manager := NewManager()
	now := time.Now()
	manager.now = func() time.Time { return now }

	created, _ := manager.Create(engine.NewTicTacToe())
	created.Touch(now.Add(-time.Hour))

	manager.With(created.ID, func(*service.Session) error { return nil })
	if !created.LastAccessedAt().Equal(time.Unix(0, now.UnixNano())) {
		t.Errorf("Expected access time %v, got %v", now, created.LastAccessedAt())
	}

	created.Touch(now.Add(-time.Hour))
	if err := manager.UpdateLastAccessed(created.ID); err != nil {
		t.Fatal(err)
	}
	if created.LastAccessedAt().Before(now) {
		t.Error("UpdateLastAccessed should refresh the access time")
	}
}

func TestManager_ConcurrentFlipsSerialize(t *testing.T) {
	manager := NewManager()
	game := engine.NewMemory(rng.Identity{}, engine.DefaultPresets(), "easy")
	created, _ := manager.Create(game)

	// deck is 1,1,2,2,... so cards 0 and 1 match
	var wg sync.WaitGroup
	statuses := make(chan string, 2)
	for _, idx := range []int{0, 1} {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			manager.With(created.ID, func(s *service.Session) error {
				out, err := s.Game().Apply(nil, engine.Flip{Index: idx})
				if err != nil {
					return err
				}
				statuses <- out.(*engine.FlipOutcome).Status
				return nil
			})
		}(idx)
	}
	wg.Wait()
	close(statuses)

	got := map[string]int{}
	for s := range statuses {
		got[s]++
	}
	if got[engine.FlipFirstCard] != 1 || got[engine.FlipMatch] != 1 {
		t.Errorf("Expected one first_card and one match, got %v", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	src := rng.New(1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := manager.Create(engine.NewSnake(engine.DefaultPresets()))
			if err != nil {
				t.Error(err)
				return
			}
			for j := 0; j < 5; j++ {
				manager.With(s.ID, func(s *service.Session) error {
					_, err := s.Game().Apply(src, engine.Steer{})
					return err
				})
				manager.List()
				manager.Count()
			}
			manager.CleanupExpiredSessions(time.Hour)
		}()
	}
	wg.Wait()

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}
