package positions_test

import (
	"testing"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/positions"
)

// idleManager builds a manager whose ticker never fires during the test, so
// lifecycle behavior can be exercised without a database.
func idleManager() *positions.Manager {
	cfg := positions.Config{TickInterval: time.Hour}
	return positions.NewManager(nil, nil, nil, positions.NewSimulatedSource(cfg), cfg)
}

func TestManager_StartStop(t *testing.T) {
	m := idleManager()

	session := m.Start("owner-1")
	if session.OwnerID != "owner-1" {
		t.Errorf("unexpected owner: %s", session.OwnerID)
	}

	if _, running := m.Status("owner-1"); !running {
		t.Error("expected session to be running")
	}

	if !m.Stop("owner-1") {
		t.Error("expected Stop to find a running session")
	}
	if _, running := m.Status("owner-1"); running {
		t.Error("expected session to be gone after Stop")
	}
	if m.Stop("owner-1") {
		t.Error("second Stop should report no session")
	}
}

// Starting again for the same owner replaces the previous session instead of
// leaking a second ticker.
func TestManager_RestartReplacesSession(t *testing.T) {
	m := idleManager()

	first := m.Start("owner-1")
	second := m.Start("owner-1")

	if first == second {
		t.Fatal("expected a fresh session on restart")
	}

	current, running := m.Status("owner-1")
	if !running || current != second {
		t.Error("expected the second session to be the live one")
	}

	// Exactly one session remains to stop.
	if !m.Stop("owner-1") {
		t.Error("expected Stop to succeed")
	}
	if m.Stop("owner-1") {
		t.Error("expected no further sessions")
	}
}

func TestManager_SessionsAreIndependentPerOwner(t *testing.T) {
	m := idleManager()

	m.Start("owner-1")
	m.Start("owner-2")

	if !m.Stop("owner-1") {
		t.Error("expected owner-1 session")
	}
	if _, running := m.Status("owner-2"); !running {
		t.Error("stopping owner-1 must not touch owner-2")
	}
	m.Stop("owner-2")
}
