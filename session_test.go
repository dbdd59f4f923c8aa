package jonah

import (
	"testing"
	"time"
)

func TestSessionFirstVisitAndPersistence(t *testing.T) {
	store := NewMemoryStateStore()
	cfg := DefaultEngineConfig()

	s := NewVisitorSession(store, cfg, "v1")
	if !s.IsFirstVisit() {
		t.Fatal("fresh session must be a first visit")
	}

	now := time.Now()
	s.TouchInteraction(now)
	s.TouchInteraction(now.Add(time.Minute))

	reloaded := NewVisitorSession(store, cfg, "v1")
	if reloaded.IsFirstVisit() {
		t.Fatal("returning visitor must not read as first visit")
	}
	if got := reloaded.InteractionCount(); got != 2 {
		t.Fatalf("expected 2 interactions after reload, got %d", got)
	}
	if reloaded.LastInteraction().IsZero() {
		t.Fatal("last interaction must survive reload")
	}
}

func TestSessionTimeSinceLastInteraction(t *testing.T) {
	s := NewVisitorSession(NewMemoryStateStore(), DefaultEngineConfig(), "v1")

	if got := s.TimeSinceLastInteraction(time.Now()); got != 0 {
		t.Fatalf("first contact gap must be 0, got %v", got)
	}

	now := time.Now()
	s.TouchInteraction(now.Add(-2 * time.Hour))
	gap := s.TimeSinceLastInteraction(now)
	if gap < 2*time.Hour-time.Second || gap > 2*time.Hour+time.Second {
		t.Fatalf("expected ~2h gap, got %v", gap)
	}
}

func TestSessionFreshLastInteractionReadsStore(t *testing.T) {
	store := NewMemoryStateStore()
	cfg := DefaultEngineConfig()

	a := NewVisitorSession(store, cfg, "v1")
	b := NewVisitorSession(store, cfg, "v1")

	now := time.Now()
	a.TouchInteraction(now)

	// b never touched anything, but the fresh read sees a's write.
	fresh := b.FreshLastInteraction()
	if fresh.IsZero() {
		t.Fatal("fresh read must pick up the store write")
	}
	if diff := fresh.Sub(now); diff > time.Millisecond || diff < -time.Millisecond {
		t.Fatalf("fresh timestamp off by %v", diff)
	}
}

func TestSessionLoreBonusRateLimited(t *testing.T) {
	s := NewVisitorSession(NewMemoryStateStore(), DefaultEngineConfig(), "v1")
	now := time.Now()

	if !s.GrantLoreBonus(now) {
		t.Fatal("first lore bonus must be granted")
	}
	if s.GrantLoreBonus(now.Add(10 * time.Second)) {
		t.Fatal("bonus inside the rate window must be refused")
	}
	if !s.GrantLoreBonus(now.Add(61 * time.Second)) {
		t.Fatal("bonus outside the rate window must be granted")
	}
	if got := s.Trust.State().Score; got != 10 {
		t.Fatalf("expected two applied bonuses (score 10), got %d", got)
	}
}

func TestSessionCommandDiscoveryOnce(t *testing.T) {
	store := NewMemoryStateStore()
	cfg := DefaultEngineConfig()
	s := NewVisitorSession(store, cfg, "v1")

	if !s.MarkCommandDiscovered("listen") {
		t.Fatal("first discovery must return true")
	}
	if s.MarkCommandDiscovered("listen") {
		t.Fatal("rediscovery must return false")
	}

	reloaded := NewVisitorSession(store, cfg, "v1")
	if reloaded.MarkCommandDiscovered("listen") {
		t.Fatal("discovery must persist across reload")
	}
	if len(reloaded.DiscoveredCommands()) != 1 {
		t.Fatalf("expected 1 discovered command, got %d", len(reloaded.DiscoveredCommands()))
	}
}

func TestSessionChatOpenFlag(t *testing.T) {
	s := NewVisitorSession(NewMemoryStateStore(), DefaultEngineConfig(), "v1")
	if s.ChatOpen() {
		t.Fatal("chat must start closed")
	}
	s.SetChatOpen(true)
	if !s.ChatOpen() {
		t.Fatal("chat should be open")
	}
	s.SetChatOpen(false)
	if s.ChatOpen() {
		t.Fatal("chat should be closed again")
	}
}
