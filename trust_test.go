package jonah

import (
	"testing"
)

func TestTrustClampAtZero(t *testing.T) {
	store := NewMemoryStateStore()
	m := NewTrustModel(store, "v1", 50)

	state := m.ModifyTrust(TrustDeltaRude, "rude")
	if state.Score != 0 {
		t.Fatalf("score must clamp at 0, got %d", state.Score)
	}
	if state.Level != TrustLow {
		t.Fatalf("expected low at score 0, got %s", state.Level)
	}
}

func TestTrustClampAtHundred(t *testing.T) {
	store := NewMemoryStateStore()
	m := NewTrustModel(store, "v1", 50)

	for i := 0; i < 15; i++ {
		m.ModifyTrust(TrustDeltaQuestComplete, "quest_complete")
	}
	if got := m.State().Score; got != 100 {
		t.Fatalf("score must clamp at 100, got %d", got)
	}
	if m.Level() != TrustHigh {
		t.Fatalf("expected high at 100, got %s", m.Level())
	}
}

func TestTrustLevelThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  TrustLevel
	}{
		{0, TrustLow}, {29, TrustLow},
		{30, TrustMedium}, {69, TrustMedium},
		{70, TrustHigh}, {100, TrustHigh},
	}
	for _, c := range cases {
		if got := LevelForScore(c.score); got != c.want {
			t.Fatalf("score %d: expected %s, got %s", c.score, c.want, got)
		}
	}
}

func TestTrustPersistsAcrossReload(t *testing.T) {
	store := NewMemoryStateStore()

	m := NewTrustModel(store, "v1", 50)
	m.ModifyTrust(TrustDeltaVulnerability, "vulnerability")
	m.ModifyTrust(TrustDeltaLoreKnowledge, "lore_knowledge")

	reloaded := NewTrustModel(store, "v1", 50)
	if got := reloaded.State().Score; got != 10 {
		t.Fatalf("expected reloaded score 10, got %d", got)
	}
	if len(reloaded.State().History) != 2 {
		t.Fatalf("expected 2 history events, got %d", len(reloaded.State().History))
	}
	if reloaded.State().History[0].Cause != "vulnerability" {
		t.Fatalf("unexpected first cause %q", reloaded.State().History[0].Cause)
	}
}

func TestTrustZeroDeltaDoesNotAppendHistory(t *testing.T) {
	store := NewMemoryStateStore()
	m := NewTrustModel(store, "v1", 50)

	m.ModifyTrust(0, "noop")
	if len(m.State().History) != 0 {
		t.Fatalf("zero delta should not append history, got %d events", len(m.State().History))
	}
}

func TestTrustHistoryBounded(t *testing.T) {
	store := NewMemoryStateStore()
	m := NewTrustModel(store, "v1", 5)

	for i := 0; i < 12; i++ {
		m.ModifyTrust(1, "tick")
	}
	if got := len(m.State().History); got != 5 {
		t.Fatalf("history cap 5, got %d entries", got)
	}
}

func TestTrustNamespaceIsolation(t *testing.T) {
	store := NewMemoryStateStore()

	a := NewTrustModel(store, "visitor-a", 50)
	a.ModifyTrust(50, "setup")

	b := NewTrustModel(store, "visitor-b", 50)
	if b.State().Score != 0 {
		t.Fatalf("visitor-b must start fresh, got score %d", b.State().Score)
	}
}

func TestTrustCorruptHistoryDropped(t *testing.T) {
	store := NewMemoryStateStore()
	store.Set("v1", keyTrustScore, "44")
	store.Set("v1", keyTrustHistory, "{not json")

	m := NewTrustModel(store, "v1", 50)
	if got := m.State().Score; got != 44 {
		t.Fatalf("score must survive a corrupt history, got %d", got)
	}
	if len(m.State().History) != 0 {
		t.Fatalf("corrupt history must degrade to empty, got %v", m.State().History)
	}

	// The next mutation overwrites the corrupt value with a clean one.
	m.ModifyTrust(1, "repair")
	reloaded := NewTrustModel(store, "v1", 50)
	if len(reloaded.State().History) != 1 {
		t.Fatalf("expected 1 event after rewrite, got %d", len(reloaded.State().History))
	}
}
