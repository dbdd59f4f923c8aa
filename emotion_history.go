package jonah

import "time"

// ──────────────────────────────────────────────
// Emotional History — bounded window + trend detection
// ──────────────────────────────────────────────

// EmotionTrend summarizes how the visitor's emotional state is moving.
type EmotionTrend string

const (
	TrendStable    EmotionTrend = "stable"
	TrendDeclining EmotionTrend = "declining"
	TrendVolatile  EmotionTrend = "volatile"
)

const keyEmotionalHistory = "emotional_history"

type emotionEntry struct {
	State EmotionalState `json:"state"`
	At    time.Time      `json:"at"`
}

// EmotionalHistory is a bounded, persisted sequence of per-turn states.
type EmotionalHistory struct {
	store     StateStore
	namespace string
	capacity  int
	entries   []emotionEntry
}

// NewEmotionalHistory loads the visitor's emotion window from the store.
func NewEmotionalHistory(store StateStore, namespace string, capacity int) *EmotionalHistory {
	if capacity <= 0 {
		capacity = 8
	}
	h := &EmotionalHistory{store: store, namespace: namespace, capacity: capacity}
	loadJSON(store, namespace, keyEmotionalHistory, &h.entries)
	return h
}

// Push appends a state, drops the oldest past capacity, and persists.
func (h *EmotionalHistory) Push(state EmotionalState, now time.Time) {
	h.entries = append(h.entries, emotionEntry{State: state, At: now})
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
	saveJSON(h.store, h.namespace, keyEmotionalHistory, h.entries)
}

// Len returns the number of recorded states.
func (h *EmotionalHistory) Len() int {
	return len(h.entries)
}

// Recent returns up to n most recent primary categories, oldest first.
func (h *EmotionalHistory) Recent(n int) []EmotionCategory {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]EmotionCategory, 0, n)
	for _, e := range h.entries[len(h.entries)-n:] {
		out = append(out, e.State.Primary)
	}
	return out
}

// Trend classifies the recent window.
//
// Fewer than 3 entries is insufficient data and always reads as stable.
// A strict 2-cycle alternation over the last 4 entries is volatile; a
// strictly decreasing valence over the last 3 is declining; everything
// else, including a flat run, is stable.
func (h *EmotionalHistory) Trend() EmotionTrend {
	if len(h.entries) < 3 {
		return TrendStable
	}

	last4 := h.Recent(4)
	if len(last4) == 4 &&
		last4[0] == last4[2] && last4[1] == last4[3] && last4[0] != last4[1] {
		return TrendVolatile
	}

	last3 := h.Recent(3)
	if last3[0] == last3[1] && last3[1] == last3[2] {
		return TrendStable
	}
	if Valence(last3[0]) > Valence(last3[1]) && Valence(last3[1]) > Valence(last3[2]) {
		return TrendDeclining
	}
	return TrendStable
}
