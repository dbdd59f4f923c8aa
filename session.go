package jonah

import (
	"log"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Visitor Session — per-visitor state aggregate and persistence boundary
// ──────────────────────────────────────────────

// Persisted keys must stay stable: a visitor's progress survives engine
// reimplementation as long as these names and shapes hold.
// (Other keys live next to their owners: trust.go, memory.go, arg.go,
// emotion_history.go, pools.go.)
const (
	keySessionMeta        = "session_meta"
	keyLastInteractionAt  = "last_interaction_at"
	keyDiscoveredCommands = "discovered_commands"
)

type sessionMeta struct {
	FirstSeenAt      time.Time `json:"first_seen_at"`
	InteractionCount int       `json:"interaction_count"`
	LastLoreBonusAt  time.Time `json:"last_lore_bonus_at"`
}

// VisitorSession aggregates all per-visitor models. Mutation happens on
// discrete callbacks (user input, navigation, command) and on scheduler
// ticks; mu serializes those so the models themselves need no locking.
// Engine entry points and cadence checks hold mu for their whole pass.
// The chat-open flag and interaction timestamp are additionally atomic so
// gating reads stay cheap.
type VisitorSession struct {
	VisitorID string
	Namespace string

	Trust    *TrustModel
	Emotions *EmotionalHistory
	Memory   *ConversationMemory
	ARG      *ARGTracker
	Used     *UsedWindow
	Loops    *LoopDetector

	mu    sync.Mutex
	store StateStore
	cfg   EngineConfig
	meta  sessionMeta

	chatOpen          atomic.Bool
	lastInteractionMs atomic.Int64 // unix ms; 0 = never

	discovered map[string]bool
}

// NewVisitorSession loads every persisted model for the visitor. Any store
// failure degrades to empty defaults; the visitor never sees an error.
func NewVisitorSession(store StateStore, cfg EngineConfig, visitorID string) *VisitorSession {
	ns := visitorID
	s := &VisitorSession{
		VisitorID:  visitorID,
		Namespace:  ns,
		Trust:      NewTrustModel(store, ns, cfg.TrustHistoryCap),
		Emotions:   NewEmotionalHistory(store, ns, cfg.EmotionHistoryCap),
		Memory:     NewConversationMemory(store, ns, cfg.RecentInputsCap, cfg.RecentResponsesCap),
		ARG:        NewARGTracker(store, ns),
		Used:       NewUsedWindow(store, ns, cfg.UsedResponsesCap),
		Loops:      NewLoopDetector(),
		store:      store,
		cfg:        cfg,
		discovered: make(map[string]bool),
	}

	loadJSON(store, ns, keySessionMeta, &s.meta)
	if raw, err := store.Get(ns, keyLastInteractionAt); err == nil && raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			s.lastInteractionMs.Store(t.UnixMilli())
		}
	}
	var names []string
	if loadJSON(store, ns, keyDiscoveredCommands, &names) {
		for _, n := range names {
			s.discovered[n] = true
		}
	}
	return s
}

// IsFirstVisit reports whether this visitor has never interacted before.
func (s *VisitorSession) IsFirstVisit() bool {
	return s.meta.InteractionCount == 0
}

// InteractionCount returns the lifetime interaction count.
func (s *VisitorSession) InteractionCount() int {
	return s.meta.InteractionCount
}

// LastInteraction returns the last recorded interaction time, zero if none.
func (s *VisitorSession) LastInteraction() time.Time {
	ms := s.lastInteractionMs.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// TimeSinceLastInteraction returns the gap before now, or 0 on first contact.
func (s *VisitorSession) TimeSinceLastInteraction(now time.Time) time.Duration {
	last := s.LastInteraction()
	if last.IsZero() {
		return 0
	}
	return now.Sub(last)
}

// TouchInteraction records an interaction and persists the timestamp.
// This is also the idle-trigger reset: idle fires at most once per page
// until this moves the timestamp forward.
func (s *VisitorSession) TouchInteraction(now time.Time) {
	if s.meta.FirstSeenAt.IsZero() {
		s.meta.FirstSeenAt = now
	}
	s.meta.InteractionCount++
	s.lastInteractionMs.Store(now.UnixMilli())
	s.persistMeta()
	if err := s.store.Set(s.Namespace, keyLastInteractionAt, now.Format(time.RFC3339Nano)); err != nil {
		log.Printf("[Session] persist last interaction failed | ns=%s err=%v", s.Namespace, err)
	}
}

// FreshLastInteraction re-reads the interaction timestamp from the store.
// Scheduler ticks use this instead of any captured value so gating is never
// stale (another tab may have advanced it).
func (s *VisitorSession) FreshLastInteraction() time.Time {
	raw, err := s.store.Get(s.Namespace, keyLastInteractionAt)
	if err != nil || raw == "" {
		return s.LastInteraction()
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return s.LastInteraction()
	}
	return t
}

// GrantLoreBonus applies the lore trust bonus if outside the rate window.
// Returns whether the bonus was granted.
func (s *VisitorSession) GrantLoreBonus(now time.Time) bool {
	if !s.meta.LastLoreBonusAt.IsZero() && now.Sub(s.meta.LastLoreBonusAt) < s.cfg.LoreBonusWindow {
		return false
	}
	s.meta.LastLoreBonusAt = now
	s.Trust.ModifyTrust(TrustDeltaLoreKnowledge, "lore_knowledge")
	s.persistMeta()
	return true
}

// SetChatOpen flips the chat-widget-open gate read by scheduler triggers.
func (s *VisitorSession) SetChatOpen(open bool) {
	s.chatOpen.Store(open)
}

// ChatOpen reports whether the chat widget is open.
func (s *VisitorSession) ChatOpen() bool {
	return s.chatOpen.Load()
}

// MarkCommandDiscovered records a console command discovery. Returns true
// the first time only; rediscovery is not re-rewarded.
func (s *VisitorSession) MarkCommandDiscovered(name string) bool {
	if s.discovered[name] {
		return false
	}
	s.discovered[name] = true

	names := make([]string, 0, len(s.discovered))
	for n := range s.discovered {
		names = append(names, n)
	}
	saveJSON(s.store, s.Namespace, keyDiscoveredCommands, names)
	return true
}

// DiscoveredCommands returns the discovered command names (unordered).
func (s *VisitorSession) DiscoveredCommands() []string {
	names := make([]string, 0, len(s.discovered))
	for n := range s.discovered {
		names = append(names, n)
	}
	return names
}

func (s *VisitorSession) persistMeta() {
	saveJSON(s.store, s.Namespace, keySessionMeta, s.meta)
}
