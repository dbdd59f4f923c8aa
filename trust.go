package jonah

import (
	"log"
	"strconv"
	"time"
)

// ──────────────────────────────────────────────
// Trust Model — clamped 0-100 score with derived level
// ──────────────────────────────────────────────

// TrustLevel gates which response pools and narrative content are unlocked.
type TrustLevel string

const (
	TrustNone   TrustLevel = "none" // state never loaded / no visitor record
	TrustLow    TrustLevel = "low"
	TrustMedium TrustLevel = "medium"
	TrustHigh   TrustLevel = "high"
)

// Trust score thresholds. Level is a pure function of score.
const (
	trustMediumThreshold = 30
	trustHighThreshold   = 70
)

// Named deltas for trust-affecting events.
const (
	TrustDeltaRude             = -10
	TrustDeltaGibberish        = -2
	TrustDeltaVulnerability    = 5
	TrustDeltaLoreKnowledge    = 5
	TrustDeltaQuestComplete    = 10
	TrustDeltaHiddenPage       = 3
	TrustDeltaFirstInteraction = 2
)

// TrustEvent records one applied delta with its cause.
type TrustEvent struct {
	Delta     int       `json:"delta"`
	Cause     string    `json:"cause"`
	Timestamp time.Time `json:"timestamp"`
}

// TrustState is the per-visitor trust snapshot.
type TrustState struct {
	Score   int          `json:"score"`
	Level   TrustLevel   `json:"level"`
	History []TrustEvent `json:"history"`
}

const (
	keyTrustScore   = "trust_score"
	keyTrustLevel   = "trust_level"
	keyTrustHistory = "trust_history"
)

// LevelForScore derives the trust level from a score. Pure.
func LevelForScore(score int) TrustLevel {
	switch {
	case score >= trustHighThreshold:
		return TrustHigh
	case score >= trustMediumThreshold:
		return TrustMedium
	default:
		return TrustLow
	}
}

// TrustModel mutates and persists a visitor's trust state.
type TrustModel struct {
	store      StateStore
	namespace  string
	historyCap int
	state      TrustState
}

// NewTrustModel loads (or initializes) trust state for a visitor.
// Store read failures fall back to the empty default and are logged.
func NewTrustModel(store StateStore, namespace string, historyCap int) *TrustModel {
	if historyCap <= 0 {
		historyCap = 50
	}
	m := &TrustModel{store: store, namespace: namespace, historyCap: historyCap}
	m.state = m.load()
	return m
}

func (m *TrustModel) load() TrustState {
	state := TrustState{Score: 0, Level: TrustLow}

	raw, err := m.store.Get(m.namespace, keyTrustScore)
	if err != nil {
		log.Printf("[Trust] load failed, starting fresh | ns=%s err=%v", m.namespace, err)
		return state
	}
	if raw != "" {
		if score, err := strconv.Atoi(raw); err == nil {
			state.Score = clampScore(score)
		}
	}
	state.Level = LevelForScore(state.Score)

	loadJSON(m.store, m.namespace, keyTrustHistory, &state.History)
	return state
}

// State returns the current snapshot.
func (m *TrustModel) State() TrustState {
	return m.state
}

// Level returns the current trust level.
func (m *TrustModel) Level() TrustLevel {
	return m.state.Level
}

// ModifyTrust applies a delta, clamps to [0,100], re-derives the level,
// persists, and returns the updated state. Never fails: persistence errors
// are logged and the in-memory state stays authoritative for the session.
// delta=0 still re-derives and persists.
func (m *TrustModel) ModifyTrust(delta int, cause string) TrustState {
	m.state.Score = clampScore(m.state.Score + delta)
	m.state.Level = LevelForScore(m.state.Score)

	if delta != 0 {
		m.state.History = append(m.state.History, TrustEvent{
			Delta:     delta,
			Cause:     cause,
			Timestamp: time.Now(),
		})
		if len(m.state.History) > m.historyCap {
			m.state.History = m.state.History[len(m.state.History)-m.historyCap:]
		}
	}

	m.persist()
	return m.state
}

func (m *TrustModel) persist() {
	if err := m.store.Set(m.namespace, keyTrustScore, strconv.Itoa(m.state.Score)); err != nil {
		log.Printf("[Trust] persist score failed | ns=%s err=%v", m.namespace, err)
		return
	}
	if err := m.store.Set(m.namespace, keyTrustLevel, string(m.state.Level)); err != nil {
		log.Printf("[Trust] persist level failed | ns=%s err=%v", m.namespace, err)
	}
	saveJSON(m.store, m.namespace, keyTrustHistory, m.state.History)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
