package jonah

import (
	"strings"
	"time"
)

// ──────────────────────────────────────────────
// Conversation Memory — bounded exchange history with topic matching
// ──────────────────────────────────────────────

const keyConversationMemory = "conversation_memory"

// MemoryEntry is one remembered exchange line.
type MemoryEntry struct {
	Content string          `json:"content"`
	Emotion EmotionCategory `json:"emotion"`
	At      time.Time       `json:"at"`
}

// memorySnapshot is the persisted JSON shape.
type memorySnapshot struct {
	RecentInputs    []MemoryEntry `json:"recent_inputs"`
	RecentResponses []MemoryEntry `json:"recent_responses"`
	Topics          []string      `json:"topics"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ConversationMemory keeps bounded windows of recent inputs and responses
// plus a topic set extracted from the visitor's own words. It drives
// anti-repetition and memory callbacks.
type ConversationMemory struct {
	store        StateStore
	namespace    string
	inputsCap    int
	responsesCap int

	recentInputs    []MemoryEntry
	recentResponses []MemoryEntry
	topics          map[string]bool
	updatedAt       time.Time
}

// NewConversationMemory loads the visitor's memory snapshot, falling back
// to empty on any store or decode failure.
func NewConversationMemory(store StateStore, namespace string, inputsCap, responsesCap int) *ConversationMemory {
	if inputsCap <= 0 {
		inputsCap = 5
	}
	if responsesCap <= 0 {
		responsesCap = 8
	}
	m := &ConversationMemory{
		store:        store,
		namespace:    namespace,
		inputsCap:    inputsCap,
		responsesCap: responsesCap,
		topics:       make(map[string]bool),
	}

	var snap memorySnapshot
	if loadJSON(store, namespace, keyConversationMemory, &snap) {
		m.recentInputs = snap.RecentInputs
		m.recentResponses = snap.RecentResponses
		m.updatedAt = snap.UpdatedAt
		for _, t := range snap.Topics {
			m.topics[t] = true
		}
	}
	return m
}

// Store appends an exchange line to the appropriate bounded window
// (drop-oldest), updates topics from user lines, and persists.
func (m *ConversationMemory) Store(content string, emotion EmotionCategory, isUser bool, now time.Time) {
	entry := MemoryEntry{Content: content, Emotion: emotion, At: now}
	if isUser {
		m.recentInputs = append(m.recentInputs, entry)
		if len(m.recentInputs) > m.inputsCap {
			m.recentInputs = m.recentInputs[len(m.recentInputs)-m.inputsCap:]
		}
		for _, topic := range extractTopics(content) {
			m.topics[topic] = true
		}
	} else {
		m.recentResponses = append(m.recentResponses, entry)
		if len(m.recentResponses) > m.responsesCap {
			m.recentResponses = m.recentResponses[len(m.recentResponses)-m.responsesCap:]
		}
	}
	m.updatedAt = now
	m.persist()
}

// FindRelevant returns prior user inputs whose topics overlap the given
// input, most recent first. An empty result means no memory-based response
// is available and the cascade falls through.
func (m *ConversationMemory) FindRelevant(input string) []MemoryEntry {
	topics := extractTopics(input)
	if len(topics) == 0 {
		return nil
	}
	want := make(map[string]bool, len(topics))
	for _, t := range topics {
		want[t] = true
	}

	var matches []MemoryEntry
	for i := len(m.recentInputs) - 1; i >= 0; i-- {
		entry := m.recentInputs[i]
		for _, t := range extractTopics(entry.Content) {
			if want[t] {
				matches = append(matches, entry)
				break
			}
		}
	}
	return matches
}

// RecentInputs returns the bounded input window, oldest first.
func (m *ConversationMemory) RecentInputs() []MemoryEntry {
	return m.recentInputs
}

// RecentResponses returns the bounded response window, oldest first.
func (m *ConversationMemory) RecentResponses() []MemoryEntry {
	return m.recentResponses
}

// InputCount returns how many user inputs are remembered.
func (m *ConversationMemory) InputCount() int {
	return len(m.recentInputs)
}

// Topics returns the known topic set (unordered).
func (m *ConversationMemory) Topics() []string {
	out := make([]string, 0, len(m.topics))
	for t := range m.topics {
		out = append(out, t)
	}
	return out
}

// UpdatedAt is the time of the last stored exchange.
func (m *ConversationMemory) UpdatedAt() time.Time {
	return m.updatedAt
}

func (m *ConversationMemory) persist() {
	snap := memorySnapshot{
		RecentInputs:    m.recentInputs,
		RecentResponses: m.recentResponses,
		Topics:          m.Topics(),
		UpdatedAt:       m.updatedAt,
	}
	saveJSON(m.store, m.namespace, keyConversationMemory, snap)
}

// topicStopwords are skipped during extraction.
var topicStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true,
	"they": true, "me": true, "him": true, "her": true, "them": true, "my": true,
	"your": true, "his": true, "its": true, "our": true, "their": true,
	"what": true, "who": true, "where": true, "when": true, "why": true,
	"how": true, "do": true, "does": true, "did": true, "have": true,
	"has": true, "had": true, "will": true, "would": true, "can": true,
	"could": true, "should": true, "this": true, "that": true, "these": true,
	"those": true, "to": true, "of": true, "in": true, "on": true, "at": true,
	"for": true, "with": true, "about": true, "not": true, "no": true,
	"yes": true, "so": true, "just": true, "like": true, "know": true,
	"there": true, "here": true, "am": true, "im": true, "dont": true,
	"cant": true,
}

// extractTopics pulls lowercase content words of 3+ letters, order preserved,
// deduplicated.
func extractTopics(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]bool)
	var topics []string
	for _, word := range fields {
		if len(word) < 3 || topicStopwords[word] || seen[word] {
			continue
		}
		seen[word] = true
		topics = append(topics, word)
	}
	return topics
}
