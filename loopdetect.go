package jonah

import (
	"strings"
)

// ──────────────────────────────────────────────
// Input Loop Detector — visitors repeating themselves
// ──────────────────────────────────────────────

// LoopDetectorConfig controls repetition detection over visitor phrases.
type LoopDetectorConfig struct {
	MaxConsecutiveRepeats int     // fuzzy-equal phrases in a row, default 2
	MaxRepeatsInWindow    int     // fuzzy-equal phrases within the window, default 3
	WindowSize            int     // sliding window size, default 10
	MinSimilarity         float64 // token overlap treated as "same phrase", default 0.75
}

// DefaultLoopDetectorConfig returns sensible defaults.
func DefaultLoopDetectorConfig() LoopDetectorConfig {
	return LoopDetectorConfig{
		MaxConsecutiveRepeats: 2,
		MaxRepeatsInWindow:    3,
		WindowSize:            10,
		MinSimilarity:         0.75,
	}
}

// LoopWarning describes a detected repetition pattern.
type LoopWarning struct {
	Type    string // "repeat" (consecutive) / "flood" (frequency in window)
	Matched string // the prior phrase that triggered it
}

type phraseEntry struct {
	normalized string
	tokens     map[string]bool
}

// LoopDetector tracks recent visitor phrases and flags loops. One instance
// per visitor session; history is session-scoped by design (a visitor who
// repeats themselves across days is remembering, not looping).
type LoopDetector struct {
	config  LoopDetectorConfig
	history []phraseEntry
}

// NewLoopDetector creates a detector with the given config.
func NewLoopDetector(config ...LoopDetectorConfig) *LoopDetector {
	cfg := DefaultLoopDetectorConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 10
	}
	return &LoopDetector{config: cfg}
}

// Check analyzes whether the input repeats recent phrases.
// Returns nil when no pattern is detected. Does not record.
func (d *LoopDetector) Check(input string) *LoopWarning {
	entry := newPhraseEntry(input)
	if len(entry.tokens) == 0 {
		return nil
	}

	// Consecutive fuzzy repeats from the tail
	consecutive := 0
	for i := len(d.history) - 1; i >= 0; i-- {
		if d.similar(entry, d.history[i]) {
			consecutive++
		} else {
			break
		}
	}
	if consecutive >= d.config.MaxConsecutiveRepeats {
		return &LoopWarning{Type: "repeat", Matched: d.history[len(d.history)-1].normalized}
	}

	// Frequency within the window
	windowStart := len(d.history) - d.config.WindowSize
	if windowStart < 0 {
		windowStart = 0
	}
	count := 0
	matched := ""
	for i := windowStart; i < len(d.history); i++ {
		if d.similar(entry, d.history[i]) {
			count++
			matched = d.history[i].normalized
		}
	}
	if count >= d.config.MaxRepeatsInWindow {
		return &LoopWarning{Type: "flood", Matched: matched}
	}

	return nil
}

// IsExactRepeat reports whether the input matches a recorded phrase
// verbatim after normalization. Independent of the fuzzy loop check.
func (d *LoopDetector) IsExactRepeat(input string) bool {
	normalized := normalizePhrase(input)
	if normalized == "" {
		return false
	}
	for _, h := range d.history {
		if h.normalized == normalized {
			return true
		}
	}
	return false
}

// Record adds the phrase to the history, trimming to twice the window.
func (d *LoopDetector) Record(input string) {
	entry := newPhraseEntry(input)
	if entry.normalized == "" {
		return
	}
	d.history = append(d.history, entry)
	maxKeep := d.config.WindowSize * 2
	if maxKeep < 20 {
		maxKeep = 20
	}
	if len(d.history) > maxKeep {
		d.history = d.history[len(d.history)-maxKeep:]
	}
}

// Reset clears the history.
func (d *LoopDetector) Reset() {
	d.history = nil
}

func (d *LoopDetector) similar(a, b phraseEntry) bool {
	if a.normalized == b.normalized {
		return true
	}
	return jaccard(a.tokens, b.tokens) >= d.config.MinSimilarity
}

func newPhraseEntry(input string) phraseEntry {
	normalized := normalizePhrase(input)
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(normalized) {
		tokens[t] = true
	}
	return phraseEntry{normalized: normalized, tokens: tokens}
}

func normalizePhrase(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	var b strings.Builder
	lastSpace := false
	for _, r := range lower {
		switch {
		case 'a' <= r && r <= 'z' || '0' <= r && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
