package jonah

import (
	"strings"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Post-processor — unconditional final pass over every response
// ──────────────────────────────────────────────

// PostProcessor applies per-visitor phrasing adaptation and the probabilistic
// narrative overlays to whichever response the cascade produced.
type PostProcessor struct {
	pools *ResponsePools
	cfg   EngineConfig
	rng   Rand
}

// NewPostProcessor creates the final-pass processor.
func NewPostProcessor(pools *ResponsePools, cfg EngineConfig, rng Rand) *PostProcessor {
	return &PostProcessor{pools: pools, cfg: cfg, rng: rng}
}

// Apply runs the full chain and returns the final text plus whether the
// result should get the special (corrupted) rendering.
func (p *PostProcessor) Apply(s *VisitorSession, result SelectorResult, emotion EmotionalState) (string, bool) {
	text := result.Text
	special := result.Special

	// 1. Phrasing adaptation: terse visitors get terse Jonah.
	if visitorIsTerse(s) {
		text = trimToFirstSentences(text, 140)
	}

	// 2. Blank-fragment override: the memory corruption device replaces the
	// whole reply.
	if chance(p.rng, p.cfg.BlankFragmentChance) {
		if fragment := s.Used.Draw(p.rng, CategoryBlankFragment, p.pools.Lines(CategoryBlankFragment, TrustAny)); fragment != "" {
			return p.varyLength(fragment), true
		}
	}

	// 3. Emotional echo, prepended or appended.
	if chance(p.rng, p.cfg.EmotionalEchoChance) {
		if lines := echoLines[emotion.Primary]; len(lines) > 0 {
			echo := pick(p.rng, lines)
			if chance(p.rng, 0.5) {
				text = echo + " " + text
			} else {
				text = text + " " + echo
			}
		}
	}

	// 4. Lore teaser.
	if chance(p.rng, p.cfg.LoreTeaserChance) {
		if teaser := s.Used.Draw(p.rng, CategoryTeaser, p.pools.Lines(CategoryTeaser, TrustAny)); teaser != "" {
			text = text + " " + teaser
		}
	}

	// 5. Length / phrasing variation.
	return p.varyLength(text), special
}

// varyLength applies the final small phrasing variation.
func (p *PostProcessor) varyLength(text string) string {
	trimmed := strings.TrimSpace(text)
	if chance(p.rng, 0.15) && strings.HasSuffix(trimmed, ".") && !strings.HasSuffix(trimmed, "...") {
		return strings.TrimSuffix(trimmed, ".") + "…"
	}
	return trimmed
}

// visitorIsTerse reports whether the visitor's remembered inputs run short.
func visitorIsTerse(s *VisitorSession) bool {
	inputs := s.Memory.RecentInputs()
	if len(inputs) < 3 {
		return false
	}
	total := 0
	for _, entry := range inputs {
		total += utf8.RuneCountInString(entry.Content)
	}
	return total/len(inputs) < 25
}

// trimToFirstSentences cuts at a sentence boundary once past maxRunes,
// keeping at least one sentence.
func trimToFirstSentences(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	cut := -1
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' || r == '…' {
			cut = i + 1
			if i+1 >= maxRunes {
				break
			}
		}
	}
	if cut <= 0 || cut >= len(runes) {
		return text
	}
	return strings.TrimSpace(string(runes[:cut]))
}
