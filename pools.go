package jonah

import (
	"log"
)

// ──────────────────────────────────────────────
// Response Pools — (trust level, category) keyed content + anti-repeat window
// ──────────────────────────────────────────────

// TrustAny marks pool content shared by every trust level.
const TrustAny TrustLevel = "any"

// Response categories used by the selector cascade.
const (
	CategoryGreeting       = "greeting"
	CategoryReturning      = "returning"
	CategoryDreamReturn    = "dream_return"
	CategoryRude           = "rude"
	CategoryVulnerable     = "vulnerable"
	CategoryWarm           = "warm"
	CategoryLore           = "lore"
	CategoryLoop           = "loop"
	CategoryRepeat         = "repeat"
	CategoryClarify        = "clarify"
	CategoryClarifyGlitch  = "clarify_glitch"
	CategoryFalseMemory    = "false_memory"
	CategoryUnsaid         = "unsaid_emotion"
	CategorySymbol         = "symbol"
	CategoryCallback       = "callback"
	CategoryQuestion       = "default_question"
	CategoryGreetingReply  = "default_greeting"
	CategoryOther          = "default_other"
	CategoryFallback       = "fallback"
	CategoryContradiction  = "contradiction"
	CategoryPromptQuestion = "prompt_question"
	CategoryGlitch         = "glitch"
	CategoryIdle           = "idle"
	CategoryAnomaly        = "anomaly"
	CategoryDream          = "dream"
	CategoryTeaser         = "teaser"
	CategoryBlankFragment  = "blank_fragment"
)

// ResponsePools holds static candidate lines keyed by category and trust
// level. Content is data: built-ins live in pools_data.go and Lua files can
// merge more via LoadPoolsFromLua.
type ResponsePools struct {
	byCategory map[string]map[TrustLevel][]string
}

// NewResponsePools returns pools seeded with the built-in content.
func NewResponsePools() *ResponsePools {
	p := &ResponsePools{byCategory: make(map[string]map[TrustLevel][]string)}
	for category, byLevel := range defaultPools {
		for level, lines := range byLevel {
			p.Add(category, level, lines...)
		}
	}
	return p
}

// Add appends lines to a (category, level) pool.
func (p *ResponsePools) Add(category string, level TrustLevel, lines ...string) {
	if p.byCategory[category] == nil {
		p.byCategory[category] = make(map[TrustLevel][]string)
	}
	p.byCategory[category][level] = append(p.byCategory[category][level], lines...)
}

// Lines returns the pool for the exact trust level merged with level-agnostic
// content. An empty result means the strategy produces no output and the
// cascade continues.
func (p *ResponsePools) Lines(category string, level TrustLevel) []string {
	byLevel, ok := p.byCategory[category]
	if !ok {
		return nil
	}
	var out []string
	out = append(out, byLevel[level]...)
	if level != TrustAny {
		out = append(out, byLevel[TrustAny]...)
	}
	return out
}

// Categories lists every known category (unordered).
func (p *ResponsePools) Categories() []string {
	out := make([]string, 0, len(p.byCategory))
	for c := range p.byCategory {
		out = append(out, c)
	}
	return out
}

// ──────────────────────────────────────────────
// UsedWindow — bounded FIFO preventing short-term repeats
// ──────────────────────────────────────────────

const keyUsedResponses = "used_responses"

// UsedWindow remembers recently emitted lines, one bounded FIFO per category,
// so a pool draw never repeats until that pool has been exhausted once, at
// which point the category's window resets and drawing proceeds (forward
// progress is guaranteed). Exhaustion or volume in one category never touches
// another category's window.
type UsedWindow struct {
	store     StateStore
	namespace string
	capacity  int
	used      map[string][]string
	loaded    map[string]bool
}

// NewUsedWindow returns a window backed by the visitor's store lists.
// Category windows load lazily on first use.
func NewUsedWindow(store StateStore, namespace string, capacity int) *UsedWindow {
	if capacity <= 0 {
		capacity = 10
	}
	return &UsedWindow{
		store:     store,
		namespace: namespace,
		capacity:  capacity,
		used:      make(map[string][]string),
		loaded:    make(map[string]bool),
	}
}

func (w *UsedWindow) listKey(category string) string {
	return keyUsedResponses + ":" + category
}

func (w *UsedWindow) entries(category string) []string {
	if !w.loaded[category] {
		used, err := w.store.GetList(w.namespace, w.listKey(category), 0, 0)
		if err != nil {
			log.Printf("[Pools] used-window load failed, starting fresh | ns=%s category=%s err=%v", w.namespace, category, err)
		} else {
			w.used[category] = used
		}
		w.loaded[category] = true
	}
	return w.used[category]
}

// Draw picks a random line from the pool not in the category's window,
// recording it there. When every line is already in the window the category's
// window resets first. Returns "" only for an empty pool.
func (w *UsedWindow) Draw(rng Rand, category string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	unused := make([]string, 0, len(lines))
	for _, line := range lines {
		if !w.contains(category, line) {
			unused = append(unused, line)
		}
	}
	if len(unused) == 0 {
		w.reset(category)
		unused = lines
	}

	line := pick(rng, unused)
	w.record(category, line)
	return line
}

func (w *UsedWindow) contains(category, line string) bool {
	for _, u := range w.entries(category) {
		if u == line {
			return true
		}
	}
	return false
}

func (w *UsedWindow) record(category, line string) {
	used := append(w.entries(category), line)
	if len(used) > w.capacity {
		used = used[len(used)-w.capacity:]
	}
	w.used[category] = used
	if err := w.store.Append(w.namespace, w.listKey(category), line); err != nil {
		log.Printf("[Pools] used-window append failed | ns=%s category=%s err=%v", w.namespace, category, err)
		return
	}
	if err := w.store.TrimList(w.namespace, w.listKey(category), w.capacity); err != nil {
		log.Printf("[Pools] used-window trim failed | ns=%s category=%s err=%v", w.namespace, category, err)
	}
}

func (w *UsedWindow) reset(category string) {
	w.used[category] = nil
	if err := w.store.ClearList(w.namespace, w.listKey(category)); err != nil {
		log.Printf("[Pools] used-window reset failed | ns=%s category=%s err=%v", w.namespace, category, err)
	}
}

// Len returns the current window size for a category.
func (w *UsedWindow) Len(category string) int {
	return len(w.entries(category))
}
