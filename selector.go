package jonah

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Response Selector — the ordered, probability-gated cascade
// ──────────────────────────────────────────────

// Strategy names, recorded on each result for logs and tests.
const (
	StrategyClarify     = "clarify"
	StrategyLoop        = "loop"
	StrategyExactRepeat = "exact_repeat"
	StrategyLore        = "lore"
	StrategyFalseMemory = "false_memory"
	StrategyUnsaid      = "unsaid_emotion"
	StrategySymbol      = "recurring_symbol"
	StrategyLayered     = "layered_emotional"
	StrategyBasic       = "basic_emotional"
	StrategyCallback    = "memory_callback"
	StrategyDreamReturn = "dream_return"
	StrategyReturning   = "returning"
	StrategyFirstTime   = "first_time"
	StrategyDefault     = "default"
	StrategyFallback    = "fallback"
)

// SelectorResult is the chosen primary response before post-processing.
type SelectorResult struct {
	Text     string
	Strategy string
	Special  bool // rendered with the UI's "corrupted" treatment
}

// ResponseSelector picks or generates Jonah's reply. Strictly ordered,
// short-circuiting on the first strategy that yields text. Every
// probabilistic gate draws from the injected Rand, so a fixed seed replays
// the full cascade.
type ResponseSelector struct {
	pools *ResponsePools
	cfg   EngineConfig
	rng   Rand
}

// NewResponseSelector creates a selector over the given pools.
func NewResponseSelector(pools *ResponsePools, cfg EngineConfig, rng Rand) *ResponseSelector {
	return &ResponseSelector{pools: pools, cfg: cfg, rng: rng}
}

// Respond runs the cascade for one user input. sinceLast is the gap since
// the visitor's previous interaction (0 on first contact). The caller
// records the input into memory/loop history afterwards.
func (sel *ResponseSelector) Respond(s *VisitorSession, input string, emotion EmotionalState, sinceLast time.Duration, now time.Time) SelectorResult {
	level := sel.levelOf(s)

	// 1. Error recovery. Malformed input is always answered in-fiction;
	// the gate only selects the glitchy clarifier variant.
	if IsMalformedInput(input) {
		category := CategoryClarify
		if chance(sel.rng, sel.cfg.GlitchClarifierChance) {
			category = CategoryClarifyGlitch
		}
		if text := sel.draw(s, category, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyClarify, Special: category == CategoryClarifyGlitch}
		}
		return sel.fallback(s, level)
	}

	// 2. Loop detection (fuzzy / frequency), gated even when detected.
	if warning := s.Loops.Check(input); warning != nil && chance(sel.rng, sel.cfg.LoopResponseChance) {
		if text := sel.draw(s, CategoryLoop, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyLoop}
		}
	}

	// 3. Exact repeated phrase, independent of the fuzzy check.
	if s.Loops.IsExactRepeat(input) {
		if text := sel.draw(s, CategoryRepeat, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyExactRepeat}
		}
	}

	// 4. Testament / lore keywords.
	if MatchesLoreKeyword(input) && chance(sel.rng, sel.cfg.TestamentChance) {
		if text := sel.draw(s, CategoryLore, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyLore}
		}
	}

	// 5. False memory: a fabricated recollection, on purpose.
	if chance(sel.rng, sel.cfg.FalseMemoryChance) {
		if text := sel.draw(s, CategoryFalseMemory, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyFalseMemory}
		}
	}

	// 6. Emotional layers, each its own gate, falling through in order.
	if emotion.Secondary != "" && chance(sel.rng, sel.cfg.UnsaidEmotionChance) {
		if text := sel.draw(s, CategoryUnsaid, level); text != "" {
			return SelectorResult{
				Text:     expand(text, map[string]string{"emotion": string(emotion.Secondary)}),
				Strategy: StrategyUnsaid,
			}
		}
	}
	if topic := sel.recurringSymbol(s, input); topic != "" && chance(sel.rng, sel.cfg.RecurringSymbolChance) {
		if text := sel.draw(s, CategorySymbol, level); text != "" {
			return SelectorResult{
				Text:     expand(text, map[string]string{"topic": topic}),
				Strategy: StrategySymbol,
			}
		}
	}
	trend := s.Emotions.Trend()
	if emotion.Primary != EmotionNeutral && trend != TrendStable && chance(sel.rng, sel.cfg.LayeredEmotionalChance) {
		if text := sel.draw(s, emotionResponseCategory(emotion.Primary), level); text != "" {
			return SelectorResult{Text: text + " " + trendAside(trend), Strategy: StrategyLayered}
		}
	}
	if emotion.Primary != EmotionNeutral && chance(sel.rng, sel.cfg.BasicEmotionalChance) {
		if text := sel.draw(s, emotionResponseCategory(emotion.Primary), level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyBasic}
		}
	}

	// 7. Memory callback to a specific prior input.
	if s.Memory.InputCount() >= 2 && chance(sel.rng, sel.cfg.MemoryCallbackChance) {
		if relevant := s.Memory.FindRelevant(input); len(relevant) > 0 {
			if text := sel.draw(s, CategoryCallback, level); text != "" {
				return SelectorResult{
					Text:     expand(text, map[string]string{"memory": snippet(relevant[0].Content, 48)}),
					Strategy: StrategyCallback,
				}
			}
		}
	}

	// 8. Long absence. Sits after the probabilistic layers on purpose: an
	// earlier layer can preempt the returning-user line (rare by design).
	if sinceLast >= sel.cfg.LongAbsence && sinceLast > 0 {
		if text := sel.draw(s, CategoryDreamReturn, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyDreamReturn}
		}
	}
	if sinceLast >= sel.cfg.ModerateAbsence && sinceLast > 0 {
		if text := sel.draw(s, CategoryReturning, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyReturning}
		}
	}

	// 9. First-time greeting.
	if s.Memory.InputCount() <= 1 {
		if text := sel.draw(s, CategoryGreeting, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyFirstTime}
		}
	}

	// 10. Default template: visitor emotion first, then input shape.
	if category := emotionResponseCategory(emotion.Primary); category != "" {
		if text := sel.draw(s, category, level); text != "" {
			return SelectorResult{Text: text, Strategy: StrategyDefault}
		}
	}
	if text := sel.draw(s, shapeCategory(input), level); text != "" {
		return SelectorResult{Text: text, Strategy: StrategyDefault}
	}

	return sel.fallback(s, level)
}

// FollowUp picks a second, delayed message from the follow-up categories.
func (sel *ResponseSelector) FollowUp(s *VisitorSession, emotion EmotionalState) SelectorResult {
	level := sel.levelOf(s)

	categories := []string{
		CategoryCallback, CategoryPromptQuestion, CategoryContradiction,
		CategoryDream, "echo", CategoryFalseMemory,
	}
	category := weightedPick(sel.rng, categories, followUpWeights(level))

	switch category {
	case "echo":
		if lines := echoLines[emotion.Primary]; len(lines) > 0 {
			return SelectorResult{Text: pick(sel.rng, lines), Strategy: "followup_echo"}
		}
	case CategoryCallback:
		inputs := s.Memory.RecentInputs()
		if len(inputs) > 0 {
			if text := sel.draw(s, CategoryCallback, level); text != "" {
				entry := inputs[sel.rng.Intn(len(inputs))]
				return SelectorResult{
					Text:     expand(text, map[string]string{"memory": snippet(entry.Content, 48)}),
					Strategy: "followup_callback",
				}
			}
		}
	default:
		if text := sel.draw(s, category, level); text != "" {
			return SelectorResult{Text: text, Strategy: "followup_" + category}
		}
	}

	// Category produced nothing; the prompt-question pool always has lines.
	if text := sel.draw(s, CategoryPromptQuestion, level); text != "" {
		return SelectorResult{Text: text, Strategy: "followup_question"}
	}
	return SelectorResult{}
}

// followUpWeights leans the second message toward the intimate categories as
// trust grows; strangers mostly get a prompting question. Order matches the
// category slice in FollowUp: callback, prompt_question, contradiction,
// dream, echo, false_memory.
func followUpWeights(level TrustLevel) []float64 {
	switch level {
	case TrustHigh:
		return []float64{2, 1, 1, 2, 1, 2}
	case TrustMedium:
		return []float64{1.5, 2, 1, 1, 1, 1.5}
	default:
		return []float64{1, 3, 0.5, 0.5, 1, 1}
	}
}

func (sel *ResponseSelector) fallback(s *VisitorSession, level TrustLevel) SelectorResult {
	if text := sel.draw(s, CategoryFallback, level); text != "" {
		return SelectorResult{Text: text, Strategy: StrategyFallback}
	}
	// Every pool emptied out; the visitor still never gets a blank reply.
	return SelectorResult{Text: "I'm still here.", Strategy: StrategyFallback}
}

func (sel *ResponseSelector) draw(s *VisitorSession, category string, level TrustLevel) string {
	return s.Used.Draw(sel.rng, category, sel.pools.Lines(category, level))
}

func (sel *ResponseSelector) levelOf(s *VisitorSession) TrustLevel {
	level := s.Trust.Level()
	if level == TrustNone {
		level = TrustLow
	}
	return level
}

// recurringSymbol returns a topic from the input that already surfaced in at
// least two remembered inputs.
func (sel *ResponseSelector) recurringSymbol(s *VisitorSession, input string) string {
	for _, topic := range extractTopics(input) {
		count := 0
		for _, entry := range s.Memory.RecentInputs() {
			if strings.Contains(strings.ToLower(entry.Content), topic) {
				count++
			}
		}
		if count >= 2 {
			return topic
		}
	}
	return ""
}

// emotionResponseCategory maps the visitor's emotion to the pool Jonah
// answers from. Unmapped emotions yield "" and the strategy falls through.
func emotionResponseCategory(e EmotionCategory) string {
	switch e {
	case EmotionAnger, EmotionDisgust:
		return CategoryRude
	case EmotionSadness, EmotionFear, EmotionAnxiety, EmotionParanoia:
		return CategoryVulnerable
	case EmotionJoy, EmotionHope, EmotionTrust:
		return CategoryWarm
	default:
		return ""
	}
}

func trendAside(trend EmotionTrend) string {
	switch trend {
	case TrendDeclining:
		return "You've been sinking a little, message by message. I noticed."
	case TrendVolatile:
		return "You swing back and forth like the light does. I keep up. Barely."
	default:
		return ""
	}
}

// shapeCategory classifies input shape: question / greeting / other.
func shapeCategory(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if strings.HasSuffix(trimmed, "?") {
		return CategoryQuestion
	}
	for _, prefix := range []string{"who ", "what ", "where ", "when ", "why ", "how ", "is ", "are ", "do ", "does ", "can "} {
		if strings.HasPrefix(trimmed, prefix) {
			return CategoryQuestion
		}
	}
	for _, greeting := range []string{"hi", "hello", "hey", "yo", "good morning", "good evening", "greetings"} {
		if trimmed == greeting || strings.HasPrefix(trimmed, greeting+" ") || strings.HasPrefix(trimmed, greeting+",") {
			return CategoryGreetingReply
		}
	}
	return CategoryOther
}

// IsMalformedInput reports empty, too-short, overlong, or gibberish input.
func IsMalformedInput(input string) bool {
	trimmed := strings.TrimSpace(input)
	runes := utf8.RuneCountInString(trimmed)
	if runes < 2 {
		return true
	}
	if runes > 600 {
		return true
	}
	return looksLikeGibberish(trimmed)
}

func looksLikeGibberish(text string) bool {
	letters, other := 0, 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsSpace(r) || r == '\'':
			letters++
		default:
			other++
		}
	}
	if letters+other >= 6 && other*2 > letters {
		return true
	}

	// A lone long consonant mash ("asdfghjk") reads as keyboard noise.
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 1 && len(fields[0]) >= 7 && !strings.ContainsAny(fields[0], "aeiouy") {
		return true
	}
	return false
}

// MatchesLoreKeyword reports whether the input touches testament lore.
func MatchesLoreKeyword(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range testamentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func expand(text string, values map[string]string) string {
	for k, v := range values {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}

func snippet(text string, maxRunes int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
