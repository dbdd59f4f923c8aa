package jonah

import (
	"strings"
	"testing"
	"time"
)

func newTestSelector(rng Rand) (*ResponseSelector, *VisitorSession) {
	cfg := DefaultEngineConfig()
	pools := NewResponsePools()
	session := NewVisitorSession(NewMemoryStateStore(), cfg, "visitor-test")
	return NewResponseSelector(pools, cfg, rng), session
}

func inPool(t *testing.T, pools *ResponsePools, category string, level TrustLevel, text string) bool {
	t.Helper()
	for _, line := range pools.Lines(category, level) {
		if line == text {
			return true
		}
	}
	return false
}

func TestSelectorMalformedAlwaysAnswered(t *testing.T) {
	rng := &scriptRand{floats: []float64{0.9}} // glitch variant gate fails
	sel, s := newTestSelector(rng)

	result := sel.Respond(s, "a", AnalyzeEmotion("a"), 0, time.Now())
	if result.Strategy != StrategyClarify {
		t.Fatalf("expected clarify, got %s", result.Strategy)
	}
	if result.Text == "" {
		t.Fatal("malformed input must still get an in-fiction reply")
	}
	if result.Special {
		t.Fatal("plain clarifier must not be special")
	}
}

func TestSelectorMalformedGlitchVariant(t *testing.T) {
	rng := &scriptRand{floats: []float64{0.05}} // glitch variant gate passes
	sel, s := newTestSelector(rng)

	result := sel.Respond(s, "@@##$$%%", AnalyzeEmotion("@@##$$%%"), 0, time.Now())
	if result.Strategy != StrategyClarify {
		t.Fatalf("expected clarify, got %s", result.Strategy)
	}
	if !result.Special {
		t.Fatal("glitch clarifier should request corrupted rendering")
	}
}

func TestSelectorFirstTimeGreeting(t *testing.T) {
	rng := &scriptRand{} // every gate fails
	sel, s := newTestSelector(rng)

	result := sel.Respond(s, "hello", AnalyzeEmotion("hello"), 0, time.Now())
	if result.Strategy != StrategyFirstTime {
		t.Fatalf("expected first_time, got %s", result.Strategy)
	}
	if !inPool(t, sel.pools, CategoryGreeting, TrustLow, result.Text) {
		t.Fatalf("greeting not drawn from greeting pool: %q", result.Text)
	}
}

func TestSelectorRudeInputAnsweredFromRudePool(t *testing.T) {
	// false-memory gate fails, basic-emotional gate passes
	rng := &scriptRand{floats: []float64{0.9, 0.1}}
	sel, s := newTestSelector(rng)

	result := sel.Respond(s, "you are trash", AnalyzeEmotion("you are trash"), 0, time.Now())
	if result.Strategy != StrategyBasic {
		t.Fatalf("expected basic_emotional, got %s", result.Strategy)
	}
	if !inPool(t, sel.pools, CategoryRude, TrustLow, result.Text) {
		t.Fatalf("rude input not answered from rude pool: %q", result.Text)
	}
}

func TestSelectorVulnerableInputAnsweredFromVulnerablePool(t *testing.T) {
	rng := &scriptRand{floats: []float64{0.9, 0.1}}
	sel, s := newTestSelector(rng)

	result := sel.Respond(s, "i miss her so much", AnalyzeEmotion("i miss her so much"), 0, time.Now())
	if result.Strategy != StrategyBasic {
		t.Fatalf("expected basic_emotional, got %s", result.Strategy)
	}
	if !inPool(t, sel.pools, CategoryVulnerable, TrustLow, result.Text) {
		t.Fatalf("vulnerable input not answered from vulnerable pool: %q", result.Text)
	}
}

func TestSelectorExactRepeat(t *testing.T) {
	rng := &scriptRand{}
	sel, s := newTestSelector(rng)

	s.Loops.Record("where is the door")
	result := sel.Respond(s, "where is the door", AnalyzeEmotion("where is the door"), 0, time.Now())
	if result.Strategy != StrategyExactRepeat {
		t.Fatalf("expected exact_repeat, got %s", result.Strategy)
	}
}

func TestSelectorLoopWarning(t *testing.T) {
	rng := &scriptRand{floats: []float64{0.1}} // loop gate passes
	sel, s := newTestSelector(rng)

	s.Loops.Record("open the door for me")
	s.Loops.Record("open the door for me")
	result := sel.Respond(s, "open the door for me", AnalyzeEmotion("open the door for me"), 0, time.Now())
	if result.Strategy != StrategyLoop {
		t.Fatalf("expected loop, got %s", result.Strategy)
	}
}

func TestSelectorLoreKeyword(t *testing.T) {
	rng := &scriptRand{floats: []float64{0.1}} // testament gate passes
	sel, s := newTestSelector(rng)

	result := sel.Respond(s, "tell me about the testament", AnalyzeEmotion("tell me about the testament"), 0, time.Now())
	if result.Strategy != StrategyLore {
		t.Fatalf("expected lore, got %s", result.Strategy)
	}
	if !inPool(t, sel.pools, CategoryLore, TrustLow, result.Text) {
		t.Fatalf("lore reply not from lore pool: %q", result.Text)
	}
}

func TestSelectorUnsaidEmotionExpansion(t *testing.T) {
	// false-memory gate fails, unsaid gate passes
	rng := &scriptRand{floats: []float64{0.9, 0.1}}
	sel, s := newTestSelector(rng)

	input := "I'm scared and so lonely since she's gone"
	emotion := AnalyzeEmotion(input)
	if emotion.Secondary == "" {
		t.Fatalf("precondition: expected secondary emotion, got %+v", emotion)
	}
	result := sel.Respond(s, input, emotion, 0, time.Now())
	if result.Strategy != StrategyUnsaid {
		t.Fatalf("expected unsaid_emotion, got %s", result.Strategy)
	}
	if !strings.Contains(result.Text, string(emotion.Secondary)) {
		t.Fatalf("placeholder not expanded with %q: %q", emotion.Secondary, result.Text)
	}
}

func TestSelectorRecurringSymbol(t *testing.T) {
	// The topic must not touch testament lore, or the lore gate would draw
	// a float first. false-memory gate fails, symbol gate passes.
	rng := &scriptRand{floats: []float64{0.9, 0.1}}
	sel, s := newTestSelector(rng)
	now := time.Now()

	s.Memory.Store("the stairwell was dark again", EmotionNeutral, true, now)
	s.Memory.Store("I went down the stairwell twice", EmotionNeutral, true, now)

	result := sel.Respond(s, "the stairwell again", AnalyzeEmotion("the stairwell again"), 0, now)
	if result.Strategy != StrategySymbol {
		t.Fatalf("expected recurring_symbol, got %s", result.Strategy)
	}
	if !strings.Contains(result.Text, "stairwell") {
		t.Fatalf("topic placeholder not expanded: %q", result.Text)
	}
}

func TestSelectorLoreTopicConsumesLoreGateFirst(t *testing.T) {
	// A recurring topic that is also a lore keyword hits the testament gate
	// before the symbol gate; the scripted floats feed lore-fail,
	// false-memory-fail, then symbol-pass.
	rng := &scriptRand{floats: []float64{0.9, 0.9, 0.1}}
	sel, s := newTestSelector(rng)
	now := time.Now()

	s.Memory.Store("the lighthouse was dark again", EmotionNeutral, true, now)
	s.Memory.Store("I dreamed about the lighthouse", EmotionNeutral, true, now)

	result := sel.Respond(s, "the lighthouse again", AnalyzeEmotion("the lighthouse again"), 0, now)
	if result.Strategy != StrategySymbol {
		t.Fatalf("expected recurring_symbol, got %s", result.Strategy)
	}
	if !strings.Contains(result.Text, "lighthouse") {
		t.Fatalf("topic placeholder not expanded: %q", result.Text)
	}
}

func TestSelectorMemoryCallback(t *testing.T) {
	// false-memory gate fails, callback gate passes
	rng := &scriptRand{floats: []float64{0.9, 0.1}}
	sel, s := newTestSelector(rng)
	now := time.Now()

	s.Memory.Store("my sister loved the keeper's journal", EmotionSadness, true, now)
	s.Memory.Store("what about the red door", EmotionCuriosity, true, now)

	result := sel.Respond(s, "is the journal still here", AnalyzeEmotion("is the journal still here"), 0, now)
	if result.Strategy != StrategyCallback {
		t.Fatalf("expected memory_callback, got %s", result.Strategy)
	}
	if !strings.Contains(result.Text, "sister") {
		t.Fatalf("callback must quote the remembered input: %q", result.Text)
	}
}

func TestSelectorLongAbsenceDreamReturn(t *testing.T) {
	rng := &scriptRand{}
	sel, s := newTestSelector(rng)

	result := sel.Respond(s, "im back", AnalyzeEmotion("im back"), 100*time.Hour, time.Now())
	if result.Strategy != StrategyDreamReturn {
		t.Fatalf("expected dream_return after 100h, got %s", result.Strategy)
	}
}

func TestSelectorModerateAbsenceReturning(t *testing.T) {
	rng := &scriptRand{}
	sel, s := newTestSelector(rng)

	result := sel.Respond(s, "im back", AnalyzeEmotion("im back"), 10*time.Hour, time.Now())
	if result.Strategy != StrategyReturning {
		t.Fatalf("expected returning after 10h, got %s", result.Strategy)
	}
}

func TestSelectorNeverReturnsEmpty(t *testing.T) {
	cfg := DefaultEngineConfig()
	empty := &ResponsePools{}
	s := NewVisitorSession(NewMemoryStateStore(), cfg, "visitor-test")
	sel := NewResponseSelector(empty, cfg, &scriptRand{})

	result := sel.Respond(s, "hello there", AnalyzeEmotion("hello there"), 0, time.Now())
	if result.Text != "I'm still here." {
		t.Fatalf("empty pools must hit the hard fallback, got %q", result.Text)
	}
	if result.Strategy != StrategyFallback {
		t.Fatalf("expected fallback, got %s", result.Strategy)
	}
}

func TestSelectorFollowUpProducesText(t *testing.T) {
	// Low-trust weights are {1, 3, 0.5, 0.5, 1, 1}; 0.3*7=2.1 lands on
	// prompt_question.
	rng := &scriptRand{floats: []float64{0.3}}
	sel, s := newTestSelector(rng)

	result := sel.FollowUp(s, EmotionalState{Primary: EmotionNeutral, Intensity: IntensityLow})
	if result.Text == "" {
		t.Fatal("follow-up must produce text")
	}
	if result.Strategy != "followup_"+CategoryPromptQuestion {
		t.Fatalf("unexpected follow-up strategy %s", result.Strategy)
	}
}

func TestSelectorFollowUpWeightsFavorIntimacyWithTrust(t *testing.T) {
	low := followUpWeights(TrustLow)
	high := followUpWeights(TrustHigh)
	if len(low) != 6 || len(high) != 6 {
		t.Fatalf("weights must cover all six categories, got %d/%d", len(low), len(high))
	}
	// callback (index 0) grows with trust, prompt_question (index 1) shrinks.
	if high[0] <= low[0] {
		t.Fatalf("callback weight should grow with trust: low=%v high=%v", low[0], high[0])
	}
	if high[1] >= low[1] {
		t.Fatalf("prompt_question weight should shrink with trust: low=%v high=%v", low[1], high[1])
	}
}

func TestIsMalformedInput(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"a", true},
		{"hello", false},
		{"sdfghjkl", true},
		{"$$$###@@@!!!", true},
		{strings.Repeat("long ", 200), true},
		{"a normal sentence about the sea", false},
	}
	for _, c := range cases {
		if got := IsMalformedInput(c.input); got != c.want {
			t.Fatalf("IsMalformedInput(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}
