package jonah

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ──────────────────────────────────────────────
// EngineConfig — cascade probabilities, windows, cadences
// ──────────────────────────────────────────────

// EngineConfig controls the response cascade, memory windows and scheduler
// cadences. Zero values are filled by DefaultEngineConfig; probabilities are
// in [0,1].
type EngineConfig struct {
	// Cascade gates (order fixed; see selector.go)
	GlitchClarifierChance  float64 `env:"JONAH_GLITCH_CLARIFIER_CHANCE"`
	LoopResponseChance     float64 `env:"JONAH_LOOP_RESPONSE_CHANCE"`
	TestamentChance        float64 `env:"JONAH_TESTAMENT_CHANCE"`
	FalseMemoryChance      float64 `env:"JONAH_FALSE_MEMORY_CHANCE"`
	UnsaidEmotionChance    float64 `env:"JONAH_UNSAID_EMOTION_CHANCE"`
	RecurringSymbolChance  float64 `env:"JONAH_RECURRING_SYMBOL_CHANCE"`
	LayeredEmotionalChance float64 `env:"JONAH_LAYERED_EMOTIONAL_CHANCE"`
	BasicEmotionalChance   float64 `env:"JONAH_BASIC_EMOTIONAL_CHANCE"`
	MemoryCallbackChance   float64 `env:"JONAH_MEMORY_CALLBACK_CHANCE"`

	// Post-processing gates
	BlankFragmentChance float64 `env:"JONAH_BLANK_FRAGMENT_CHANCE"`
	EmotionalEchoChance float64 `env:"JONAH_EMOTIONAL_ECHO_CHANCE"`
	LoreTeaserChance    float64 `env:"JONAH_LORE_TEASER_CHANCE"`

	// Follow-up message probability by trust level
	FollowUpChanceHigh   float64       `env:"JONAH_FOLLOWUP_CHANCE_HIGH"`
	FollowUpChanceMedium float64       `env:"JONAH_FOLLOWUP_CHANCE_MEDIUM"`
	FollowUpChanceLow    float64       `env:"JONAH_FOLLOWUP_CHANCE_LOW"`
	FollowUpDelayMin     time.Duration `env:"JONAH_FOLLOWUP_DELAY_MIN"`
	FollowUpDelayMax     time.Duration `env:"JONAH_FOLLOWUP_DELAY_MAX"`

	// Windows
	UsedResponsesCap   int `env:"JONAH_USED_RESPONSES_CAP"`
	RecentInputsCap    int `env:"JONAH_RECENT_INPUTS_CAP"`
	RecentResponsesCap int `env:"JONAH_RECENT_RESPONSES_CAP"`
	EmotionHistoryCap  int `env:"JONAH_EMOTION_HISTORY_CAP"`
	TrustHistoryCap    int `env:"JONAH_TRUST_HISTORY_CAP"`

	// Absence thresholds
	ModerateAbsence time.Duration `env:"JONAH_MODERATE_ABSENCE"`
	LongAbsence     time.Duration `env:"JONAH_LONG_ABSENCE"`

	// Lore trust bonus rate limit (one bonus per window)
	LoreBonusWindow time.Duration `env:"JONAH_LORE_BONUS_WINDOW"`

	// Scheduler cadences
	IdleCheckInterval time.Duration `env:"JONAH_IDLE_CHECK_INTERVAL"`
	IdleThreshold     time.Duration `env:"JONAH_IDLE_THRESHOLD"`
	GlitchInterval    time.Duration `env:"JONAH_GLITCH_INTERVAL"`
	QuestionInterval  time.Duration `env:"JONAH_QUESTION_INTERVAL"`
	AnomalyInterval   time.Duration `env:"JONAH_ANOMALY_INTERVAL"`
	DreamInterval     time.Duration `env:"JONAH_DREAM_INTERVAL"`

	// Typing reveal pacing (delay per rune, plus base)
	TypingBaseDelay    time.Duration `env:"JONAH_TYPING_BASE_DELAY"`
	TypingPerRuneDelay time.Duration `env:"JONAH_TYPING_PER_RUNE_DELAY"`
}

// DefaultEngineConfig returns production defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		GlitchClarifierChance:  0.2,
		LoopResponseChance:     0.7,
		TestamentChance:        0.3,
		FalseMemoryChance:      0.2,
		UnsaidEmotionChance:    0.3,
		RecurringSymbolChance:  0.3,
		LayeredEmotionalChance: 0.4,
		BasicEmotionalChance:   0.4,
		MemoryCallbackChance:   0.3,

		BlankFragmentChance: 0.2,
		EmotionalEchoChance: 0.3,
		LoreTeaserChance:    0.2,

		FollowUpChanceHigh:   0.4,
		FollowUpChanceMedium: 0.3,
		FollowUpChanceLow:    0.1,
		FollowUpDelayMin:     2 * time.Second,
		FollowUpDelayMax:     4 * time.Second,

		UsedResponsesCap:   10,
		RecentInputsCap:    5,
		RecentResponsesCap: 8,
		EmotionHistoryCap:  8,
		TrustHistoryCap:    50,

		ModerateAbsence: 6 * time.Hour,
		LongAbsence:     72 * time.Hour,

		LoreBonusWindow: 60 * time.Second,

		IdleCheckInterval: 30 * time.Second,
		IdleThreshold:     5 * time.Minute,
		GlitchInterval:    60 * time.Second,
		QuestionInterval:  3 * time.Minute,
		AnomalyInterval:   5 * time.Minute,
		DreamInterval:     8 * time.Minute,

		TypingBaseDelay:    400 * time.Millisecond,
		TypingPerRuneDelay: 18 * time.Millisecond,
	}
}

// LoadEngineConfig builds an EngineConfig from defaults overridden by
// environment variables. A .env file is loaded if present.
func LoadEngineConfig() EngineConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file found, using system environment")
	}
	cfg := DefaultEngineConfig()
	if err := env.Parse(&cfg); err != nil {
		log.Printf("[Config] env parse error, keeping defaults: %v", err)
	}
	return cfg
}
