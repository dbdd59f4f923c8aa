package jonah

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Emotional Model — rule-based classification into a closed category set
// ──────────────────────────────────────────────

// EmotionCategory is the closed set of emotions the engine reasons about.
// Input text is classified deterministically; visitors can never set it.
type EmotionCategory string

const (
	EmotionNeutral   EmotionCategory = "neutral"
	EmotionJoy       EmotionCategory = "joy"
	EmotionSadness   EmotionCategory = "sadness"
	EmotionFear      EmotionCategory = "fear"
	EmotionAnger     EmotionCategory = "anger"
	EmotionTrust     EmotionCategory = "trust"
	EmotionHope      EmotionCategory = "hope"
	EmotionAnxiety   EmotionCategory = "anxiety"
	EmotionParanoia  EmotionCategory = "paranoia"
	EmotionCuriosity EmotionCategory = "curiosity"
	EmotionConfusion EmotionCategory = "confusion"
	EmotionDisgust   EmotionCategory = "disgust"
	EmotionSurprise  EmotionCategory = "surprise"
)

// Intensity buckets derived from text length and punctuation.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// EmotionalState is the per-turn classification result. Primary is never
// empty; Secondary is the runner-up when it scores close enough to matter.
type EmotionalState struct {
	Primary   EmotionCategory `json:"primary"`
	Secondary EmotionCategory `json:"secondary,omitempty"`
	Intensity Intensity       `json:"intensity"`
}

type weightedKeyword struct {
	keyword string
	weight  float64
}

// emotionPatterns maps each category to weighted trigger keywords.
// Strong unambiguous phrases get 0.5, common words 0.3 so single weak hits
// stay below the neutral threshold.
var emotionPatterns = map[EmotionCategory][]weightedKeyword{
	EmotionJoy: {
		{keyword: "love it", weight: 0.4}, {keyword: "amazing", weight: 0.4},
		{keyword: "wonderful", weight: 0.4}, {keyword: "happy", weight: 0.4},
		{keyword: "great", weight: 0.3}, {keyword: "haha", weight: 0.3},
		{keyword: "awesome", weight: 0.3}, {keyword: ":)", weight: 0.3},
	},
	EmotionSadness: {
		{keyword: "i miss", weight: 0.5}, {keyword: "lonely", weight: 0.5},
		{keyword: "lost her", weight: 0.5}, {keyword: "lost him", weight: 0.5},
		{keyword: "grief", weight: 0.5}, {keyword: "sad", weight: 0.4},
		{keyword: "crying", weight: 0.4}, {keyword: "gone", weight: 0.3},
		{keyword: "alone", weight: 0.3}, {keyword: "empty", weight: 0.3},
	},
	EmotionFear: {
		{keyword: "terrified", weight: 0.5}, {keyword: "scared", weight: 0.5},
		{keyword: "afraid", weight: 0.4}, {keyword: "frightening", weight: 0.4},
		{keyword: "creepy", weight: 0.3}, {keyword: "dark", weight: 0.2},
	},
	EmotionAnger: {
		{keyword: "you are trash", weight: 0.6}, {keyword: "garbage", weight: 0.5},
		{keyword: "stupid", weight: 0.5}, {keyword: "shut up", weight: 0.5},
		{keyword: "hate you", weight: 0.5}, {keyword: "wtf", weight: 0.4},
		{keyword: "useless", weight: 0.4}, {keyword: "angry", weight: 0.4},
		{keyword: "terrible", weight: 0.3},
	},
	EmotionTrust: {
		{keyword: "i trust you", weight: 0.6}, {keyword: "i believe you", weight: 0.5},
		{keyword: "you can tell me", weight: 0.4}, {keyword: "i'm here", weight: 0.3},
		{keyword: "with you", weight: 0.3},
	},
	EmotionHope: {
		{keyword: "hope", weight: 0.4}, {keyword: "maybe someday", weight: 0.4},
		{keyword: "better", weight: 0.2}, {keyword: "one day", weight: 0.3},
		{keyword: "we can", weight: 0.3},
	},
	EmotionAnxiety: {
		{keyword: "worried", weight: 0.5}, {keyword: "nervous", weight: 0.5},
		{keyword: "can't sleep", weight: 0.4}, {keyword: "anxious", weight: 0.5},
		{keyword: "what if", weight: 0.3}, {keyword: "hurry", weight: 0.3},
	},
	EmotionParanoia: {
		{keyword: "watching me", weight: 0.6}, {keyword: "following me", weight: 0.6},
		{keyword: "they know", weight: 0.5}, {keyword: "not safe", weight: 0.4},
		{keyword: "someone is here", weight: 0.4}, {keyword: "being watched", weight: 0.5},
	},
	EmotionCuriosity: {
		{keyword: "what is", weight: 0.3}, {keyword: "tell me about", weight: 0.4},
		{keyword: "how does", weight: 0.3}, {keyword: "why", weight: 0.2},
		{keyword: "wonder", weight: 0.4}, {keyword: "curious", weight: 0.5},
	},
	EmotionConfusion: {
		{keyword: "don't understand", weight: 0.5}, {keyword: "confused", weight: 0.5},
		{keyword: "makes no sense", weight: 0.5}, {keyword: "what do you mean", weight: 0.4},
		{keyword: "huh", weight: 0.3},
	},
	EmotionDisgust: {
		{keyword: "disgusting", weight: 0.6}, {keyword: "gross", weight: 0.5},
		{keyword: "sick of", weight: 0.4}, {keyword: "revolting", weight: 0.5},
	},
	EmotionSurprise: {
		{keyword: "can't believe", weight: 0.5}, {keyword: "no way", weight: 0.4},
		{keyword: "whoa", weight: 0.4}, {keyword: "wow", weight: 0.3},
		{keyword: "didn't expect", weight: 0.5},
	},
}

// emotionOrder fixes iteration order so ties resolve deterministically.
var emotionOrder = []EmotionCategory{
	EmotionAnger, EmotionParanoia, EmotionFear, EmotionDisgust,
	EmotionSadness, EmotionAnxiety, EmotionConfusion,
	EmotionJoy, EmotionTrust, EmotionHope, EmotionSurprise, EmotionCuriosity,
}

// emotionThreshold below which the classification stays neutral.
const emotionThreshold = 0.3

// secondaryMargin: runner-up must reach this fraction of the top score.
const secondaryMargin = 0.6

// AnalyzeEmotion classifies input text into primary + optional secondary
// emotion with an intensity bucket. Deterministic; Primary is never empty.
func AnalyzeEmotion(text string) EmotionalState {
	lower := strings.ToLower(text)

	scores := make(map[EmotionCategory]float64, len(emotionPatterns))
	for category, keywords := range emotionPatterns {
		for _, kw := range keywords {
			if strings.Contains(lower, kw.keyword) {
				scores[category] += kw.weight
			}
		}
	}

	// Trailing question marks lean curious when nothing else scored.
	if strings.HasSuffix(strings.TrimSpace(text), "?") {
		scores[EmotionCuriosity] += 0.15
	}

	primary, top := EmotionNeutral, 0.0
	var secondary EmotionCategory
	second := 0.0
	for _, category := range emotionOrder {
		score := scores[category]
		switch {
		case score > top:
			secondary, second = primary, top
			primary, top = category, score
		case score > second:
			secondary, second = category, score
		}
	}

	if top < emotionThreshold {
		return EmotionalState{Primary: EmotionNeutral, Intensity: intensityOf(text)}
	}

	state := EmotionalState{Primary: primary, Intensity: intensityOf(text)}
	if second >= top*secondaryMargin && second >= emotionThreshold {
		state.Secondary = secondary
	}
	return state
}

// intensityOf buckets by rune count and punctuation pressure.
func intensityOf(text string) Intensity {
	runes := utf8.RuneCountInString(text)
	exclaim := strings.Count(text, "!")

	upper, letters := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	shouting := letters >= 4 && upper*2 > letters

	switch {
	case exclaim >= 2 || shouting:
		return IntensityHigh
	case runes >= 120:
		return IntensityHigh
	case runes < 15 && exclaim == 0:
		return IntensityLow
	default:
		return IntensityMedium
	}
}

// emotionValence maps each category to a fixed sign used by trend detection.
var emotionValence = map[EmotionCategory]int{
	EmotionJoy:       2,
	EmotionTrust:     2,
	EmotionHope:      1,
	EmotionCuriosity: 1,
	EmotionSurprise:  0,
	EmotionNeutral:   0,
	EmotionConfusion: -1,
	EmotionAnxiety:   -1,
	EmotionSadness:   -1,
	EmotionFear:      -2,
	EmotionAnger:     -2,
	EmotionParanoia:  -2,
	EmotionDisgust:   -2,
}

// Valence returns the fixed valence of a category (0 for unknown).
func Valence(category EmotionCategory) int {
	return emotionValence[category]
}
