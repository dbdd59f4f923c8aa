package jonah

import (
	"sync"
	"time"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Typing Reveal — cancellable delayed emission
// ──────────────────────────────────────────────

// TypingReveal delivers a computed response after a delay sized to the text,
// simulating Jonah typing. The response itself is computed synchronously;
// only the reveal is deferred. Cancel stops an unfired reveal.
type TypingReveal struct {
	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

// revealAfter schedules fn once the typing delay elapses.
func revealAfter(delay time.Duration, fn func()) *TypingReveal {
	r := &TypingReveal{}
	r.timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		if r.done {
			r.mu.Unlock()
			return
		}
		r.done = true
		r.mu.Unlock()
		fn()
	})
	return r
}

// Cancel stops the reveal if it has not fired. Safe to call repeatedly.
func (r *TypingReveal) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.done = true
	r.timer.Stop()
}

// Fired reports whether the reveal already delivered (or was cancelled).
func (r *TypingReveal) Fired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// typingDelay computes the reveal delay for a piece of text.
func typingDelay(cfg EngineConfig, text string) time.Duration {
	return cfg.TypingBaseDelay + time.Duration(utf8.RuneCountInString(text))*cfg.TypingPerRuneDelay
}
