package jonah

import (
	"log"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Scheduler — one component per cadence, fresh gating every tick
// ──────────────────────────────────────────────

// cadence is a single periodic trigger. check re-reads current gating state
// from the session/store on every tick (never from a captured closure value)
// and returns the line to emit, or "".
type cadence struct {
	name     string
	interval time.Duration
	check    func(now time.Time) (text string, special bool)
}

// Scheduler owns the per-visitor ambient timers: idle check, glitch,
// question prompt, anomaly, dream. Every handle is tracked and cancelled on
// Stop; ActiveTimers exposes the count for leak assertions.
type Scheduler struct {
	session *VisitorSession
	pools   *ResponsePools
	cfg     EngineConfig
	rng     Rand
	send    func(text string, special bool)

	mu       sync.Mutex
	cadences []cadence
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	active   atomic.Int32

	// idleFiredForMs holds the interaction timestamp the idle line fired
	// against; a newer timestamp re-arms the trigger, so it fires at most
	// once per idle period.
	idleFiredForMs atomic.Int64
}

// NewScheduler builds the cadence set for one visitor session.
func NewScheduler(session *VisitorSession, pools *ResponsePools, cfg EngineConfig, rng Rand, send func(text string, special bool)) *Scheduler {
	s := &Scheduler{
		session: session,
		pools:   pools,
		cfg:     cfg,
		rng:     rng,
		send:    send,
	}
	s.cadences = []cadence{
		{name: "idle", interval: cfg.IdleCheckInterval, check: s.checkIdle},
		{name: "glitch", interval: cfg.GlitchInterval, check: s.checkGlitch},
		{name: "question", interval: cfg.QuestionInterval, check: s.checkQuestion},
		{name: "anomaly", interval: cfg.AnomalyInterval, check: s.checkAnomaly},
		{name: "dream", interval: cfg.DreamInterval, check: s.checkDream},
	}
	return s
}

// Start launches one goroutine per cadence. Non-blocking; idempotent.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	for _, c := range s.cadences {
		c := c
		s.wg.Add(1)
		s.active.Inc()
		go s.run(c)
	}
	log.Printf("[Scheduler] started | visitor=%s cadences=%d", s.session.VisitorID, len(s.cadences))
}

// Stop cancels every timer and waits for the cadence goroutines to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	log.Printf("[Scheduler] stopped | visitor=%s", s.session.VisitorID)
}

// ActiveTimers returns the number of live cadence goroutines. Zero after
// Stop; tests assert this to catch timer leaks.
func (s *Scheduler) ActiveTimers() int {
	return int(s.active.Load())
}

// ResetPage re-arms the idle one-shot, called on page navigation.
func (s *Scheduler) ResetPage() {
	s.idleFiredForMs.Store(0)
}

func (s *Scheduler) run(c cadence) {
	defer s.wg.Done()
	defer s.active.Dec()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			// Cadence checks read gating state and draw from the shared
			// used-response window; the session mutex serializes them with
			// the engine's UI callbacks.
			s.session.mu.Lock()
			text, special := c.check(now)
			s.session.mu.Unlock()
			if text != "" {
				s.send(text, special)
			}
		}
	}
}

// ─── cadence checks ───

func (s *Scheduler) checkIdle(now time.Time) (string, bool) {
	last := s.session.FreshLastInteraction()
	if last.IsZero() {
		return "", false
	}
	if now.Sub(last) < s.cfg.IdleThreshold {
		return "", false
	}
	if s.idleFiredForMs.Load() == last.UnixMilli() {
		return "", false // already fired for this idle period
	}
	s.idleFiredForMs.Store(last.UnixMilli())
	return s.draw(CategoryIdle), false
}

func (s *Scheduler) checkGlitch(now time.Time) (string, bool) {
	if !s.session.ChatOpen() || s.session.InteractionCount() == 0 {
		return "", false
	}
	return s.draw(CategoryGlitch), true
}

func (s *Scheduler) checkQuestion(now time.Time) (string, bool) {
	if !s.session.ChatOpen() || s.session.InteractionCount() == 0 {
		return "", false
	}
	return s.draw(CategoryPromptQuestion), false
}

func (s *Scheduler) checkAnomaly(now time.Time) (string, bool) {
	if s.session.Trust.Level() != TrustHigh {
		return "", false
	}
	return s.draw(CategoryAnomaly), false
}

func (s *Scheduler) checkDream(now time.Time) (string, bool) {
	level := s.session.Trust.Level()
	if level != TrustMedium && level != TrustHigh {
		return "", false
	}
	return s.draw(CategoryDream), false
}

func (s *Scheduler) draw(category string) string {
	level := s.session.Trust.Level()
	if level == TrustNone {
		level = TrustLow
	}
	return s.session.Used.Draw(s.rng, category, s.pools.Lines(category, level))
}
