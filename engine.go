package jonah

import (
	"log"
	"strings"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Engine — per-visitor entry points and orchestration
// ──────────────────────────────────────────────

// EmitFn delivers text to the UI. special requests the corrupted/glitch
// rendering treatment.
type EmitFn func(text string, special bool)

// EngineOptions customizes an Engine. Zero fields take defaults.
type EngineOptions struct {
	Config   EngineConfig
	Rand     Rand
	Pools    *ResponsePools
	Commands *CommandRegistry

	// SecretPathMarkers flag a navigation as a secret-page discovery when
	// the path contains any of them.
	SecretPathMarkers []string
}

// Engine drives Jonah for one visitor session. All mutation happens on
// discrete callbacks (user input, timer tick, navigation), serialized by the
// session mutex so callbacks and cadence ticks never overlap. Responses are
// computed synchronously and revealed asynchronously through cancellable
// typing timers.
type Engine struct {
	session   *VisitorSession
	selector  *ResponseSelector
	post      *PostProcessor
	pools     *ResponsePools
	commands  *CommandRegistry
	scheduler *Scheduler
	cfg       EngineConfig
	rng       Rand
	emit      EmitFn

	secretMarkers []string

	mu      sync.Mutex
	reveals []*TypingReveal
}

// NewEngine loads the visitor's persisted state and wires the cascade,
// post-processor, command registry and scheduler. emit must be non-nil.
func NewEngine(visitorID string, store StateStore, emit EmitFn, opts ...EngineOptions) *Engine {
	var o EngineOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	cfg := o.Config
	if cfg.UsedResponsesCap == 0 {
		cfg = DefaultEngineConfig()
	}
	rng := o.Rand
	if rng == nil {
		rng = NewRand()
	}
	pools := o.Pools
	if pools == nil {
		pools = NewResponsePools()
	}
	commands := o.Commands
	if commands == nil {
		commands = NewDefaultCommandRegistry(rng)
	}
	markers := o.SecretPathMarkers
	if markers == nil {
		markers = []string{"/secret", "/crypt", "/testament", "/.well-hidden"}
	}

	e := &Engine{
		session:       NewVisitorSession(store, cfg, visitorID),
		pools:         pools,
		commands:      commands,
		cfg:           cfg,
		rng:           rng,
		emit:          emit,
		secretMarkers: markers,
	}
	e.selector = NewResponseSelector(pools, cfg, rng)
	e.post = NewPostProcessor(pools, cfg, rng)
	e.scheduler = NewScheduler(e.session, pools, cfg, rng, e.deliver)
	return e
}

// Session exposes the visitor session (tests, diagnostics).
func (e *Engine) Session() *VisitorSession {
	return e.session
}

// Scheduler exposes the ambient timer component.
func (e *Engine) Scheduler() *Scheduler {
	return e.scheduler
}

// Start launches the ambient timers.
func (e *Engine) Start() {
	e.scheduler.Start()
}

// Teardown stops all timers and cancels pending reveals. The engine can be
// discarded afterwards; persisted state survives in the store.
func (e *Engine) Teardown() {
	e.scheduler.Stop()
	e.mu.Lock()
	reveals := e.reveals
	e.reveals = nil
	e.mu.Unlock()
	for _, r := range reveals {
		r.Cancel()
	}
}

// OnUserMessage is the UI-to-engine surface for a chat message.
func (e *Engine) OnUserMessage(text string) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	now := time.Now()
	sinceLast := e.session.TimeSinceLastInteraction(now)
	emotion := AnalyzeEmotion(text)

	e.applyTrustDeltas(text, emotion, now)

	result := e.selector.Respond(e.session, text, emotion, sinceLast, now)

	// Record the exchange. Input goes into loop history and memory before
	// the next message can arrive; the response is remembered at schedule
	// time so the reveal timer never writes visitor state.
	e.session.Loops.Record(text)
	e.session.Memory.Store(text, emotion.Primary, true, now)
	e.session.Emotions.Push(emotion, now)
	e.session.TouchInteraction(now)

	final, special := e.post.Apply(e.session, result, emotion)
	e.session.Memory.Store(final, EmotionNeutral, false, now)
	e.reveal(final, special, typingDelay(e.cfg, final))

	e.maybeFollowUp(emotion)
}

// OnNavigate is called with the path of each page the visitor loads.
func (e *Engine) OnNavigate(path string) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	e.scheduler.ResetPage()

	if e.isSecretPath(path) {
		line := e.session.ARG.TrackSecretPage()
		e.session.Trust.ModifyTrust(TrustDeltaHiddenPage, "hidden_page")
		e.afterDiscovery(line)
	}
}

// OnDOMEvent consumes tagged DOM interactions ("keyhole", "qr",
// "hidden_file") and maps them to tracker increments.
func (e *Engine) OnDOMEvent(tag string) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	var line string
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "keyhole":
		line = e.session.ARG.TrackKeyholeClick()
	case "qr":
		line = e.session.ARG.TrackQRScan()
	case "hidden_file":
		line = e.session.ARG.TrackHiddenFile()
	default:
		return
	}
	e.session.TouchInteraction(time.Now())
	e.afterDiscovery(line)
}

// OnCommand dispatches a named console command through the registry.
// Unknown commands get an in-fiction reply, never an error.
func (e *Engine) OnCommand(name, arg string) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	e.session.TouchInteraction(time.Now())

	text, ok := e.commands.Dispatch(e.session, name, arg)
	if !ok {
		e.deliver("That's not a word this place answers to. Yet.", false)
		return
	}
	if text != "" {
		e.deliver(text, false)
	}
}

// OnChatOpened flips the scheduler gate for chat-dependent cadences.
func (e *Engine) OnChatOpened() { e.session.SetChatOpen(true) }

// OnChatClosed closes the gate again.
func (e *Engine) OnChatClosed() { e.session.SetChatOpen(false) }

// ─── internals ───

// applyTrustDeltas converts the message into trust events.
func (e *Engine) applyTrustDeltas(text string, emotion EmotionalState, now time.Time) {
	if e.session.IsFirstVisit() {
		e.session.Trust.ModifyTrust(TrustDeltaFirstInteraction, "first_interaction")
	}

	switch {
	case IsMalformedInput(text):
		e.session.Trust.ModifyTrust(TrustDeltaGibberish, "gibberish")
	case emotion.Primary == EmotionAnger || emotion.Primary == EmotionDisgust:
		e.session.Trust.ModifyTrust(TrustDeltaRude, "rude")
	case emotion.Primary == EmotionSadness || emotion.Primary == EmotionFear:
		e.session.Trust.ModifyTrust(TrustDeltaVulnerability, "vulnerability")
	}

	if MatchesLoreKeyword(text) {
		e.session.GrantLoreBonus(now)
	}
}

// afterDiscovery emits the one-shot threshold line, or occasionally a
// tier-gated ARG line when no threshold fired.
func (e *Engine) afterDiscovery(thresholdLine string) {
	if thresholdLine != "" {
		e.deliver(thresholdLine, true)
		return
	}
	if chance(e.rng, 0.3) {
		if line := e.session.ARG.ARGResponse(e.rng); line != "" {
			e.deliver(line, true)
		}
	}
}

// maybeFollowUp schedules a second message with trust-scaled probability.
func (e *Engine) maybeFollowUp(emotion EmotionalState) {
	var p float64
	switch e.session.Trust.Level() {
	case TrustHigh:
		p = e.cfg.FollowUpChanceHigh
	case TrustMedium:
		p = e.cfg.FollowUpChanceMedium
	default:
		p = e.cfg.FollowUpChanceLow
	}
	if !chance(e.rng, p) {
		return
	}

	followUp := e.selector.FollowUp(e.session, emotion)
	if followUp.Text == "" {
		return
	}

	spread := e.cfg.FollowUpDelayMax - e.cfg.FollowUpDelayMin
	delay := e.cfg.FollowUpDelayMin
	if spread > 0 {
		delay += time.Duration(e.rng.Intn(int(spread)))
	}
	e.reveal(followUp.Text, followUp.Special, delay)
}

// deliver is the scheduler/command emission path: typing reveal included.
func (e *Engine) deliver(text string, special bool) {
	e.reveal(text, special, typingDelay(e.cfg, text))
}

// reveal schedules an emission and tracks the handle for teardown.
func (e *Engine) reveal(text string, special bool, delay time.Duration) {
	if e.emit == nil {
		log.Printf("[Engine] emit not set, dropping response | visitor=%s", e.session.VisitorID)
		return
	}
	r := revealAfter(delay, func() {
		e.emit(text, special)
	})

	e.mu.Lock()
	// Prune fired reveals so the slice stays bounded.
	kept := e.reveals[:0]
	for _, old := range e.reveals {
		if !old.Fired() {
			kept = append(kept, old)
		}
	}
	e.reveals = append(kept, r)
	e.mu.Unlock()
}

// PendingReveals reports scheduled-but-unfired emissions (tests).
func (e *Engine) PendingReveals() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, r := range e.reveals {
		if !r.Fired() {
			count++
		}
	}
	return count
}

func (e *Engine) isSecretPath(path string) bool {
	lower := strings.ToLower(path)
	for _, marker := range e.secretMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
