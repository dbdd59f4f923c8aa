package jonah

// ──────────────────────────────────────────────
// ARG Progression Tracker — discovery counters and tiers
// ──────────────────────────────────────────────

// Counter kinds. Each maps a real-world interaction class to a counter.
const (
	CounterKeyholeClicks = "keyholeClicks"
	CounterQRScans       = "qrScans"
	CounterSecretPages   = "secretPages"
	CounterHiddenFiles   = "hiddenFiles"
	CounterConsoleClues  = "consoleClues"
)

const keyARGCounters = "arg_counters"

// thresholdLines fire exactly once: the check is strict equality against the
// count after a +1 increment, so a monotonic counter can only hit each value
// a single time.
var thresholdLines = map[string]map[int]string{
	CounterKeyholeClicks: {
		1: "You found the keyhole. Most people never look that close.",
		5: "Five times at the same locked door. I think it notices you now.",
	},
	CounterQRScans: {
		1: "So the codes do work out there. I was never sure.",
		3: "Three fragments. Getting warmer.",
	},
	CounterSecretPages: {
		1: "That page isn't linked from anywhere. How did you... never mind.",
		3: "You keep finding the rooms I forgot I built.",
	},
	CounterHiddenFiles: {
		1: "You opened it. I buried that file for a reason.",
	},
	CounterConsoleClues: {
		1: "Most visitors never open the console. You're not most visitors.",
		4: "You've nearly exhausted what I left in there. Nearly.",
	},
}

// ARGTracker accumulates discovery counters for one visitor.
type ARGTracker struct {
	store     StateStore
	namespace string
	counters  map[string]int
}

// NewARGTracker loads the visitor's counters, empty on failure.
func NewARGTracker(store StateStore, namespace string) *ARGTracker {
	t := &ARGTracker{store: store, namespace: namespace, counters: make(map[string]int)}
	loadJSON(store, namespace, keyARGCounters, &t.counters)
	return t
}

// Track increments the named counter by one, persists, and returns the
// one-shot narrative line if the new count sits exactly on a threshold.
func (t *ARGTracker) Track(kind string) string {
	t.counters[kind]++
	t.persist()

	if lines, ok := thresholdLines[kind]; ok {
		if line, ok := lines[t.counters[kind]]; ok {
			return line
		}
	}
	return ""
}

// TrackKeyholeClick records a keyhole interaction.
func (t *ARGTracker) TrackKeyholeClick() string { return t.Track(CounterKeyholeClicks) }

// TrackQRScan records a scanned QR fragment.
func (t *ARGTracker) TrackQRScan() string { return t.Track(CounterQRScans) }

// TrackSecretPage records a visit to an unlinked page.
func (t *ARGTracker) TrackSecretPage() string { return t.Track(CounterSecretPages) }

// TrackHiddenFile records an opened hidden file.
func (t *ARGTracker) TrackHiddenFile() string { return t.Track(CounterHiddenFiles) }

// TrackConsoleClue records a discovered console command.
func (t *ARGTracker) TrackConsoleClue() string { return t.Track(CounterConsoleClues) }

// Count returns the current value of a counter.
func (t *ARGTracker) Count(kind string) int {
	return t.counters[kind]
}

// Tier derives the progression bucket 0-3 from the counters.
//
// Keyhole clicks and QR scans count raw (cheap, repeatable actions);
// secret pages, hidden files and console clues count presence-only (each is
// a discovery class). Monotonic: counters only grow, so the tier never
// decreases.
func (t *ARGTracker) Tier() int {
	sum := t.counters[CounterKeyholeClicks] + t.counters[CounterQRScans]
	if t.counters[CounterSecretPages] > 0 {
		sum++
	}
	if t.counters[CounterHiddenFiles] > 0 {
		sum++
	}
	if t.counters[CounterConsoleClues] > 0 {
		sum++
	}

	switch {
	case sum >= 10:
		return 3
	case sum >= 5:
		return 2
	case sum >= 2:
		return 1
	default:
		return 0
	}
}

// ARGResponse draws a uniformly random line from the current tier's pool.
// Tier 0 has no pool and returns "".
func (t *ARGTracker) ARGResponse(rng Rand) string {
	tier := t.Tier()
	if tier == 0 {
		return ""
	}
	return pick(rng, argTierPools[tier])
}

func (t *ARGTracker) persist() {
	saveJSON(t.store, t.namespace, keyARGCounters, t.counters)
}
