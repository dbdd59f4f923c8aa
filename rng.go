package jonah

import (
	"math/rand"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Rand — injected randomness source
// ──────────────────────────────────────────────

// Rand is the randomness surface used by every probabilistic decision in the
// engine. Inject a seeded source in tests to make the full cascade
// deterministic; production uses a time-seeded source.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// NewRand returns a time-seeded Rand for production use.
func NewRand() Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRand returns a deterministic Rand for tests and replay.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

// pick returns a uniformly random element, or "" for an empty pool.
func pick(rng Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.Intn(len(items))]
}

// weightedPick selects an item using weights. Zero total weight degrades to
// a uniform draw.
func weightedPick(rng Rand, items []string, weights []float64) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) == 1 {
		return items[0]
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return items[rng.Intn(len(items))]
	}
	roll := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if roll <= cumulative {
			return items[i]
		}
	}
	return items[len(items)-1]
}

// chance returns true with probability p (clamped to [0,1]).
func chance(rng Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}
