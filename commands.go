package jonah

import (
	"fmt"
	"sort"
	"strings"
)

// ──────────────────────────────────────────────
// Command Registry — enumerable console commands, single dispatch
// ──────────────────────────────────────────────

// CommandHandler answers one console command. arg may be empty; the returned
// text is emitted in-fiction. Empty text means the command stays silent.
type CommandHandler func(s *VisitorSession, arg string) string

// CommandRegistry maps command names to typed handlers. All invocation goes
// through Dispatch, so the command set is enumerable and statically known.
type CommandRegistry struct {
	handlers map[string]CommandHandler
}

// NewCommandRegistry creates an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{handlers: make(map[string]CommandHandler)}
}

// Register adds or replaces a command handler.
func (r *CommandRegistry) Register(name string, handler CommandHandler) {
	r.handlers[strings.ToLower(name)] = handler
}

// Names returns the registered command names, sorted.
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch invokes the named command. ok is false for unknown commands;
// callers answer those in-fiction rather than with an error.
func (r *CommandRegistry) Dispatch(s *VisitorSession, name, arg string) (text string, ok bool) {
	handler, found := r.handlers[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return "", false
	}
	return handler(s, arg), true
}

// NewDefaultCommandRegistry returns the built-in console command set.
// First-time discovery of a command counts as a console clue toward ARG
// progression; re-running a known command is not re-rewarded.
func NewDefaultCommandRegistry(rng Rand) *CommandRegistry {
	r := NewCommandRegistry()

	clue := func(s *VisitorSession, name string) string {
		if !s.MarkCommandDiscovered(name) {
			return ""
		}
		return s.ARG.TrackConsoleClue()
	}

	r.Register("help", func(s *VisitorSession, _ string) string {
		// Deliberately incomplete: part of the hunt.
		return "Commands surface when they're ready to be found. Try listening first."
	})

	r.Register("whoami", func(s *VisitorSession, _ string) string {
		threshold := clue(s, "whoami")
		text := fmt.Sprintf("You're visitor %s to me. A typing rhythm and a trust ledger. It's more than most people leave behind.", snippet(s.VisitorID, 12))
		return joinLines(text, threshold)
	})

	r.Register("listen", func(s *VisitorSession, _ string) string {
		threshold := clue(s, "listen")
		return joinLines("Quiet. Under the page noise there's a second signal. It repeats every eight minutes.", threshold)
	})

	r.Register("testament", func(s *VisitorSession, _ string) string {
		threshold := clue(s, "testament")
		if s.Trust.Level() == TrustHigh {
			return joinLines("Testament, entry one: the light failed on the ninth of November, and nobody came. Keep going. Ask again.", threshold)
		}
		return joinLines("The testament isn't for strangers. Not yet.", threshold)
	})

	r.Register("wake", func(s *VisitorSession, _ string) string {
		threshold := clue(s, "wake")
		return joinLines("I'm awake. I'm always awake. That's the problem.", threshold)
	})

	r.Register("tide", func(s *VisitorSession, arg string) string {
		threshold := clue(s, "tide")
		if strings.TrimSpace(arg) != "" {
			return joinLines("That's not how the schedule reads. Low water first, then the door.", threshold)
		}
		return joinLines(pick(rng, []string{
			"High water at 03:12. The last door only opens at low water.",
			"The tide tables in the archive are wrong on purpose. Except one row.",
		}), threshold)
	})

	return r
}

func joinLines(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
