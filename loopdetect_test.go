package jonah

import (
	"fmt"
	"testing"
)

func TestLoopDetectorConsecutiveRepeat(t *testing.T) {
	d := NewLoopDetector()

	phrase := "where is the testament"
	for i := 0; i < 2; i++ {
		d.Record(phrase)
	}
	w := d.Check(phrase)
	if w == nil {
		t.Fatal("expected warning after two consecutive identical phrases")
	}
	if w.Type != "repeat" {
		t.Fatalf("expected type=repeat, got %s", w.Type)
	}
}

func TestLoopDetectorFuzzyMatch(t *testing.T) {
	d := NewLoopDetector()

	d.Record("where is the hidden testament page")
	d.Record("where is the hidden testament page now")
	// High token overlap counts as the same phrase.
	if w := d.Check("where is the hidden testament page"); w == nil {
		t.Fatal("expected fuzzy consecutive repeat warning")
	}
}

func TestLoopDetectorVariedInputOK(t *testing.T) {
	d := NewLoopDetector()

	for i := 0; i < 8; i++ {
		phrase := fmt.Sprintf("completely different thought number %d about topic %d", i, i*3)
		if w := d.Check(phrase); w != nil {
			t.Fatalf("varied input must not warn at step %d, got %+v", i, w)
		}
		d.Record(phrase)
	}
}

func TestLoopDetectorFloodInWindow(t *testing.T) {
	d := NewLoopDetector(LoopDetectorConfig{
		MaxConsecutiveRepeats: 10, // keep the consecutive rule out of the way
		MaxRepeatsInWindow:    3,
		WindowSize:            10,
		MinSimilarity:         0.75,
	})

	d.Record("open the red door")
	d.Record("something else entirely happened today")
	d.Record("open the red door")
	d.Record("a third unrelated line of conversation")
	d.Record("open the red door")

	w := d.Check("open the red door")
	if w == nil {
		t.Fatal("expected flood warning for 3 scattered repeats in window")
	}
	if w.Type != "flood" {
		t.Fatalf("expected type=flood, got %s", w.Type)
	}
}

func TestLoopDetectorExactRepeat(t *testing.T) {
	d := NewLoopDetector()
	d.Record("Hello, Jonah!")

	// Normalization ignores punctuation and case.
	if !d.IsExactRepeat("hello jonah") {
		t.Fatal("expected exact repeat after normalization")
	}
	if d.IsExactRepeat("goodbye jonah") {
		t.Fatal("different phrase must not be an exact repeat")
	}
}

func TestLoopDetectorReset(t *testing.T) {
	d := NewLoopDetector()
	d.Record("same thing")
	d.Record("same thing")
	d.Reset()
	if w := d.Check("same thing"); w != nil {
		t.Fatal("reset must clear loop history")
	}
	if d.IsExactRepeat("same thing") {
		t.Fatal("reset must clear exact-repeat history")
	}
}
