package jonah

import (
	"testing"
)

func TestLoadPoolsFromLuaString(t *testing.T) {
	p := NewResponsePools()
	script := `
pools = {
    lore = {
        low = { "the low tide hides a second staircase" },
        any = { "every archive has a missing page" },
    },
    custom_category = {
        high = { "only the trusted read this" },
    },
}
`
	if err := LoadPoolsFromLuaString(p, script); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lore := p.Lines(CategoryLore, TrustLow)
	found := false
	for _, line := range lore {
		if line == "the low tide hides a second staircase" {
			found = true
		}
	}
	if !found {
		t.Fatal("lua line missing from lore/low pool")
	}

	custom := p.Lines("custom_category", TrustHigh)
	if len(custom) != 1 || custom[0] != "only the trusted read this" {
		t.Fatalf("unexpected custom pool: %v", custom)
	}
	if len(p.Lines("custom_category", TrustLow)) != 0 {
		t.Fatal("high-only content must not leak to low")
	}
}

func TestLoadPoolsFromLuaMergesWithBuiltins(t *testing.T) {
	p := NewResponsePools()
	before := len(p.Lines(CategoryIdle, TrustLow))

	script := `pools = { idle = { any = { "still with me?" } } }`
	if err := LoadPoolsFromLuaString(p, script); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := len(p.Lines(CategoryIdle, TrustLow))
	if after != before+1 {
		t.Fatalf("expected merge to add 1 line, before=%d after=%d", before, after)
	}
}

func TestLoadPoolsFromLuaRejectsUnknownLevel(t *testing.T) {
	p := NewResponsePools()
	script := `pools = { lore = { legendary = { "nope" } } }`
	if err := LoadPoolsFromLuaString(p, script); err == nil {
		t.Fatal("expected error for unknown trust level")
	}
}

func TestLoadPoolsFromLuaRejectsNonTable(t *testing.T) {
	p := NewResponsePools()
	if err := LoadPoolsFromLuaString(p, `pools = "not a table"`); err == nil {
		t.Fatal("expected error when pools is not a table")
	}
}

func TestLoadPoolsFromLuaBadScript(t *testing.T) {
	p := NewResponsePools()
	if err := LoadPoolsFromLuaString(p, `pools = {`); err == nil {
		t.Fatal("expected syntax error to surface")
	}
}
