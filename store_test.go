package jonah

import (
	"testing"
)

func TestMemoryStoreKV(t *testing.T) {
	s := NewMemoryStateStore()

	if v, err := s.Get("v1", "missing"); err != nil || v != "" {
		t.Fatalf("missing key must be (\"\", nil), got (%q, %v)", v, err)
	}

	if err := s.Set("v1", "trust_score", "42"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, err := s.Get("v1", "trust_score")
	if err != nil || v != "42" {
		t.Fatalf("expected 42, got (%q, %v)", v, err)
	}

	// Namespaces are isolated.
	if v, _ := s.Get("v2", "trust_score"); v != "" {
		t.Fatalf("namespace leak: got %q", v)
	}

	if err := s.Delete("v1", "trust_score"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if v, _ := s.Get("v1", "trust_score"); v != "" {
		t.Fatalf("expected empty after delete, got %q", v)
	}
}

func TestMemoryStoreLists(t *testing.T) {
	s := NewMemoryStateStore()

	for _, v := range []string{"a", "b", "c", "d"} {
		if err := s.Append("v1", "used", v); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	all, err := s.GetList("v1", "used", 0, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected 4 items, got %v (%v)", all, err)
	}
	if all[0] != "a" || all[3] != "d" {
		t.Fatalf("order must be append order, got %v", all)
	}

	page, _ := s.GetList("v1", "used", 2, 1)
	if len(page) != 2 || page[0] != "b" || page[1] != "c" {
		t.Fatalf("offset/limit wrong: %v", page)
	}

	if err := s.TrimList("v1", "used", 2); err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	trimmed, _ := s.GetList("v1", "used", 0, 0)
	if len(trimmed) != 2 || trimmed[0] != "c" || trimmed[1] != "d" {
		t.Fatalf("trim must keep the newest, got %v", trimmed)
	}

	n, _ := s.ListLength("v1", "used")
	if n != 2 {
		t.Fatalf("expected length 2, got %d", n)
	}

	if err := s.ClearList("v1", "used"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if n, _ := s.ListLength("v1", "used"); n != 0 {
		t.Fatalf("expected empty after clear, got %d", n)
	}
}

func TestMemoryStoreListKeys(t *testing.T) {
	s := NewMemoryStateStore()
	s.Set("v1", "trust_score", "1")
	s.Append("v1", "used_responses", "line")

	keys, err := s.ListKeys("v1")
	if err != nil {
		t.Fatalf("listkeys failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, k := range keys {
		seen[k] = true
	}
	if !seen["trust_score"] || !seen["used_responses"] {
		t.Fatalf("expected kv and list keys, got %v", keys)
	}
}
