package jonah

import (
	"encoding/json"
	"log"
	"sync"
)

// StateStore is the pluggable persistence backend for per-visitor state.
//
// All data is organized by namespace (an opaque visitor identifier) and key
// (e.g. "trust_score", "conversation_memory"). Values are JSON strings.
type StateStore interface {
	// KV operations
	Get(namespace, key string) (string, error)
	Set(namespace, key, value string) error
	Delete(namespace, key string) error
	ListKeys(namespace string) ([]string, error)

	// List operations (ordered sequences: history windows, used-response FIFOs)
	Append(namespace, key, value string) error
	GetList(namespace, key string, limit, offset int) ([]string, error)
	TrimList(namespace, key string, maxSize int) error
	ClearList(namespace, key string) error
	ListLength(namespace, key string) (int, error)
}

// loadJSON decodes the JSON value at (namespace, key) into v. A missing key
// leaves v untouched and reports false. Read failures and corrupt values are
// logged and reported as absent, so every model degrades to its empty
// default instead of surfacing an error to the visitor.
func loadJSON(s StateStore, namespace, key string, v any) bool {
	raw, err := s.Get(namespace, key)
	if err != nil {
		log.Printf("[Store] read failed, using empty default | ns=%s key=%s err=%v", namespace, key, err)
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.Printf("[Store] corrupt value dropped | ns=%s key=%s err=%v", namespace, key, err)
		return false
	}
	return true
}

// saveJSON persists v as JSON at (namespace, key). Write failures are logged
// and swallowed: the in-memory state stays authoritative for the session.
func saveJSON(s StateStore, namespace, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[Store] marshal failed | ns=%s key=%s err=%v", namespace, key, err)
		return
	}
	if err := s.Set(namespace, key, string(data)); err != nil {
		log.Printf("[Store] write failed | ns=%s key=%s err=%v", namespace, key, err)
	}
}

// visitorRecord holds one visitor's state in memory.
type visitorRecord struct {
	kv    map[string]string
	lists map[string][]string
}

func newVisitorRecord() *visitorRecord {
	return &visitorRecord{
		kv:    make(map[string]string),
		lists: make(map[string][]string),
	}
}

// MemoryStateStore is a thread-safe in-memory StateStore, one record per
// visitor. State is lost on restart; use store.RedisStateStore for
// durability.
type MemoryStateStore struct {
	mu       sync.RWMutex
	visitors map[string]*visitorRecord
}

// NewMemoryStateStore creates a new in-memory store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{visitors: make(map[string]*visitorRecord)}
}

// record returns the visitor's record, or nil if the visitor is unknown.
// Callers must hold at least a read lock.
func (s *MemoryStateStore) record(namespace string) *visitorRecord {
	return s.visitors[namespace]
}

// ensureRecord returns the visitor's record, creating it on first write.
// Callers must hold the write lock.
func (s *MemoryStateStore) ensureRecord(namespace string) *visitorRecord {
	rec := s.visitors[namespace]
	if rec == nil {
		rec = newVisitorRecord()
		s.visitors[namespace] = rec
	}
	return rec
}

func (s *MemoryStateStore) Get(namespace, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec := s.record(namespace); rec != nil {
		return rec.kv[key], nil
	}
	return "", nil
}

func (s *MemoryStateStore) Set(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureRecord(namespace).kv[key] = value
	return nil
}

func (s *MemoryStateStore) Delete(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.record(namespace); rec != nil {
		delete(rec.kv, key)
	}
	return nil
}

func (s *MemoryStateStore) ListKeys(namespace string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.record(namespace)
	if rec == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(rec.kv)+len(rec.lists))
	for k := range rec.kv {
		keys = append(keys, k)
	}
	for k := range rec.lists {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *MemoryStateStore) Append(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ensureRecord(namespace)
	rec.lists[key] = append(rec.lists[key], value)
	return nil
}

func (s *MemoryStateStore) GetList(namespace, key string, limit, offset int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.record(namespace)
	if rec == nil {
		return []string{}, nil
	}
	items := rec.lists[key]
	if offset >= len(items) {
		return []string{}, nil
	}
	if offset > 0 {
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	result := make([]string, len(items))
	copy(result, items)
	return result, nil
}

func (s *MemoryStateStore) TrimList(namespace, key string, maxSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.record(namespace); rec != nil {
		if lst := rec.lists[key]; len(lst) > maxSize {
			rec.lists[key] = lst[len(lst)-maxSize:]
		}
	}
	return nil
}

func (s *MemoryStateStore) ClearList(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.record(namespace); rec != nil {
		delete(rec.lists, key)
	}
	return nil
}

func (s *MemoryStateStore) ListLength(namespace, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec := s.record(namespace); rec != nil {
		return len(rec.lists[key]), nil
	}
	return 0, nil
}
