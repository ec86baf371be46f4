package store

import (
	"context"

	"github.com/vijay-prabhu/billsample/internal/bill"
)

// MemoryStore holds bill records in memory, keyed by ID
type MemoryStore struct {
	ids     []string
	records map[string]*bill.Record
}

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]*bill.Record)}
}

// Add stores a record under id. A nil record registers an ID with no
// metadata.
func (s *MemoryStore) Add(id string, r *bill.Record) {
	if _, ok := s.records[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.records[id] = r
}

// Name returns the store identifier
func (s *MemoryStore) Name() string {
	return "memory"
}

// List returns IDs in insertion order
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.ids...), nil
}

// Get returns the record for id, or nil when absent
func (s *MemoryStore) Get(ctx context.Context, id string) (*bill.Record, error) {
	return s.records[id], nil
}
