// Package store holds the uploaded purchase-order snapshot in memory.
package store

import (
	"sync"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
)

// Store keeps the closed POs, open POs, landing rates and the last
// enriched "universal PO" table. It never notifies readers of changes;
// whoever mutates it is expected to clear the analytics caches.
type Store struct {
	mu           sync.RWMutex
	pos          []domain.PurchaseOrder
	openPOs      []domain.PurchaseOrder
	landingRates []domain.LandingRate
	universalPO  []domain.EnrichedPO
}

func New() *Store {
	return &Store{}
}

// POs returns a copy of the closed purchase orders.
func (s *Store) POs() []domain.PurchaseOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.pos)
}

// OpenPOs returns a copy of the open purchase orders.
func (s *Store) OpenPOs() []domain.PurchaseOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.openPOs)
}

// LandingRates returns a copy of the landing-rate reference rows.
func (s *Store) LandingRates() []domain.LandingRate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.landingRates)
}

// UniversalPO returns the last enriched table stored with SetUniversalPO.
func (s *Store) UniversalPO() []domain.EnrichedPO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.universalPO)
}

func (s *Store) AddPO(po domain.PurchaseOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = append(s.pos, po)
}

func (s *Store) AddOpenPO(po domain.PurchaseOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openPOs = append(s.openPOs, po)
}

func (s *Store) ReplacePOs(pos []domain.PurchaseOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = clone(pos)
}

func (s *Store) ReplaceOpenPOs(pos []domain.PurchaseOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openPOs = clone(pos)
}

func (s *Store) ReplaceLandingRates(rates []domain.LandingRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.landingRates = clone(rates)
}

// SetUniversalPO replaces the enriched table.
func (s *Store) SetUniversalPO(rows []domain.EnrichedPO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.universalPO = clone(rows)
}

// Counts reports the size of every collection.
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		POs:          len(s.pos),
		OpenPOs:      len(s.openPOs),
		LandingRates: len(s.landingRates),
		UniversalPO:  len(s.universalPO),
	}
}

// Reset drops every collection.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = nil
	s.openPOs = nil
	s.landingRates = nil
	s.universalPO = nil
}

// Counts is the number of rows held per collection.
type Counts struct {
	POs          int `json:"pos"`
	OpenPOs      int `json:"openPos"`
	LandingRates int `json:"landingRates"`
	UniversalPO  int `json:"universalPo"`
}

func clone[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
