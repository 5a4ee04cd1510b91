package decision

import (
	"sync"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// record pairs a decision with its own mutex. Every mutation of a decision
// happens under record.mu, so concurrent submissions against the same
// decision ID serialize while different decisions proceed in parallel.
type record struct {
	mu sync.Mutex
	d  *models.Decision
	// finalized flips once, under mu, when the record moves to completed
	// storage. Operations re-check it after acquiring mu because the
	// record may have been finalized between lookup and lock.
	finalized bool
}

// Store holds all decision records for one engine instance: an active map
// and a completed list. Moving a record from active to completed is one-way;
// completed decisions are read-only afterward. Construct one Store per
// engine and inject it; there is no package-level instance.
type Store struct {
	mu        sync.RWMutex
	active    map[string]*record
	completed []*models.Decision
	byID      map[string]*models.Decision // completed, indexed for lookup
}

// NewStore returns an empty decision store.
func NewStore() *Store {
	return &Store{
		active: make(map[string]*record),
		byID:   make(map[string]*models.Decision),
	}
}

// insert registers a new active decision. It returns false when the ID is
// already taken by an active or completed decision.
func (s *Store) insert(d *models.Decision) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[d.DecisionID]; ok {
		return false
	}
	if _, ok := s.byID[d.DecisionID]; ok {
		return false
	}
	s.active[d.DecisionID] = &record{d: d}
	return true
}

// lookup returns the active record for the ID, if any.
func (s *Store) lookup(id string) (*record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.active[id]
	return rec, ok
}

// complete moves a record out of the active map and appends its decision to
// the completed list. The caller must hold rec.mu and have set rec.finalized.
func (s *Store) complete(rec *record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, rec.d.DecisionID)
	s.completed = append(s.completed, rec.d)
	s.byID[rec.d.DecisionID] = rec.d
}

// lookupCompleted returns the completed decision for the ID, if any.
func (s *Store) lookupCompleted(id string) (*models.Decision, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	return d, ok
}

// ActiveIDs returns the IDs of all in-flight decisions.
func (s *Store) ActiveIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.active))
	for id := range s.active {
		ids = append(ids, id)
	}
	return ids
}

// CompletedCount returns how many decisions have been finalized.
func (s *Store) CompletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.completed)
}

// CompletedSnapshots returns deep copies of every finalized decision, in
// finalize order.
func (s *Store) CompletedSnapshots() []*models.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Decision, len(s.completed))
	for i, d := range s.completed {
		out[i] = d.Clone()
	}
	return out
}
