package api

import "sync"

// Sequencer implements last-request-wins supersession for list queries.
//
// A view that re-fetches on every filter change can have several responses
// in flight at once, and without ordering guarantees the slowest one would
// overwrite the freshest. Callers take a Ticket before issuing a request and
// check Latest before applying the response; a response whose ticket has
// been superseded is dropped.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// Ticket identifies one issued request within its logical query.
type Ticket struct {
	query string
	seq   uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Begin registers a new request for the named logical query (e.g.
// "doctors.list") and supersedes all earlier tickets for it.
func (s *Sequencer) Begin(query string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[query]++
	return Ticket{query: query, seq: s.latest[query]}
}

// Latest reports whether t is still the newest request for its query.
func (s *Sequencer) Latest(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[t.query] == t.seq
}
