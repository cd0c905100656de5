package attendance

import "sync"

// personLocks hands out one mutex per person so the find -> validate ->
// insert sequence of a check-in (and the symmetric check-out) is mutually
// exclusive per person. The locking domain is always a single person; no
// cross-person lock is ever taken.
type personLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPersonLocks() *personLocks {
	return &personLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *personLocks) get(personID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.locks[personID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[personID] = l
	}
	return l
}
