package service

import "sync"

// doctorLocks serializes writers per doctor within this process. An entry
// lives only while someone holds or waits for it.
type doctorLocks struct {
	mu    sync.Mutex
	locks map[string]*doctorLock
}

type doctorLock struct {
	mu   sync.Mutex
	refs int
}

func newDoctorLocks() *doctorLocks {
	return &doctorLocks{locks: make(map[string]*doctorLock)}
}

// Lock blocks until the doctor's lock is held and returns its release func.
func (d *doctorLocks) Lock(doctorID string) func() {
	d.mu.Lock()
	l, ok := d.locks[doctorID]
	if !ok {
		l = &doctorLock{}
		d.locks[doctorID] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, doctorID)
		}
		d.mu.Unlock()
	}
}

func (d *doctorLocks) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.locks)
}
