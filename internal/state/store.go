package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/marsview/internal/listings"
)

// Status is the outcome of the most recently initiated fetch.
type Status string

const (
	StatusIdle    Status = "" // no fetch started yet
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusDone    Status = "done"
)

// Field identifies which part of the store a Change touched.
type Field int

const (
	FieldStatus Field = iota
	FieldProperties
	FieldSelection
)

func (f Field) String() string {
	switch f {
	case FieldStatus:
		return "status"
	case FieldProperties:
		return "properties"
	case FieldSelection:
		return "selection"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Selection is either empty or holds one property awaiting the detail view.
type Selection struct {
	property listings.Property
	pending  bool
}

// Pending returns the selected property, if any.
func (s Selection) Pending() (listings.Property, bool) {
	return s.property, s.pending
}

// Snapshot represents the latest data available to consumers.
type Snapshot struct {
	Status              Status
	Filter              listings.Filter // filter of the most recently initiated fetch
	Properties          []listings.Property
	Loaded              bool // false until Properties has been written once
	Selection           Selection
	LastError           error
	LastUpdated         time.Time
	Generation          uint64
	ConsecutiveFailures int
}

// IsOffline returns true when the API has failed for multiple fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Change is delivered to subscribers after every write.
type Change struct {
	Field    Field
	Version  uint64
	Snapshot Snapshot
}

// Store holds status, properties, and selection and notifies subscribers of
// every write. The zero value is ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	version  uint64
	subs     map[uint64]func(Change)
	nextSub  uint64
}

// Subscribe registers fn for every subsequent change and returns a function
// that removes it. fn runs on the writing goroutine, after the store lock has
// been released, so it may read from or write to the store.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[uint64]func(Change))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// SetStatus replaces the load status.
func (s *Store) SetStatus(status Status) {
	s.write(func() []Field {
		s.snapshot.Status = status
		s.snapshot.LastUpdated = time.Now()
		return []Field{FieldStatus}
	})
}

// SetProperties replaces the property collection. A nil slice is stored as
// an empty, loaded collection.
func (s *Store) SetProperties(props []listings.Property) {
	s.write(func() []Field {
		s.setPropertiesLocked(props)
		return []Field{FieldProperties}
	})
}

// SetSelection marks p for the detail view, or clears the selection when p is nil.
func (s *Store) SetSelection(p *listings.Property) {
	s.write(func() []Field {
		if p == nil {
			s.snapshot.Selection = Selection{}
		} else {
			s.snapshot.Selection = Selection{property: *p, pending: true}
		}
		return []Field{FieldSelection}
	})
}

// Select marks p for the detail view, overwriting any pending selection.
func (s *Store) Select(p listings.Property) {
	s.SetSelection(&p)
}

// ConsumeSelection takes the pending selection and resets it to empty.
// It is a no-op returning false when nothing is pending.
func (s *Store) ConsumeSelection() (listings.Property, bool) {
	var taken listings.Property
	var ok bool
	s.write(func() []Field {
		taken, ok = s.snapshot.Selection.Pending()
		if !ok {
			return nil
		}
		s.snapshot.Selection = Selection{}
		return []Field{FieldSelection}
	})
	return taken, ok
}

// Begin starts a new fetch generation for filter, publishes StatusLoading,
// and returns the generation token to hand back to Finish.
func (s *Store) Begin(filter listings.Filter) uint64 {
	var token uint64
	s.write(func() []Field {
		s.snapshot.Generation++
		token = s.snapshot.Generation
		s.snapshot.Filter = filter
		s.snapshot.Status = StatusLoading
		s.snapshot.LastUpdated = time.Now()
		return []Field{FieldStatus}
	})
	return token
}

// Finish records the outcome of the fetch identified by token. It reports
// false and changes nothing when a newer fetch has begun since. On success
// the properties are published before StatusDone; on failure StatusError is
// published before the collection is emptied.
func (s *Store) Finish(token uint64, props []listings.Property, err error) bool {
	applied := false
	s.write(func() []Field {
		if token != s.snapshot.Generation {
			return nil
		}
		applied = true
		s.snapshot.LastUpdated = time.Now()

		if err != nil {
			s.snapshot.Status = StatusError
			s.snapshot.LastError = err
			s.snapshot.ConsecutiveFailures++
			s.setPropertiesLocked(nil)
			return []Field{FieldStatus, FieldProperties}
		}

		s.setPropertiesLocked(props)
		s.snapshot.Status = StatusDone
		s.snapshot.LastError = nil
		s.snapshot.ConsecutiveFailures = 0
		return []Field{FieldProperties, FieldStatus}
	})
	return applied
}

// Status returns the current load status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Status
}

// Properties returns a copy of the current collection.
func (s *Store) Properties() []listings.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProperties(s.snapshot.Properties)
}

// Selection returns the current selection without consuming it.
func (s *Store) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Selection
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := s.snapshot
	snap.Properties = cloneProperties(s.snapshot.Properties)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) setPropertiesLocked(props []listings.Property) {
	s.snapshot.Properties = cloneProperties(props)
	if s.snapshot.Properties == nil {
		s.snapshot.Properties = []listings.Property{}
	}
	s.snapshot.Loaded = true
}

// write applies mutate under the lock, then notifies subscribers once per
// field it reports as changed. Each notification gets its own version.
func (s *Store) write(mutate func() []Field) {
	s.mu.Lock()
	fields := mutate()
	if len(fields) == 0 {
		s.mu.Unlock()
		return
	}
	changes := make([]Change, len(fields))
	snap := s.snapshotLocked()
	for i, f := range fields {
		s.version++
		changes[i] = Change{Field: f, Version: s.version, Snapshot: snap}
	}
	subs := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, c := range changes {
		for _, fn := range subs {
			fn(c)
		}
	}
}

func cloneProperties(items []listings.Property) []listings.Property {
	if items == nil {
		return nil
	}
	dup := make([]listings.Property, len(items))
	copy(dup, items)
	return dup
}
