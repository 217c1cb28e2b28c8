package tasks

import (
	"fmt"
	"sync"
)

// Store owns the task set and id allocation. Every successful mutation
// is saved through the Persister before the call returns.
type Store struct {
	persister Persister
	tasks     map[int]Task
	order     []int // insertion order, used for iteration and export
	nextID    int
	mu        sync.RWMutex
}

// NewStore creates an empty store backed by persister. A nil persister
// keeps the store in memory only.
func NewStore(persister Persister) *Store {
	return &Store{
		persister: persister,
		tasks:     make(map[int]Task),
		nextID:    1,
	}
}

// Open creates a store and loads it from persister. On a load error the
// returned store is empty and usable; the error is for reporting.
func Open(persister Persister) (*Store, error) {
	s := NewStore(persister)
	if persister == nil {
		return s, nil
	}
	loaded, err := persister.Load()
	if err != nil {
		return s, err
	}
	if err := s.replace(loaded); err != nil {
		return NewStore(persister), err
	}
	return s, nil
}

// replace installs loaded tasks and sets next id to max(id)+1.
func (s *Store) replace(loaded []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make(map[int]Task, len(loaded))
	order := make([]int, 0, len(loaded))
	next := 1
	for _, t := range loaded {
		if _, dup := tasks[t.ID]; dup {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		tasks[t.ID] = t
		order = append(order, t.ID)
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	s.tasks = tasks
	s.order = order
	s.nextID = next
	return nil
}

// Add validates fields, assigns a fresh id and inserts the task.
func (s *Store) Add(fields Fields) (int, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.tasks[id] = fields.withID(id)
	s.order = append(s.order, id)
	return id, s.saveLocked()
}

// Update replaces every field of task id except the id itself.
func (s *Store) Update(id int, fields Fields) error {
	fields = fields.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return &NotFoundError{ID: id}
	}
	if err := fields.Validate(); err != nil {
		return err
	}
	s.tasks[id] = fields.withID(id)
	return s.saveLocked()
}

// MarkDone sets the status of task id to Done.
func (s *Store) MarkDone(id int) error {
	s.mu.RLock()
	t, ok := s.tasks[id]
	s.mu.RUnlock()
	if !ok {
		return &NotFoundError{ID: id}
	}
	fields := t.Fields()
	fields.Status = StatusDone
	return s.Update(id, fields)
}

// Delete removes task id immediately.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return s.saveLocked()
}

// Get returns a copy of task id.
func (s *Store) Get(id int) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// All returns copies of every task in insertion order. Callers that need
// a display order use Project.
func (s *Store) All() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Save writes the current task set through the persister.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) snapshotLocked() []Task {
	result := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tasks[id])
	}
	return result
}

// saveLocked runs under the write lock so snapshots reach the
// persister in mutation order.
func (s *Store) saveLocked() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(s.snapshotLocked()); err != nil {
		return &SaveError{Err: err}
	}
	return nil
}
