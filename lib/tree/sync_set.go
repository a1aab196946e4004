package tree

import (
	"sync"
)

// SyncRBSet guards an RBSet with a readers-writer lock.
// Iterators are not exposed, they would escape the lock.
type SyncRBSet[T any] struct {
	lock  sync.RWMutex
	set   RBSet[T]
	stats *syncRBSetStats
}

func (s *SyncRBSet[T]) Insert(key T) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	added := s.set.Insert(key)
	if added {
		s.stats.RecordInsert(1)
	}
	return added
}

func (s *SyncRBSet[T]) InsertMany(keys ...T) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	added := s.set.InsertMany(keys...)
	s.stats.RecordInsert(int64(added))
	return added
}

func (s *SyncRBSet[T]) Remove(key T) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	removed := s.set.Remove(key)
	if removed {
		s.stats.RecordRemove(1)
	}
	return removed
}

func (s *SyncRBSet[T]) RemoveMin() (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	key, ok := s.set.RemoveMin()
	if ok {
		s.stats.RecordRemove(1)
	}
	return key, ok
}

func (s *SyncRBSet[T]) Contains(key T) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.set.Contains(key)
}

// LowerBound returns the first key not less than key.
func (s *SyncRBSet[T]) LowerBound(key T) (res T, ok bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if it := s.set.LowerBound(key); !it.IsEnd() {
		return it.Key(), true
	}
	return
}

func (s *SyncRBSet[T]) Len() int64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.set.Len()
}

func (s *SyncRBSet[T]) Keys() []T {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.set.Keys()
}

// Snapshot returns a deep copy, free to iterate without the lock.
func (s *SyncRBSet[T]) Snapshot() RBSet[T] {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.set.Clone()
}

func (s *SyncRBSet[T]) Release() {
	s.lock.Lock()
	defer s.lock.Unlock()
	n := s.set.Len()
	s.set.Release()
	s.stats.RecordRemove(n)
}

type SyncRBSetOpt[T any] func(*SyncRBSet[T])

// WithSyncRBSetStats records set metrics through the global otel meter provider.
func WithSyncRBSetStats[T any](name string) SyncRBSetOpt[T] {
	return func(s *SyncRBSet[T]) {
		s.stats = newSyncRBSetStats(name)
	}
}

func NewSyncRBSet[T any](set RBSet[T], opts ...SyncRBSetOpt[T]) *SyncRBSet[T] {
	if set == nil {
		panic("[rbset] nil set to guard")
	}
	s := &SyncRBSet[T]{set: set}
	for _, o := range opts {
		o(s)
	}
	if n := set.Len(); n > 0 {
		s.stats.RecordKeyCount(n)
	}
	return s
}
