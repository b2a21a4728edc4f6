package models

import (
	"context"
	"sort"
	"sync"
	"time"
)

// HistoryStore keeps an append-only, per-subject log of engagement snapshots.
// Snapshots of a subject are returned in append order.
type HistoryStore interface {
	Append(ctx context.Context, subject string, snap Snapshot) error
	List(ctx context.Context, subject string) ([]Snapshot, error)
	Subjects(ctx context.Context) ([]string, error)
	Prune(ctx context.Context, olderThan time.Time) (int, error)
}

type subjectLog struct {
	mu        sync.Mutex
	snapshots []Snapshot
	// detached is set once the log is dropped from the store map
	detached bool
}

// append adds snap unless the log was detached. Oldest snapshots beyond limit
// are dropped.
func (l *subjectLog) append(snap Snapshot, limit int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.detached {
		return false
	}
	l.snapshots = append(l.snapshots, snap)
	if limit > 0 && len(l.snapshots) > limit {
		drop := len(l.snapshots) - limit
		l.snapshots = append([]Snapshot(nil), l.snapshots[drop:]...)
	}
	return true
}

// MemoryHistoryStore is the in-process HistoryStore. The subject map is guarded
// by an RWMutex, each subject's log by its own mutex.
type MemoryHistoryStore struct {
	mu           sync.RWMutex
	data         map[string]*subjectLog
	maxSubjects  int
	maxSnapshots int
}

// NewMemoryHistoryStore creates an empty store. Non-positive limits disable capping.
func NewMemoryHistoryStore(maxSubjects, maxSnapshots int) *MemoryHistoryStore {
	return &MemoryHistoryStore{
		data:         make(map[string]*subjectLog),
		maxSubjects:  maxSubjects,
		maxSnapshots: maxSnapshots,
	}
}

func (s *MemoryHistoryStore) Append(_ context.Context, subject string, snap Snapshot) error {
	for {
		log, err := s.logFor(subject)
		if err != nil {
			return err
		}
		if log.append(snap, s.maxSnapshots) {
			return nil
		}
		// detached by a concurrent Prune or PutData, resolve the subject again
	}
}

// logFor returns the log of subject, creating it when missing.
func (s *MemoryHistoryStore) logFor(subject string) (*subjectLog, error) {
	// Fast path: subject already exists (read lock only)
	s.mu.RLock()
	log, ok := s.data[subject]
	s.mu.RUnlock()
	if ok {
		return log, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok = s.data[subject]; ok {
		return log, nil
	}
	if s.maxSubjects > 0 && len(s.data) >= s.maxSubjects {
		return nil, ErrCapacityExceeded
	}
	log = &subjectLog{}
	s.data[subject] = log
	return log, nil
}

func (s *MemoryHistoryStore) List(_ context.Context, subject string) ([]Snapshot, error) {
	s.mu.RLock()
	log, ok := s.data[subject]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoData
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	out := make([]Snapshot, len(log.snapshots))
	copy(out, log.snapshots)
	return out, nil
}

func (s *MemoryHistoryStore) Subjects(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subjects := make([]string, 0, len(s.data))
	for k := range s.data {
		subjects = append(subjects, k)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// Prune drops snapshots recorded before olderThan. Subjects left without
// snapshots are removed.
func (s *MemoryHistoryStore) Prune(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for subject, log := range s.data {
		log.mu.Lock()
		kept := log.snapshots[:0]
		for _, snap := range log.snapshots {
			if snap.RecordedAt.Before(olderThan) {
				removed++
				continue
			}
			kept = append(kept, snap)
		}
		log.snapshots = kept
		empty := len(kept) == 0
		log.detached = empty
		log.mu.Unlock()
		if empty {
			delete(s.data, subject)
		}
	}
	return removed, nil
}

func (s *MemoryHistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// GetData returns a deep copy of the whole history.
func (s *MemoryHistoryStore) GetData() map[string][]Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copyMap := make(map[string][]Snapshot, len(s.data))
	for k, log := range s.data {
		log.mu.Lock()
		snaps := make([]Snapshot, len(log.snapshots))
		copy(snaps, log.snapshots)
		log.mu.Unlock()
		copyMap[k] = snaps
	}
	return copyMap
}

// PutData replaces the whole history, applying the snapshot cap per subject.
func (s *MemoryHistoryStore) PutData(data map[string][]Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, log := range s.data {
		log.mu.Lock()
		log.detached = true
		log.mu.Unlock()
	}
	s.data = make(map[string]*subjectLog, len(data))
	for k, snaps := range data {
		if len(snaps) == 0 {
			continue
		}
		if s.maxSnapshots > 0 && len(snaps) > s.maxSnapshots {
			snaps = snaps[len(snaps)-s.maxSnapshots:]
		}
		cp := make([]Snapshot, len(snaps))
		copy(cp, snaps)
		s.data[k] = &subjectLog{snapshots: cp}
	}
}
