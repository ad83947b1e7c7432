package api

import (
	"sort"
	"strings"
	"sync"
	"time"

	"weathersnap/models"
)

// SnapshotStore holds the latest raw report per city
type SnapshotStore struct {
	data  map[string]models.RawReport // key is the lower-cased city
	mutex sync.RWMutex
}

// NewSnapshotStore creates a new in-memory report store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]models.RawReport),
	}
}

func storeKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Update stores a freshly fetched report, replacing the previous one
func (s *SnapshotStore) Update(report models.RawReport) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[storeKey(report.City)] = report
}

// RecordError notes a failed refresh. The last good payloads are kept.
func (s *SnapshotStore) RecordError(city string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := storeKey(city)
	report, exists := s.data[key]
	if !exists {
		report = models.RawReport{City: city, Fetched: time.Now()}
	}
	report.LastError = err.Error()
	s.data[key] = report
}

// Get retrieves the report for a city, ignoring case
func (s *SnapshotStore) Get(city string) (models.RawReport, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	report, exists := s.data[storeKey(city)]
	return report, exists
}

// Cities returns the names of all stored cities, sorted
func (s *SnapshotStore) Cities() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cities := make([]string, 0, len(s.data))
	for _, report := range s.data {
		cities = append(cities, report.City)
	}
	sort.Strings(cities)
	return cities
}

// Prune removes reports older than the specified duration
func (s *SnapshotStore) Prune(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	prunedCount := 0

	for key, report := range s.data {
		if report.Fetched.Before(cutoff) {
			delete(s.data, key)
			prunedCount++
		}
	}

	return prunedCount
}
