package session

import (
	"sync"
	"time"
)

// MemoryStore is an in-process StateStore. Setting Err makes every call
// fail with it.
type MemoryStore struct {
	mu      sync.Mutex
	markers map[Marker]time.Time
	Err     error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{markers: make(map[Marker]time.Time)}
}

func (s *MemoryStore) Stat(m Marker) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return time.Time{}, false, s.Err
	}
	t, ok := s.markers[m]
	return t, ok, nil
}

func (s *MemoryStore) Touch(m Marker, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.markers[m] = at
	return nil
}

func (s *MemoryStore) Remove(m Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.markers, m)
	return nil
}

// MemoryConfigStore is an in-process ConfigStore.
type MemoryConfigStore struct {
	mu  sync.Mutex
	cfg *Config
	Err error
}

func (s *MemoryConfigStore) Load() (*Config, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	if s.cfg == nil {
		return nil, false, nil
	}
	c := *s.cfg
	return &c, true, nil
}

func (s *MemoryConfigStore) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	c := *cfg
	s.cfg = &c
	return nil
}
