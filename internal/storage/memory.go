package storage

import "sync"

// MemoryKV is an in-process namespace. FailWrites makes every Set fail
// with that error, which tests use to exercise storage faults.
type MemoryKV struct {
	mu         sync.Mutex
	data       map[string]string
	writes     int
	FailWrites error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

func (s *MemoryKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.data[key] = value
	s.writes++
	return nil
}

func (s *MemoryKV) Close() error {
	return nil
}

// Writes counts successful Set calls.
func (s *MemoryKV) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
