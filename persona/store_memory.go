package persona

import (
	"fmt"
	"sync"
)

// InMemoryProfileStore is a thread-safe in-memory ProfileStore for testing.
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]map[string]*CompiledPersona // profile_id → version → compiled
	byHash   map[string]*CompiledPersona            // profile_hash → compiled
	latest   map[string]string                      // profile_id → latest version
}

// NewInMemoryProfileStore creates a new in-memory store.
func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{
		profiles: make(map[string]map[string]*CompiledPersona),
		byHash:   make(map[string]*CompiledPersona),
		latest:   make(map[string]string),
	}
}

func (s *InMemoryProfileStore) Save(compiled *CompiledPersona) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[compiled.ProfileID]; !ok {
		s.profiles[compiled.ProfileID] = make(map[string]*CompiledPersona)
	}

	if _, exists := s.profiles[compiled.ProfileID][compiled.Version]; exists {
		return fmt.Errorf("version %s already exists for profile %s", compiled.Version, compiled.ProfileID)
	}

	s.profiles[compiled.ProfileID][compiled.Version] = compiled
	s.byHash[compiled.ProfileHash] = compiled
	s.latest[compiled.ProfileID] = compiled.Version
	return nil
}

func (s *InMemoryProfileStore) Get(profileID string) (*CompiledPersona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.latest[profileID]
	if !ok {
		return nil, fmt.Errorf("profile %s not found", profileID)
	}
	return s.profiles[profileID][version], nil
}

func (s *InMemoryProfileStore) GetVersion(profileID string, version string) (*CompiledPersona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, ok := s.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("profile %s not found", profileID)
	}
	compiled, ok := versions[version]
	if !ok {
		return nil, fmt.Errorf("version %s not found for profile %s", version, profileID)
	}
	return compiled, nil
}

func (s *InMemoryProfileStore) GetByProfileHash(profileHash string) (*CompiledPersona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	compiled, ok := s.byHash[profileHash]
	if !ok {
		return nil, nil // not found is not an error (idempotency check)
	}
	return compiled, nil
}

func (s *InMemoryProfileStore) ListVersions(profileID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, ok := s.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("profile %s not found", profileID)
	}
	result := make([]string, 0, len(versions))
	for v := range versions {
		result = append(result, v)
	}
	return result, nil
}
