package testutil

import (
	"context"
	"sync"
)

// InMemoryMembershipStore implements membership.Repository with explicit
// setup helpers for tests
type InMemoryMembershipStore struct {
	mu          sync.RWMutex
	members     map[string]struct{}
	assignments map[string]struct{}
}

func NewInMemoryMembershipStore() *InMemoryMembershipStore {
	return &InMemoryMembershipStore{
		members:     make(map[string]struct{}),
		assignments: make(map[string]struct{}),
	}
}

func pairKey(a, b string) string {
	return a + "/" + b
}

// AddMember registers a user as a member of an organization
func (s *InMemoryMembershipStore) AddMember(userID, organizationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[pairKey(userID, organizationID)] = struct{}{}
}

// AssignTemplate grants an organization an active assignment of a template
func (s *InMemoryMembershipStore) AssignTemplate(organizationID, templateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[pairKey(organizationID, templateID)] = struct{}{}
}

func (s *InMemoryMembershipStore) IsMember(ctx context.Context, userID, organizationID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[pairKey(userID, organizationID)]
	return ok, nil
}

func (s *InMemoryMembershipStore) HasActiveAssignment(ctx context.Context, organizationID, templateID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.assignments[pairKey(organizationID, templateID)]
	return ok, nil
}

func (s *InMemoryMembershipStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = make(map[string]struct{})
	s.assignments = make(map[string]struct{})
}
