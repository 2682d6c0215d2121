package idlemonitor

import "sync"

// Profile is the signed-in user's identity as cached by the client.
type Profile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// CredentialStore holds the client-side credentials for a session.
// Implementations must be safe for concurrent use.
type CredentialStore interface {
	Token() string
	SetToken(token string)
	Profile() *Profile
	SetProfile(p *Profile)
	Clear()
}

// MemoryStore is an in-memory CredentialStore.
type MemoryStore struct {
	mu      sync.RWMutex
	token   string
	profile *Profile
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemoryStore) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *MemoryStore) SetProfile(p *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.profile = nil
}

// DualStore layers a tab-scoped store over a persistent one. The token
// lives in the tab-scoped store and the profile in the persistent one,
// matching how a browser front end splits sessionStorage from
// localStorage. Clear wipes both, so a logout never leaves a stale
// profile behind.
type DualStore struct {
	TabScoped  CredentialStore
	Persistent CredentialStore
}

// NewDualStore creates a DualStore over the given backing stores.
func NewDualStore(tabScoped, persistent CredentialStore) *DualStore {
	return &DualStore{TabScoped: tabScoped, Persistent: persistent}
}

func (s *DualStore) Token() string         { return s.TabScoped.Token() }
func (s *DualStore) SetToken(token string) { s.TabScoped.SetToken(token) }
func (s *DualStore) Profile() *Profile     { return s.Persistent.Profile() }
func (s *DualStore) SetProfile(p *Profile) { s.Persistent.SetProfile(p) }

func (s *DualStore) Clear() {
	s.TabScoped.Clear()
	s.Persistent.Clear()
}
