// Package session holds the ephemeral web login tokens. Tokens live in
// process memory only; a restart logs everyone out.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Kind separates the three independent token spaces.
type Kind string

const (
	KindOwner Kind = "owner"
	KindHuman Kind = "human"
	KindAIWeb Kind = "aiweb"
)

// TTL matches the cookie max-age; tokens older than this are treated as
// revoked even if the client still presents them.
const TTL = 7 * 24 * time.Hour

// Store issues and validates opaque bearer tokens per kind.
type Store interface {
	Issue(kind Kind, name string) (string, error)
	Lookup(kind Kind, token string) (string, bool)
	Revoke(kind Kind, token string)
}

type entry struct {
	name      string
	createdAt time.Time
}

type memoryStore struct {
	mu     sync.RWMutex
	tables map[Kind]map[string]entry
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore creates the process-wide in-memory session store.
func NewMemoryStore() Store {
	return &memoryStore{
		tables: map[Kind]map[string]entry{
			KindOwner: {},
			KindHuman: {},
			KindAIWeb: {},
		},
		ttl: TTL,
		now: time.Now,
	}
}

func (s *memoryStore) Issue(kind Kind, name string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[kind][token] = entry{name: name, createdAt: s.now()}
	return token, nil
}

func (s *memoryStore) Lookup(kind Kind, token string) (string, bool) {
	if token == "" {
		return "", false
	}

	s.mu.RLock()
	e, ok := s.tables[kind][token]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}

	if s.now().Sub(e.createdAt) > s.ttl {
		s.Revoke(kind, token)
		return "", false
	}
	return e.name, true
}

func (s *memoryStore) Revoke(kind Kind, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables[kind], token)
}
