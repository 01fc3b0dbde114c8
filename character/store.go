package character

import (
	"context"
	"sort"
	"sync"
)

// Store persists the loaded character of every user. Entries are created or
// replaced by Put and never deleted.
type Store interface {
	Get(ctx context.Context, user string) (Character, error)
	Put(ctx context.Context, user string, c Character) error
	// List returns every stored character ordered by user.
	List(ctx context.Context) ([]Record, error)
}

// Record pairs a stored character with the user it belongs to.
type Record struct {
	User      string
	Character Character
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	characters map[string]Character
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{characters: make(map[string]Character)}
}

// Get returns the character of user or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, user string) (Character, error) {
	if err := ctx.Err(); err != nil {
		return Character{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.characters[user]
	if !ok {
		return Character{}, ErrNotFound
	}
	return c, nil
}

// Put stores c as the character of user, replacing any previous one.
func (s *MemoryStore) Put(ctx context.Context, user string, c Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.characters[user] = c
	return nil
}

// List returns every stored character ordered by user.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.characters))
	for user := range s.characters {
		users = append(users, user)
	}
	sort.Strings(users)

	out := make([]Record, 0, len(users))
	for _, user := range users {
		out = append(out, Record{User: user, Character: s.characters[user]})
	}
	return out, nil
}
