package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrSessionNotFound = errors.New("booking session not found")

const sessionKeyPrefix = "booking:session:"

// SessionStore keeps wizards between requests.
type SessionStore interface {
	Save(ctx context.Context, w *Wizard) error
	Load(ctx context.Context, id string) (*Wizard, error)
	Delete(ctx context.Context, id string) error
}

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, w *Wizard) error {
	b, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+w.ID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Wizard, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var w Wizard
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// MemorySessionStore is a process-local store for single-instance setups
// without redis. Expired sessions are swept on Save at most once per TTL.
type MemorySessionStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	sessions  map[string]memorySession
	lastSweep time.Time
	now       func() time.Time
}

type memorySession struct {
	data    []byte
	expires time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, sessions: make(map[string]memorySession), now: time.Now}
}

func (s *MemorySessionStore) Save(_ context.Context, w *Wizard) error {
	b, err := json.Marshal(w)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.sessions[w.ID] = memorySession{data: b, expires: now.Add(s.ttl)}
	return nil
}

// sweep drops expired sessions; s.mu must be held.
func (s *MemorySessionStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.After(sess.expires) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemorySessionStore) Load(_ context.Context, id string) (*Wizard, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok && s.ttl > 0 && s.now().After(sess.expires) {
		delete(s.sessions, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var w Wizard
	if err := json.Unmarshal(sess.data, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
