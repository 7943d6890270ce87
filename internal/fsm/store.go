package fsm

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// conversationKey scopes state to a single platform user within a single
// chat, so the same person can hold independent flows across chats.
type conversationKey struct {
	Platform string
	ChatID   string
	UserID   string
}

// Session is the persisted shape of a conversation's state + data bag.
type Session struct {
	State State `json:"state"`
	Data  Data  `json:"data"`
}

// Store is satisfied by both the in-memory and TTL-persisted variants.
type Store interface {
	Get(ctx context.Context, platform, chatID, userID string) (Session, bool, error)
	Set(ctx context.Context, platform, chatID, userID string, s Session) error
	Clear(ctx context.Context, platform, chatID, userID string) error
}

// MemoryStore holds conversation state for the lifetime of the process;
// state is lost on restart, matching the spec's in-memory variant.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[conversationKey]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[conversationKey]Session)}
}

func (s *MemoryStore) Get(_ context.Context, platform, chatID, userID string) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[conversationKey{platform, chatID, userID}]
	return sess, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, platform, chatID, userID string, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[conversationKey{platform, chatID, userID}] = sess
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, platform, chatID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, conversationKey{platform, chatID, userID})
	return nil
}

// CacheStore persists conversation state through the shared KV cache
// (spec's "persisted variant" with a configurable TTL, reusing the same
// cache_get/cache_set machinery as the RAG answer cache rather than a
// separate table).
type CacheStore struct {
	cache repository.CacheRepository
	ttl   time.Duration
}

func NewCacheStore(cache repository.CacheRepository, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: cache, ttl: ttl}
}

func (s *CacheStore) key(platform, chatID, userID string) string {
	return "fsm:" + platform + ":" + chatID + ":" + userID
}

func (s *CacheStore) Get(ctx context.Context, platform, chatID, userID string) (Session, bool, error) {
	raw, ok, err := s.cache.Get(ctx, s.key(platform, chatID, userID))
	if err != nil || !ok {
		return Session{}, ok, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false, domain.Unexpected("fsm: decoding session", err)
	}
	return sess, true, nil
}

func (s *CacheStore) Set(ctx context.Context, platform, chatID, userID string, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return domain.Unexpected("fsm: encoding session", err)
	}
	return s.cache.Set(ctx, s.key(platform, chatID, userID), raw, s.ttl)
}

func (s *CacheStore) Clear(ctx context.Context, platform, chatID, userID string) error {
	return s.cache.Invalidate(ctx, s.key(platform, chatID, userID))
}
