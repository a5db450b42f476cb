// Package session хранит активные сессии операторов.
// Ключ сессии: auth:session:<jti>, значение: ID сотрудника.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:session:"

var ErrEmptyID = errors.New("session id is empty")

func key(id string) string {
	return keyPrefix + id
}

// Redis сессии в redis с TTL
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Save сохраняет сессию; по истечении ttl redis удаляет её сам
func (s *Redis) Save(ctx context.Context, id, employeeID string, ttl time.Duration) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := s.client.Set(ctx, key(id), employeeID, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Redis) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n == 1, nil
}

func (s *Redis) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Memory сессии в памяти процесса, используется без REDIS_ADDR
type Memory struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *Memory) Save(_ context.Context, id, _ string, ttl time.Duration) error {
	if id == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key(id)] = s.now().Add(ttl)
	return nil
}

func (s *Memory) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expires, ok := s.sessions[key(id)]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expires) {
		delete(s.sessions, key(id))
		return false, nil
	}
	return true, nil
}

func (s *Memory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key(id))
	return nil
}
