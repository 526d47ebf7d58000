package notice

import (
	"context"
	"sync"
	"time"
)

type memoryQueue struct {
	messages  []string
	expiresAt time.Time
}

// MemoryStore 进程内实现，单实例部署时使用
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	queues map[string]*memoryQueue
	now    func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		queues: make(map[string]*memoryQueue),
		now:    time.Now,
	}
}

func (s *MemoryStore) Push(_ context.Context, sessionID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	q, ok := s.queues[sessionID]
	if !ok {
		q = &memoryQueue{}
		s.queues[sessionID] = q
	}
	q.messages = append(q.messages, message)
	q.expiresAt = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[sessionID]
	if !ok {
		return nil, nil
	}
	delete(s.queues, sessionID)
	if !s.now().Before(q.expiresAt) {
		return nil, nil
	}
	return q.messages, nil
}

// sweep 清理过期队列，调用方需持有锁
func (s *MemoryStore) sweep(now time.Time) {
	for id, q := range s.queues {
		if !now.Before(q.expiresAt) {
			delete(s.queues, id)
		}
	}
}
