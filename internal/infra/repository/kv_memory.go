package repository

import (
	"context"
	"sync"

	repo "freshmart/internal/repository"
)

// 開発・テスト用のインメモリKV。
// 同一キーへの同時書き込みは後勝ち。
type KVMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKVMemoryStore() *KVMemoryStore {
	return &KVMemoryStore{data: map[string][]byte{}}
}

func (s *KVMemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, repo.ErrNotFound
	}

	// 呼び出し側での書き換えから守るためコピーを返す
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *KVMemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

func (s *KVMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
