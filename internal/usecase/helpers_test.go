package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	repo "freshmart/internal/repository"
)

// テスト用の固定時計
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// テスト用の連番ID
type seqIDGen struct {
	n int
}

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("id-%04d", g.n)
}

// 書き込みを落とせるKVラッパー
type flakyKV struct {
	inner    repo.KV
	failPuts bool
}

var errKVDown = errors.New("kv down")

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	return f.inner.Get(ctx, key)
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failPuts {
		return errKVDown
	}
	return f.inner.Put(ctx, key, value)
}

func (f *flakyKV) Delete(ctx context.Context, key string) error {
	if f.failPuts {
		return errKVDown
	}
	return f.inner.Delete(ctx, key)
}
