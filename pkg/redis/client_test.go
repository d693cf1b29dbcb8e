package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.values[key] = toString(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, exists := f.values[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = toString(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeStore) Scan(_ context.Context, _ uint64, pattern string, _ int64) *redis.ScanCmd {
	prefix := pattern[:len(pattern)-1] // trailing *
	var keys []string
	for key := range f.values {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	cmd := redis.NewScanCmd(context.Background(), nil)
	cmd.SetVal(keys, 0)
	return cmd
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func TestCacheKeyNamespacing(t *testing.T) {
	c := &Client{store: newFakeStore()}
	key := c.CacheKey("commerce", "orders", "2024-01-01", "2024-01-31")
	want := "po:cache:commerce:orders:2024-01-01:2024-01-31"
	if key != want {
		t.Fatalf("expected %q, got %q", want, key)
	}
}

func TestInvalidateSourceDropsOnlyThatSource(t *testing.T) {
	store := newFakeStore()
	c := &Client{store: store}
	ctx := context.Background()

	if err := c.Set(ctx, c.CacheKey("picking", "ops", "a"), "1", 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, c.CacheKey("commerce", "orders", "b"), "2", 0); err != nil {
		t.Fatal(err)
	}

	if err := c.InvalidateSource(ctx, "picking"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if _, err := c.Get(ctx, c.CacheKey("picking", "ops", "a")); err == nil {
		t.Fatal("picking entry should be gone")
	}
	if val, err := c.Get(ctx, c.CacheKey("commerce", "orders", "b")); err != nil || val != "2" {
		t.Fatalf("commerce entry should survive, got %q err=%v", val, err)
	}
}

func TestSetNXSecondWriteLoses(t *testing.T) {
	c := &Client{store: newFakeStore()}
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "po:idempotency:a", "first", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first setnx should win: ok=%v err=%v", ok, err)
	}
	ok, err = c.SetNX(ctx, "po:idempotency:a", "second", time.Minute)
	if err != nil || ok {
		t.Fatalf("second setnx should lose: ok=%v err=%v", ok, err)
	}
}
