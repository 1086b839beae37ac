package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "replyflow/internal/adapters/redis"
)

func newTestCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redisad.New(mr.Addr(), "", 0), mr
}

func TestLock_AcquireContendRelease(t *testing.T) {
	cache, _ := newTestCache(t)
	lock := redisad.NewLock(cache.Client())
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "process:r1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	ok, err = lock.Acquire(ctx, "process:r1", time.Minute)
	if err != nil || ok {
		t.Fatalf("second acquire should contend: ok=%v err=%v", ok, err)
	}

	// a different review id is unaffected
	ok, err = lock.Acquire(ctx, "process:r2", time.Minute)
	if err != nil || !ok {
		t.Fatalf("other key acquire: ok=%v err=%v", ok, err)
	}

	if err := lock.Release(ctx, "process:r1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = lock.Acquire(ctx, "process:r1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("reacquire after release: ok=%v err=%v", ok, err)
	}
}

func TestLock_TTLExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	lock := redisad.NewLock(cache.Client())
	ctx := context.Background()

	if ok, _ := lock.Acquire(ctx, "process:r1", time.Second); !ok {
		t.Fatal("acquire failed")
	}
	mr.FastForward(2 * time.Second)

	ok, err := lock.Acquire(ctx, "process:r1", time.Second)
	if err != nil || !ok {
		t.Fatalf("acquire after TTL expiry: ok=%v err=%v", ok, err)
	}
}

func TestCache_SetGetDel(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	type doc struct{ Name string }
	if err := cache.Set(ctx, "k", doc{Name: "x"}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got doc
	ok, err := cache.Get(ctx, "k", &got)
	if err != nil || !ok || got.Name != "x" {
		t.Fatalf("get: ok=%v err=%v got=%+v", ok, err, got)
	}

	if err := cache.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = cache.Get(ctx, "k", &got)
	if ok {
		t.Fatal("expected miss after delete")
	}
}
