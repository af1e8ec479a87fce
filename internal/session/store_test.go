package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	store := RedisStore{Client: client, Prefix: "cart:"}

	ctx := context.Background()
	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "abc", []byte(`{"v":1}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := store.Get(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(data) != `{"v":1}` {
		t.Fatalf("unexpected value %q", data)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, "abc"); ok {
		t.Fatal("expected value to expire")
	}

	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("delete absent key: %v", err)
	}
}
