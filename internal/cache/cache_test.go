// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a client on DB 15. Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, pageKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	client, err := ConnectValkey(context.Background(), envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"), os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestNilPageCache(t *testing.T) {
	var pc *PageCache
	ctx := context.Background()

	pc.Set(ctx, DetailKey("12"), []byte("x"))
	if _, ok := pc.Get(ctx, DetailKey("12")); ok {
		t.Error("nil cache should never hit")
	}
	if n := pc.InvalidateAll(ctx); n != 0 {
		t.Errorf("InvalidateAll on nil cache = %d, want 0", n)
	}
}

func TestPageCacheSetAndGet(t *testing.T) {
	pc := NewPageCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	if data, ok := pc.Get(ctx, "test-page"); ok || data != nil {
		t.Fatal("expected cache miss")
	}

	html := []byte("<html><body>Cat Facts</body></html>")
	pc.Set(ctx, "test-page", html)

	data, ok := pc.Get(ctx, "test-page")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	pc := NewPageCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	keys := []string{DetailKey("1"), DetailKey("cat-facts"), StaticKey("about")}
	for _, k := range keys {
		pc.Set(ctx, k, []byte(k))
	}

	if n := pc.InvalidateAll(ctx); n != len(keys) {
		t.Errorf("InvalidateAll deleted %d, want %d", n, len(keys))
	}
	for _, k := range keys {
		if _, ok := pc.Get(ctx, k); ok {
			t.Errorf("expected miss for %q after InvalidateAll", k)
		}
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{DetailKey("slug:cat-facts"), "api:slug:cat-facts"},
		{DetailKey("id:42"), "api:id:42"},
		{StaticKey("privacy"), "static:privacy"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestNewPageCacheDefaultTTL(t *testing.T) {
	pc := NewPageCache(nil, 0)
	if pc.ttl != DefaultPageTTL {
		t.Errorf("expected DefaultPageTTL (%v), got %v", DefaultPageTTL, pc.ttl)
	}
}
