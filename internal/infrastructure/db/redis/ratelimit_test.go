package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestRateLimiter_Key(t *testing.T) {
	l := &RateLimiter{window: time.Hour}
	at := time.Date(2026, 3, 1, 12, 34, 56, 0, time.UTC)

	got := l.key("10.0.0.1", at)
	want := fmt.Sprintf("ratelimit:10.0.0.1:%d", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix())
	if got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	if l.key("10.0.0.1", at.Add(time.Hour)) == got {
		t.Fatal("next window must use a different key")
	}
}

func TestRateLimiterIntegration(t *testing.T) {
	if os.Getenv("RUN_REDIS_INTEGRATION") != "true" {
		t.Skip("set RUN_REDIS_INTEGRATION=true to run this integration test")
	}
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	l := NewRateLimiter(client, 2, time.Minute)
	key := fmt.Sprintf("test-%d", time.Now().UnixNano())

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, key)
		if err != nil || !ok {
			t.Fatalf("request %d: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := l.Allow(ctx, key)
	if err != nil {
		t.Fatalf("third request: %v", err)
	}
	if ok {
		t.Fatal("third request must be limited")
	}
}
