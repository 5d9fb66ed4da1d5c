package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("empty cache hit")
	}
	val := []byte("v1")
	if err := c.Set(ctx, "k", val, time.Minute); err != nil {
		t.Fatal(err)
	}
	val[0] = 'x'
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("Get = %q %v %v", got, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expired entry returned")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	now = now.Add(1000 * time.Hour)
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Fatalf("zero ttl entry expired")
	}
}

func TestKey(t *testing.T) {
	if Key("a", "b") == Key("ab") {
		t.Errorf("parts must be separated")
	}
	if Key("openai", "script") != Key("openai", "script") {
		t.Errorf("key not stable")
	}
}

func TestNewRedisAddr(t *testing.T) {
	c, err := NewRedis("localhost:6379")
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer c.Close()
	if _, err := NewRedis("http://localhost:6379"); err == nil {
		t.Errorf("expected error for non-redis scheme")
	}
}
