package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNewRedisEmptyURL(t *testing.T) {
	client, err := NewRedis(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Fatal("expected nil client")
	}
}

func TestNewRedisAcceptsAddrAndURL(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, url := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		client, err := NewRedis(context.Background(), url)
		if err != nil {
			t.Fatalf("connect %s: %v", url, err)
		}
		client.Close()
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedis(context.Background(), addr); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestDeduperSharedThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	a := NewDeduper(client, time.Minute)
	b := NewDeduper(client, time.Minute)
	ctx := context.Background()

	if first, err := a.First(ctx, "dragon:streak"); err != nil || !first {
		t.Fatalf("expected first sighting, got %v %v", first, err)
	}
	if first, _ := b.First(ctx, "dragon:streak"); first {
		t.Fatal("expected second process to see the key")
	}

	mr.FastForward(2 * time.Minute)
	if first, _ := b.First(ctx, "dragon:streak"); !first {
		t.Fatal("expected key to expire with the window")
	}
}

func TestDeduperLocalWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	d := NewDeduper(nil, 30*time.Second)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	if first, _ := d.First(ctx, "risk:trap"); !first {
		t.Fatal("expected first sighting")
	}
	if first, _ := d.First(ctx, "risk:trap"); first {
		t.Fatal("expected duplicate inside window")
	}
	now = now.Add(31 * time.Second)
	if first, _ := d.First(ctx, "risk:trap"); !first {
		t.Fatal("expected key to expire")
	}
}

func TestDeduperDisabledWindow(t *testing.T) {
	d := NewDeduper(nil, 0)
	for i := 0; i < 2; i++ {
		if first, _ := d.First(context.Background(), "k"); !first {
			t.Fatal("expected every key to pass with no window")
		}
	}
}

func TestDeduperRedisFailureFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	d := NewDeduper(client, time.Minute)
	first, err := d.First(context.Background(), "k")
	if err == nil {
		t.Fatal("expected redis error")
	}
	if !first {
		t.Fatal("expected local window to admit first sighting")
	}
	if again, _ := d.First(context.Background(), "k"); again {
		t.Fatal("expected local window to suppress duplicate")
	}
}
