package cache

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects to the server named by url, which may be a redis:// URL
// or a bare host:port. An empty url yields a nil client.
func NewRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		log.Println("REDIS_URL not set, alert de-duplication stays in process")
		return nil, nil
	}
	opts := &redis.Options{Addr: url}
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	log.Println("Connected to Redis")
	return client, nil
}

const dedupePrefix = "signal-desk:alert:"

// Deduper remembers keys for a window so that the same alert raised by
// several sessions is forwarded once. With a Redis client the window is
// shared between processes; otherwise it is local to this one.
type Deduper struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewDeduper(client *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{client: client, ttl: ttl, now: time.Now, seen: make(map[string]time.Time)}
}

// First reports whether key has not been seen within the window, and marks it
// seen. Redis failures fall back to the local window.
func (d *Deduper) First(ctx context.Context, key string) (bool, error) {
	if d.ttl <= 0 {
		return true, nil
	}
	if d.client != nil {
		ok, err := d.client.SetNX(ctx, dedupePrefix+key, 1, d.ttl).Result()
		if err == nil {
			return ok, nil
		}
		first, _ := d.firstLocal(key)
		return first, fmt.Errorf("redis setnx: %w", err)
	}
	return d.firstLocal(key)
}

func (d *Deduper) firstLocal(key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, exp := range d.seen {
		if !now.Before(exp) {
			delete(d.seen, k)
		}
	}
	if _, ok := d.seen[key]; ok {
		return false, nil
	}
	d.seen[key] = now.Add(d.ttl)
	return true, nil
}
