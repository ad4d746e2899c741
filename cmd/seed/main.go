// Package main implements a standalone seed tool that writes the demo
// catalog into Redis for use with PROVIDER_MODE=redis.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shopkit/storefront/internal/provider/fixture"
	redisprovider "github.com/shopkit/storefront/internal/provider/redis"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	addr := getEnv("REDIS_ADDR", "localhost:6379")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("connect to redis at %s: %v", addr, err)
	}

	items, err := fixture.New(0).FetchAll(ctx)
	if err != nil {
		log.Fatalf("build demo catalog: %v", err)
	}

	if err := redisprovider.NewProvider(rdb).Seed(ctx, items); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	log.Printf("seeded %d products into redis at %s", len(items), addr)
}
