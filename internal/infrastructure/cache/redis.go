// Package cache connects the redis store behind request idempotency.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr string
	DB   int
	// Zero values fall back to DefaultOptions.
	DialTimeout time.Duration
	IOTimeout   time.Duration
	PingTimeout time.Duration
}

func DefaultOptions(addr string, db int) Options {
	return Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 3 * time.Second,
		IOTimeout:   time.Second,
		PingTimeout: 5 * time.Second,
	}
}

// Open returns a client that has answered PING. Callers own Close.
func Open(ctx context.Context, o Options) (*redis.Client, error) {
	def := DefaultOptions(o.Addr, o.DB)
	if o.DialTimeout <= 0 {
		o.DialTimeout = def.DialTimeout
	}
	if o.IOTimeout <= 0 {
		o.IOTimeout = def.IOTimeout
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = def.PingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		DB:           o.DB,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.IOTimeout,
		WriteTimeout: o.IOTimeout,
	})
	pctx, cancel := context.WithTimeout(ctx, o.PingTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", o.Addr, err)
	}
	return client, nil
}
