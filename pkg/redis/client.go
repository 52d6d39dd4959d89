package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPort = "6379"
	pingLimit   = 5 * time.Second
)

var errNoURL = errors.New("redis: REDIS_URL not configured")

var (
	client   *redis.Client
	clientMu sync.RWMutex
)

// Config holds Redis connection configuration.
type Config struct {
	URL      string // redis://[:password@]host[:port][/db], rediss:// for TLS
	Password string // overrides the password embedded in URL
}

// Client returns the shared client, or nil when Redis is not in use.
// Callers treat nil as "single instance": the rate limiter falls back to memory
// and the mail sweep runs without a cross-instance lock.
func Client() *redis.Client {
	clientMu.RLock()
	defer clientMu.RUnlock()
	return client
}

// Initialize connects the shared client. A failed ping leaves Client() nil.
func Initialize(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}

	c := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, pingLimit)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: connection failed: %w", err)
	}

	clientMu.Lock()
	client = c
	clientMu.Unlock()
	return c, nil
}

// options turns the URL form used by managed Redis offerings into client options.
func options(cfg Config) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, errNoURL
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("redis: unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, errors.New("redis: URL has no host")
	}

	port := u.Port()
	if port == "" {
		port = defaultPort
	}

	db := 0
	if p := u.Path; len(p) > 1 {
		db, err = strconv.Atoi(p[1:])
		if err != nil {
			return nil, fmt.Errorf("redis: invalid database %q", p[1:])
		}
	}

	password := cfg.Password
	if password == "" && u.User != nil {
		password, _ = u.User.Password()
	}

	opts := &redis.Options{
		Addr:         net.JoinHostPort(u.Hostname(), port),
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts, nil
}

func Close() error {
	clientMu.Lock()
	defer clientMu.Unlock()
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// HealthCheck pings the shared client.
func HealthCheck(ctx context.Context) error {
	c := Client()
	if c == nil {
		return errors.New("redis: client not initialized")
	}
	return c.Ping(ctx).Err()
}
