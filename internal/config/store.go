package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/abacus/pkg/adapters/file"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/adapters/redis"
	"github.com/aretw0/abacus/pkg/persistence/middleware"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/session"
)

// Sessions bundles the session manager with the resources behind it.
type Sessions struct {
	Manager *session.Manager
	Store   ports.StateStore
	close   func() error
}

// Close releases the store's connections, if any.
func (s *Sessions) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStore builds the configured state store, encrypting it when a key is set.
// The returned close function is never nil.
func (c *Config) OpenStore(ctx context.Context) (ports.StateStore, func() error, error) {
	store, closeFn, err := c.openBackend(ctx)
	if err != nil {
		return nil, closeFn, err
	}
	store, err = c.wrap(store)
	if err != nil {
		_ = closeFn()
		return nil, func() error { return nil }, err
	}
	return store, closeFn, nil
}

func (c *Config) wrap(store ports.StateStore) (ports.StateStore, error) {
	if c.Store.EncryptionKey == "" {
		return store, nil
	}
	key, err := middleware.DecodeKey(c.Store.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: store.encryption_key: %w", ErrInvalidConfig, err)
	}
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		return nil, err
	}
	return encrypt(store), nil
}

func (c *Config) openBackend(ctx context.Context) (ports.StateStore, func() error, error) {
	noop := func() error { return nil }

	switch c.Store.Driver {
	case DriverMemory, "":
		return memory.NewStore(), noop, nil
	case DriverFile:
		return file.New(c.Store.Dir), noop, nil
	case DriverRedis:
		store, err := redis.NewFromURL(c.Store.RedisURL,
			redis.WithPrefix(c.Store.Prefix),
			redis.WithTTL(c.Store.TTL),
		)
		if err != nil {
			return nil, noop, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
}

// OpenSessions opens the store and wraps it in a session manager, adding the
// redis locker when distributed locking is enabled.
func (c *Config) OpenSessions(ctx context.Context, logger *slog.Logger) (*Sessions, error) {
	backend, closeFn, err := c.openBackend(ctx)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(c.Session.LockTTL),
	}
	if rs, ok := backend.(*redis.Store); ok && c.Session.Distributed {
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), rs.Prefix())))
	}

	store, err := c.wrap(backend)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	return &Sessions{
		Manager: session.NewManager(store, opts...),
		Store:   store,
		close:   closeFn,
	}, nil
}
