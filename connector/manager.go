package connector

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Sentience-Framework/sentience-v3-sub001/database"
)

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

// Manager is a registry of providers keyed by driver name.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register makes a provider available under name. Providers register
// themselves from init.
func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Lookup returns the provider registered under name.
func Lookup(name string) (Provider, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[name]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %s not registered", name)
	}
	return provider, nil
}

// Providers lists the registered driver names.
func Providers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	return slices.Sorted(maps.Keys(globalManager.providers))
}

// Connect validates config and opens a connection with its driver's
// provider, retrying with backoff when config.Retry is set.
func Connect(ctx context.Context, config Config, opts ...database.Option) (Connection, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	provider, err := Lookup(config.Driver)
	if err != nil {
		return nil, err
	}

	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	connect := func(ctx context.Context) (Connection, error) {
		return provider.Connect(ctx, config, opts...)
	}

	if config.Retry == nil {
		return connect(ctx)
	}
	conn, err := retryConnect(ctx, *config.Retry, connect)
	if err != nil {
		return nil, fmt.Errorf("failed to connect after %d retries: %w", config.Retry.MaxRetries, err)
	}
	return conn, nil
}
