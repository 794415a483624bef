// Package cache keeps prepared statements around between executions.
package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Sentience-Framework/sentience-v3-sub001/utils"
)

// DefaultSize is the number of statements kept when no size is configured.
const DefaultSize = 128

// Preparer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type entry struct {
	query string
	stmt  *sql.Stmt
}

// StatementCache is an LRU of prepared statements keyed by the SQL text.
// Evicted statements are closed.
type StatementCache struct {
	cache *lru.Cache[uint64, entry]
	mu    sync.Mutex
}

func NewStatementCache(size int) (*StatementCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.NewWithEvict(size, func(_ uint64, e entry) {
		_ = e.stmt.Close()
	})
	if err != nil {
		return nil, err
	}
	return &StatementCache{cache: cache}, nil
}

// GetOrPrepare returns the cached statement for query, preparing it on p
// when absent.
func (s *StatementCache) GetOrPrepare(ctx context.Context, p Preparer, query string) (*sql.Stmt, error) {
	key := utils.FingerprintString(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache.Get(key); ok {
		if e.query == query {
			return e.stmt, nil
		}
		// Hash collision: the newer statement takes the slot.
		s.cache.Remove(key)
	}

	stmt, err := p.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, entry{query: query, stmt: stmt})
	return stmt, nil
}

func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Close closes every cached statement.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	return nil
}
