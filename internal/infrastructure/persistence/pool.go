package persistence

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/wwi/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	_ "github.com/microsoft/go-mssqldb"
)

// BranchPool wraps the connection pool of one branch database
type BranchPool struct {
	db      *sql.DB
	desc    Descriptor
	healthy atomic.Bool
}

// DB returns the underlying connection pool
func (p *BranchPool) DB() *sql.DB {
	return p.db
}

// Descriptor returns the branch the pool was built from
func (p *BranchPool) Descriptor() Descriptor {
	return p.desc
}

// Connected reports the pool's status flag. No network call is made; the
// flag is cleared by MarkUnhealthy or Close.
func (p *BranchPool) Connected() bool {
	return p.healthy.Load()
}

// MarkUnhealthy flags the pool for replacement on the next acquisition
func (p *BranchPool) MarkUnhealthy() {
	p.healthy.Store(false)
}

// Close closes all connections and clears the status flag
func (p *BranchPool) Close() error {
	p.healthy.Store(false)
	return p.db.Close()
}

type openFunc func(Descriptor) (*sql.DB, error)

func defaultOpen(desc Descriptor) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", desc.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(desc.MaxOpenConns)
	db.SetMaxIdleConns(desc.MaxIdleConns)
	db.SetConnMaxIdleTime(desc.IdleTimeout)
	return db, nil
}

// PoolManager owns at most one live connection pool per branch. Pools are
// created lazily on first acquisition, reused while their status flag holds,
// replaced when it does not, and closed together on shutdown.
type PoolManager struct {
	registry *Registry
	log      *zap.Logger
	open     openFunc
	group    singleflight.Group

	mu    sync.RWMutex
	pools map[string]*BranchPool

	created atomic.Int64
}

// NewPoolManager creates a pool manager over the given branch registry
func NewPoolManager(registry *Registry, log *zap.Logger) *PoolManager {
	return newPoolManager(registry, log, defaultOpen)
}

func newPoolManager(registry *Registry, log *zap.Logger, open openFunc) *PoolManager {
	return &PoolManager{
		registry: registry,
		log:      log,
		open:     open,
		pools:    make(map[string]*BranchPool),
	}
}

// Acquire returns the live pool for the branch, creating it on first use.
// The identifier is normalized and validated against the registry before any
// network attempt. Concurrent first acquisitions for the same branch
// coalesce into a single connection attempt; acquisitions for different
// branches proceed independently.
func (m *PoolManager) Acquire(ctx context.Context, sucursal string) (*BranchPool, error) {
	desc, err := m.registry.Lookup(sucursal)
	if err != nil {
		return nil, err
	}
	key := desc.Key

	m.mu.RLock()
	pool := m.pools[key]
	m.mu.RUnlock()
	if pool != nil && pool.Connected() {
		return pool, nil
	}

	// The creation attempt is shared by every coalesced caller, so it must
	// not die with whichever request happened to trigger it. The ping inside
	// connect stays bounded by the branch's connect timeout.
	connectCtx := context.WithoutCancel(ctx)
	v, err, _ := m.group.Do(key, func() (any, error) {
		return m.connect(connectCtx, desc)
	})
	if err != nil {
		return nil, err
	}
	return v.(*BranchPool), nil
}

// connect establishes (or replaces) the pool for one branch. Only ever runs
// single-flighted per key.
func (m *PoolManager) connect(ctx context.Context, desc Descriptor) (*BranchPool, error) {
	key := desc.Key

	m.mu.Lock()
	current := m.pools[key]
	if current != nil && current.Connected() {
		// Raced with another acquisition that already reconnected.
		m.mu.Unlock()
		return current, nil
	}
	delete(m.pools, key)
	m.mu.Unlock()

	if current != nil {
		m.log.Info("replacing disconnected pool", zap.String("sucursal", key))
		if cerr := current.Close(); cerr != nil {
			m.log.Warn("error closing disconnected pool",
				zap.String("sucursal", key), zap.Error(cerr))
		}
	}

	db, err := m.open(desc)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeConnectionError,
			"Error conectando a sucursal "+key, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, desc.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, shared.WrapDomainError(shared.CodeConnectionError,
			"Error conectando a sucursal "+key, err)
	}

	pool := &BranchPool{db: db, desc: desc}
	pool.healthy.Store(true)

	m.mu.Lock()
	m.pools[key] = pool
	m.mu.Unlock()
	m.created.Add(1)

	m.log.Info("connection pool created",
		zap.String("sucursal", key),
		zap.String("database", desc.Database),
	)
	return pool, nil
}

// Created returns the number of pools opened since startup
func (m *PoolManager) Created() int64 {
	return m.created.Load()
}

// Live returns the number of pools currently held
func (m *PoolManager) Live() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pools)
}

// CloseAll closes every live pool concurrently and clears the pool table.
// A failing close is logged and does not abort closing the others. Waiting
// is bounded by ctx; pools keep closing in the background past the bound so
// the process can still exit. Subsequent acquisitions recreate pools.
func (m *PoolManager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	pools := m.pools
	m.pools = make(map[string]*BranchPool)
	m.mu.Unlock()

	errCh := make(chan error, len(pools))
	var wg sync.WaitGroup
	for key, pool := range pools {
		wg.Add(1)
		go func(key string, pool *BranchPool) {
			defer wg.Done()
			if err := pool.Close(); err != nil {
				m.log.Error("error closing pool", zap.String("sucursal", key), zap.Error(err))
				errCh <- err
				return
			}
			m.log.Info("pool closed", zap.String("sucursal", key))
		}(key, pool)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.log.Warn("timed out waiting for pools to close", zap.Error(ctx.Err()))
		return ctx.Err()
	}

	close(errCh)
	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
