// Package syncer refreshes the cached description of provider apps.
//
// A sync run resolves its targets, then for each app fetches the read-only
// lookups (info, meta, parameters, site) and caches them as one Snapshot.
// Each app is synced under a lock so overlapping runs do not duplicate work.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quocvuong92/ai-apps/internal/api"
	"github.com/quocvuong92/ai-apps/internal/constants"
	"github.com/quocvuong92/ai-apps/internal/lock"
	"github.com/quocvuong92/ai-apps/internal/logging"
	"github.com/quocvuong92/ai-apps/internal/provider"
	"github.com/quocvuong92/ai-apps/internal/request"
)

// DispatcherFactory builds an unbound dispatcher. Each target gets its own.
type DispatcherFactory func() *api.Dispatcher

// Snapshot is the last successfully fetched description of one app
type Snapshot struct {
	ConfigID   string
	ConfigName string
	// Sections maps a lookup name ("info", "meta", ...) to its decoded body
	Sections  map[string]map[string]any
	FetchedAt time.Time
}

// Result is the outcome of syncing one app
type Result struct {
	ConfigID   string
	ConfigName string
	Snapshot   *Snapshot
	// Skipped is set when another run held the app's lock
	Skipped bool
	Err     error
	Elapsed time.Duration
}

// Option configures a Syncer
type Option func(*Syncer)

// WithCacheTTL sets how long snapshots stay cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Syncer) { s.ttl = ttl }
}

// WithLockTTL sets the upper bound on one app's sync
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Syncer) { s.lockTTL = ttl }
}

// WithRetryPolicy overrides the retry policy used per lookup
func WithRetryPolicy(p api.RetryPolicy) Option {
	return func(s *Syncer) { s.retry = p }
}

// Syncer runs sync passes
type Syncer struct {
	resolver      *provider.Resolver
	newDispatcher DispatcherFactory
	logger        *logging.Logger

	ttl     time.Duration
	lockTTL time.Duration
	retry   api.RetryPolicy
}

// New creates a syncer
func New(resolver *provider.Resolver, factory DispatcherFactory, logger *logging.Logger, opts ...Option) *Syncer {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Syncer{
		resolver:      resolver,
		newDispatcher: factory,
		logger:        logger,
		ttl:           constants.DefaultCacheTTL,
		lockTTL:       constants.DefaultLockTTL,
		retry:         api.DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LockKey is the lock held while syncing the app with id
func LockKey(id string) string {
	return "sync:" + id
}

// CacheKey is the cache entry holding the app's snapshot
func CacheKey(id string) string {
	return "snapshot:" + id
}

// Sync syncs the app with id, or every active app when id is empty.
// Per-app failures are reported in the results; the returned error is only
// set when the targets could not be resolved.
func (s *Syncer) Sync(ctx context.Context, id string) ([]Result, error) {
	targets, err := s.resolver.ResolveSyncTargets(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		s.logger.Info("nothing to sync", logging.Fields{"id": id})
	}

	results := make([]Result, 0, len(targets))
	for _, cfg := range targets {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{ConfigID: cfg.ID(), ConfigName: cfg.Name, Err: err})
			continue
		}
		results = append(results, s.syncOne(ctx, cfg))
	}
	return results, nil
}

func (s *Syncer) syncOne(ctx context.Context, cfg *provider.Config) Result {
	start := time.Now()
	res := Result{ConfigID: cfg.ID(), ConfigName: cfg.Name}
	log := s.logger.WithFields(logging.Fields{"app": cfg.Name, "id": cfg.ID()})

	snap, err := s.fetch(ctx, cfg, log)
	res.Elapsed = time.Since(start)
	switch {
	case errors.Is(err, lock.ErrNotAcquired):
		res.Skipped = true
		res.Err = err
		log.Info("sync already running, skipped")
	case err != nil:
		res.Err = err
		log.Error("sync failed", err)
	default:
		res.Snapshot = snap
		log.Info("app synced", logging.Fields{"duration_ms": res.Elapsed.Milliseconds()})
	}
	return res
}

func (s *Syncer) fetch(ctx context.Context, cfg *provider.Config, log *logging.Logger) (*Snapshot, error) {
	d := s.newDispatcher()
	if err := d.Bind(cfg); err != nil {
		return nil, err
	}

	locks, err := d.LockFactory()
	if err != nil {
		return nil, err
	}
	cache, err := d.Cache()
	if err != nil {
		return nil, err
	}

	held, err := locks.Acquire(ctx, LockKey(cfg.ID()), s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := held.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to release sync lock", logging.Fields{"error": err.Error()})
		}
	}()

	snap := &Snapshot{
		ConfigID:   cfg.ID(),
		ConfigName: cfg.Name,
		Sections:   make(map[string]map[string]any),
	}
	for _, name := range request.Names() {
		desc, _ := request.ByName(name)
		resp, err := api.WithRetryPolicy(ctx, s.retry, func() (*api.Response, error) {
			return d.Send(ctx, desc)
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", name, err)
		}
		body, err := resp.BodyAsStructured()
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", name, err)
		}
		snap.Sections[name] = body
	}
	snap.FetchedAt = time.Now().UTC()

	cache.Set(CacheKey(cfg.ID()), snap, s.ttl)
	return snap, nil
}

// Snapshot returns the cached snapshot for id, or nil if none is cached
func (s *Syncer) Snapshot(id string) (*Snapshot, error) {
	cache, err := s.newDispatcher().Cache()
	if err != nil {
		return nil, err
	}
	v, ok := cache.Get(CacheKey(id))
	if !ok {
		return nil, nil
	}
	snap, _ := v.(*Snapshot)
	return snap, nil
}

// Summary counts results by outcome
func Summary(results []Result) (synced, skipped, failed int) {
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.Err != nil:
			failed++
		default:
			synced++
		}
	}
	return synced, skipped, failed
}
