package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"celltrack-api/internal/cache"
	"celltrack-api/internal/config"
	"celltrack-api/internal/metrics"
	"celltrack-api/internal/models"
	"celltrack-api/internal/opencellid"
	"celltrack-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TowerStore is the durable tower tier.
type TowerStore interface {
	GetTower(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error)
	UpsertTower(ctx context.Context, tower models.TowerLocation) error
}

// TowerCache is the shared fast tier.
type TowerCache interface {
	GetTower(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error)
	SetTower(ctx context.Context, tower models.TowerLocation, ttl time.Duration) error
}

// CellLookup queries an external tower database.
type CellLookup interface {
	Lookup(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, error)
}

// StaticTowers is the last-resort table.
type StaticTowers interface {
	Get(id models.TowerIdentity) (models.TowerLocation, bool)
}

const (
	DefaultTowerCacheTTL       = 24 * time.Hour
	DefaultResolverConcurrency = 8
)

// ResolverConfig wires the tiers of a TowerResolver. Nil tiers are skipped.
type ResolverConfig struct {
	Memory  *MemoryCache
	Cache   TowerCache
	Store   TowerStore
	Lookup  CellLookup
	Static  StaticTowers
	Metrics *metrics.Collector
	Logger  zerolog.Logger

	CacheTTL      time.Duration
	LookupTimeout time.Duration
	Concurrency   int
}

// TowerResolver maps tower identities to locations through memory, fast cache, store,
// external lookup and static table, in that order. Hits are written back to the faster tiers.
type TowerResolver struct {
	memory   *MemoryCache
	cache    TowerCache
	store    TowerStore
	lookup   CellLookup
	static   StaticTowers
	metrics  *metrics.Collector
	logger   zerolog.Logger
	validate *validator.Validate

	cacheTTL      time.Duration
	lookupTimeout time.Duration
	concurrency   int
}

func NewTowerResolver(cfg ResolverConfig) *TowerResolver {
	if cfg.Memory == nil {
		cfg.Memory = NewMemoryCache()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultTowerCacheTTL
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultResolverConcurrency
	}
	lookup := cfg.Lookup
	if e, ok := lookup.(interface{ Enabled() bool }); ok && !e.Enabled() {
		lookup = nil
	}
	return &TowerResolver{
		memory:        cfg.Memory,
		cache:         cfg.Cache,
		store:         cfg.Store,
		lookup:        lookup,
		static:        cfg.Static,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		validate:      validator.New(),
		cacheTTL:      cfg.CacheTTL,
		lookupTimeout: config.ClampLookupTimeout(cfg.LookupTimeout),
		concurrency:   cfg.Concurrency,
	}
}

// Resolve returns the location of id, or false when no tier knows it. Tier faults count as misses.
func (r *TowerResolver) Resolve(ctx context.Context, id models.TowerIdentity) (*models.TowerLocation, bool) {
	if err := r.validate.Struct(id); err != nil {
		r.logger.Warn().Err(err).Str("tower", id.String()).Msg("rejecting malformed tower identity")
		r.metrics.ObserveResolution(metrics.TierUnresolved)
		return nil, false
	}

	if loc, ok := r.memory.Get(id); ok {
		r.metrics.ObserveResolution(metrics.TierMemory)
		loc = loc.WithSource(models.SourceMemory)
		return &loc, true
	}

	if loc := r.fromCache(ctx, id); loc != nil {
		r.memory.Put(*loc)
		return r.hit(metrics.TierFastCache, loc)
	}

	if loc := r.fromStore(ctx, id); loc != nil {
		r.memory.Put(*loc)
		r.writeCache(ctx, *loc)
		return r.hit(metrics.TierStore, loc)
	}

	if loc := r.fromLookup(ctx, id); loc != nil {
		r.memory.Put(*loc)
		r.writeCache(ctx, *loc)
		r.writeStore(ctx, *loc)
		return r.hit(metrics.TierExternal, loc)
	}

	if r.static != nil {
		if loc, ok := r.static.Get(id); ok {
			loc.Origin = models.OriginStaticFallback
			loc.UpdatedAt = time.Now().UTC()
			r.writeStore(ctx, loc)
			loc = loc.WithSource(models.SourceStaticFallback)
			return r.hit(metrics.TierStatic, &loc)
		}
	}

	r.logger.Debug().Str("tower", id.String()).Msg("tower unresolved")
	r.metrics.ObserveResolution(metrics.TierUnresolved)
	return nil, false
}

// ResolveTowers resolves the distinct identities in ids concurrently. Unresolved identities are absent from the result.
func (r *TowerResolver) ResolveTowers(ctx context.Context, ids []models.TowerIdentity) map[models.TowerIdentity]models.TowerLocation {
	result := make(map[models.TowerIdentity]models.TowerLocation, len(ids))
	if len(ids) == 0 {
		return result
	}

	seen := make(map[models.TowerIdentity]struct{}, len(ids))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		g.Go(func() error {
			loc, ok := r.Resolve(ctx, id)
			if !ok {
				return nil
			}
			mu.Lock()
			result[id] = *loc
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func (r *TowerResolver) hit(tier string, loc *models.TowerLocation) (*models.TowerLocation, bool) {
	r.metrics.ObserveResolution(tier)
	return loc, true
}

func (r *TowerResolver) fromCache(ctx context.Context, id models.TowerIdentity) *models.TowerLocation {
	if r.cache == nil {
		return nil
	}
	loc, err := r.cache.GetTower(ctx, id)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			r.fault(metrics.TierFastCache, id, err)
		}
		return nil
	}
	l := loc.WithSource(models.SourceFastCache)
	return &l
}

func (r *TowerResolver) fromStore(ctx context.Context, id models.TowerIdentity) *models.TowerLocation {
	if r.store == nil {
		return nil
	}
	loc, err := r.store.GetTower(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			r.fault(metrics.TierStore, id, err)
		}
		return nil
	}
	l := loc.WithSource(models.SourcePersistentStore)
	return &l
}

func (r *TowerResolver) fromLookup(ctx context.Context, id models.TowerIdentity) *models.TowerLocation {
	if r.lookup == nil {
		return nil
	}
	lctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	loc, err := r.lookup.Lookup(lctx, id)
	if err != nil {
		if !errors.Is(err, opencellid.ErrNotFound) {
			r.fault(metrics.TierExternal, id, err)
		}
		return nil
	}
	l := loc.WithSource(models.SourceExternalService)
	l.Identity = id
	l.Origin = models.OriginExternalService
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = time.Now().UTC()
	}
	return &l
}

func (r *TowerResolver) writeCache(ctx context.Context, loc models.TowerLocation) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetTower(ctx, loc, r.cacheTTL); err != nil {
		r.fault(metrics.TierFastCache, loc.Identity, err)
	}
}

func (r *TowerResolver) writeStore(ctx context.Context, loc models.TowerLocation) {
	if r.store == nil {
		return
	}
	if err := r.store.UpsertTower(ctx, loc); err != nil {
		r.fault(metrics.TierStore, loc.Identity, err)
	}
}

func (r *TowerResolver) fault(tier string, id models.TowerIdentity, err error) {
	r.metrics.ObserveTierError(tier)
	r.logger.Warn().Err(err).Str("tier", tier).Str("tower", id.String()).Msg("tower tier fault, treating as miss")
}
