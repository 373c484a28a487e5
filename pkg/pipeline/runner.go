package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/floorstack/pkg/adjacency"
	"github.com/matzehuels/floorstack/pkg/cache"
	pkgio "github.com/matzehuels/floorstack/pkg/io"
	"github.com/matzehuels/floorstack/pkg/observability"
	"github.com/matzehuels/floorstack/pkg/resolve"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// Cache stage names reported to observability hooks.
const (
	stageSurvey   = "survey"
	stageResolve  = "resolve"
	stageArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching logic lives in one place.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means DefaultKeyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → resolve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)
	opts.Logger = logger

	// Stage 1: Parse
	parseStart := time.Now()
	b, surveyHash, parseHit, err := r.parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Survey = b
	result.SurveyHash = surveyHash
	result.Stats.ParseTime = time.Since(parseStart)
	result.CacheInfo.ParseHit = parseHit

	logger.Info("parsed survey",
		"format", opts.Format,
		"floors", len(b.Floors),
		"cached", parseHit,
		"duration", result.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Resolve
	resolveStart := time.Now()
	rb, resolvedHash, resolveHit, err := r.resolve(ctx, b, surveyHash, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Building = rb
	result.ResolvedHash = resolvedHash
	result.Graph = adjacency.Build(rb)
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.Counts = rb.Count()
	result.Stats.Diagnostics = len(rb.Diagnostics)
	result.CacheInfo.ResolveHit = resolveHit

	logger.Info("resolved building",
		"rooms", result.Stats.Rooms,
		"doors", result.Stats.Doors,
		"diagnostics", result.Stats.Diagnostics,
		"cached", resolveHit,
		"duration", result.Stats.ResolveTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.render(ctx, rb, resolvedHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo decodes the survey input with caching and reports
// whether the cache was hit.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*survey.Building, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	b, _, hit, err := r.parse(ctx, opts)
	return b, hit, err
}

// Parse is ParseWithCacheInfo without the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*survey.Building, error) {
	b, _, err := r.ParseWithCacheInfo(ctx, opts)
	return b, err
}

func (r *Runner) parse(ctx context.Context, opts Options) (*survey.Building, string, bool, error) {
	cacheKey := r.Keyer.SurveyKey(cache.Hash(opts.Input), opts.Format)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if b, err := pkgio.ReadSurvey(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, stageSurvey)
				return b, cache.Hash(data), true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, stageSurvey)
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Format, len(opts.Input))
	start := time.Now()
	b, err := Parse(opts.Input, opts.Format)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Format, 0, time.Since(start), err)
		return nil, "", false, err
	}
	hooks.OnParseComplete(ctx, opts.Format, len(b.Floors), time.Since(start), nil)

	data, err := marshalSurvey(b)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize survey: %w", err)
	}
	r.store(ctx, stageSurvey, cacheKey, data, cache.TTLSurvey)
	return b, cache.Hash(data), false, nil
}

// ResolveWithCacheInfo resolves a parsed survey with caching and reports
// whether the cache was hit.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, b *survey.Building, opts Options) (*resolve.Building, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForResolve(); err != nil {
		return nil, false, err
	}

	data, err := marshalSurvey(b)
	if err != nil {
		return nil, false, fmt.Errorf("serialize survey for cache key: %w", err)
	}
	rb, _, hit, err := r.resolve(ctx, b, cache.Hash(data), opts)
	return rb, hit, err
}

// Resolve is ResolveWithCacheInfo without the cache hit info.
func (r *Runner) Resolve(ctx context.Context, b *survey.Building, opts Options) (*resolve.Building, error) {
	rb, _, err := r.ResolveWithCacheInfo(ctx, b, opts)
	return rb, err
}

func (r *Runner) resolve(ctx context.Context, b *survey.Building, surveyHash string, opts Options) (*resolve.Building, string, bool, error) {
	cacheKey := r.Keyer.ResolveKey(surveyHash, opts.ResolveKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if rb, err := pkgio.ReadBuilding(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, stageResolve)
				return rb, cache.Hash(data), true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, stageResolve)
	}

	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, len(b.Floors))
	start := time.Now()
	rb, err := resolve.Resolve(b, opts.ResolveOptions())
	if err != nil {
		hooks.OnResolveComplete(ctx, 0, 0, time.Since(start), err)
		return nil, "", false, err
	}
	hooks.OnResolveComplete(ctx, rb.Count().Rooms, len(rb.Diagnostics), time.Since(start), nil)

	data, err := marshalBuilding(rb)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize resolved building: %w", err)
	}
	r.store(ctx, stageResolve, cacheKey, data, cache.TTLResolved)
	return rb, cache.Hash(data), false, nil
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, b *resolve.Building, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	data, err := marshalBuilding(b)
	if err != nil {
		return nil, false, fmt.Errorf("serialize resolved building for cache key: %w", err)
	}
	return r.render(ctx, b, cache.Hash(data), opts)
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, b *resolve.Building, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, b, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, b *resolve.Building, resolvedHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(resolvedHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, stageArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, stageArtifact)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, b, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(resolvedHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, stageArtifact, cacheKey, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// store writes a cache entry. Cache failures never fail the pipeline.
func (r *Runner) store(ctx context.Context, stage, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", stage, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
