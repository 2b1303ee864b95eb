package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/objectgraph/pkg/cache"
	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/model"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
	"github.com/matzehuels/objectgraph/pkg/objgraph/transform"
	"github.com/matzehuels/objectgraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
		TTL:    DefaultTTL,
	}
}

// cachedGraph is the cache entry of the transform stage.
type cachedGraph struct {
	Doc    model.Document   `msgpack:"doc"`
	Report transform.Report `msgpack:"report"`
}

// Execute runs the complete create → transform → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, f objgraph.Factory, opts Options) (*Result, error) {
	runID := uuid.NewString()
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.Logger = opts.Logger.With("run", runID[:8])
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{RunID: runID}

	// Stage 1: Create
	createStart := time.Now()
	observability.Pipeline().OnCreateStart(ctx, runID)
	g, err := r.Create(ctx, f)
	result.Stats.CreateTime = time.Since(createStart)
	if err != nil {
		observability.Pipeline().OnCreateComplete(ctx, runID, 0, 0, result.Stats.CreateTime, err)
		return nil, err
	}
	observability.Pipeline().OnCreateComplete(ctx, runID, g.ObjectCount(), g.RelationCount(), result.Stats.CreateTime, nil)
	result.Stats.RelationsBefore = g.RelationCount()

	logger.Info("created object graph",
		"objects", g.ObjectCount(),
		"relations", g.RelationCount(),
		"duration", result.Stats.CreateTime)

	// Stage 2: Transform
	transformStart := time.Now()
	observability.Pipeline().OnTransformStart(ctx, runID, g.RelationCount())
	out, report, hit, err := r.TransformWithCacheInfo(ctx, g, opts)
	result.Stats.TransformTime = time.Since(transformStart)
	if err != nil {
		observability.Pipeline().OnTransformComplete(ctx, runID, 0, result.Stats.TransformTime, err)
		return nil, err
	}
	observability.Pipeline().OnTransformComplete(ctx, runID, out.RelationCount(), result.Stats.TransformTime, nil)
	result.Graph = out
	result.Report = report
	result.CacheInfo.TransformHit = hit
	result.Stats.Objects = out.ObjectCount()
	result.Stats.Packages = len(out.Packages())
	result.Stats.RelationsAfter = out.RelationCount()

	logger.Info("transformed object graph",
		"relations", out.RelationCount(),
		"same_direction_merged", report.SameDirectionMerged,
		"bidirectional_merged", report.BidirectionalMerged,
		"cached", hit,
		"duration", result.Stats.TransformTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, runID, opts.Formats)
	graphHash, artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, out, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, runID, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.GraphHash = graphHash
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Create builds a graph from f and checks its consistency. A graph that
// fails validation is a contract violation by the factory.
func (r *Runner) Create(ctx context.Context, f objgraph.Factory) (*objgraph.ObjectGraph, error) {
	g, err := objgraph.Create(ctx, f)
	if err != nil {
		return nil, classify(err, errors.ErrCodeInvalidSource, "create graph")
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeContractViolation, err, "factory produced an inconsistent graph")
	}
	return g, nil
}

// TransformWithCacheInfo applies the transforms selected by opts with
// caching and returns cache hit info.
func (r *Runner) TransformWithCacheInfo(ctx context.Context, g *objgraph.ObjectGraph, opts Options) (*objgraph.ObjectGraph, transform.Report, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, transform.Report{}, false, err
	}

	inputHash, err := hashGraph(g)
	if err != nil {
		return nil, transform.Report{}, false, errors.Wrap(errors.ErrCodeInternal, err, "hash input graph")
	}
	cacheKey := r.Keyer.GraphKey(inputHash, opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var entry cachedGraph
			if err := msgpack.Unmarshal(data, &entry); err == nil {
				if out, err := entry.Doc.ToGraph(); err == nil {
					observability.Cache().OnCacheHit(ctx, "graph")
					return out, entry.Report, true, nil
				}
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	t, merger := opts.Transformer()
	out, err := g.Transform(t)
	if err != nil {
		return nil, transform.Report{}, false, classify(err, errors.ErrCodeInternal, "transform graph")
	}
	var report transform.Report
	if merger != nil {
		report = merger.Report()
	}

	if data, err := msgpack.Marshal(cachedGraph{Doc: model.FromGraph(out), Report: report}); err == nil {
		r.store(ctx, "graph", cacheKey, data)
	}

	return out, report, false, nil
}

// Transform is a convenience wrapper that calls TransformWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Transform(ctx context.Context, g *objgraph.ObjectGraph, opts Options) (*objgraph.ObjectGraph, transform.Report, error) {
	out, report, _, err := r.TransformWithCacheInfo(ctx, g, opts)
	return out, report, err
}

// RenderWithCacheInfo generates artifacts with caching and returns the
// graph hash and cache hit info. Artifacts are served from cache only when
// every requested format is cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *objgraph.ObjectGraph, opts Options) (string, map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", nil, false, err
	}

	graphHash, err := hashGraph(g)
	if err != nil {
		return "", nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return graphHash, artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	artifacts, err := Render(ctx, g, opts)
	if err != nil {
		return "", nil, false, err
	}
	for format, data := range artifacts {
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format)), data)
	}
	return graphHash, artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes to the cache. Cache failures never fail a run.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// hashGraph returns the content hash of the msgpack encoding of g.
func hashGraph(g *objgraph.ObjectGraph) (string, error) {
	data, err := msgpack.Marshal(model.FromGraph(g))
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// classify attaches an error code to err unless it already carries one.
// Graph consistency errors are contract violations; cancellation is a
// timeout.
func classify(err error, fallback errors.Code, msg string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	switch {
	case stderrors.Is(err, objgraph.ErrUnknownEndpoint),
		stderrors.Is(err, objgraph.ErrDuplicateObjectID),
		stderrors.Is(err, objgraph.ErrInvalidObjectID),
		stderrors.Is(err, objgraph.ErrNilObject):
		return errors.Wrap(errors.ErrCodeContractViolation, err, "%s", msg)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s", msg)
	}
	return errors.Wrap(fallback, err, "%s", msg)
}
