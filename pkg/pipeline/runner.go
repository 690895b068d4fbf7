package pipeline

import (
	"context"
	"encoding/json"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/termdiag/pkg/buildinfo"
	"github.com/matzehuels/termdiag/pkg/cache"
	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/io"
	"github.com/matzehuels/termdiag/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner as long as each passes its own
// Document.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Key returns the cache key for doc rendered with opts.
func (r *Runner) Key(doc *io.Document, opts Options) (string, error) {
	data, err := io.Canonical(doc)
	if err != nil {
		return "", terr.Wrap(terr.ErrCodeInternal, err, "encode document")
	}
	ro := opts.Render
	return r.Keyer.RenderKey(string(doc.Kind), data, cache.RenderKeyOpts{
		ASCII:         ro.ASCII,
		Colors:        ro.Colors,
		MaxWidth:      ro.MaxWidth,
		PaddingX:      ro.PaddingX,
		PaddingY:      ro.PaddingY,
		BorderPadding: ro.BorderPadding,
		Version:       buildinfo.Version,
	}), nil
}

// Execute renders doc, consulting the cache first. Cache failures are
// logged and never fail the run.
func (r *Runner) Execute(ctx context.Context, doc *io.Document, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, terr.Wrap(terr.ErrCodeTimeout, err, "render %s", doc.Kind)
	}
	key, err := r.Key(doc, opts)
	if err != nil {
		return nil, err
	}
	hooks := observability.Cache()
	kind := string(doc.Kind)

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			hooks.OnCacheHit(ctx, kind)
			r.Logger.Debug("cache hit", "kind", kind, "key", key)
			return res, nil
		}
		hooks.OnCacheMiss(ctx, kind)
	}

	res := Render(ctx, doc, opts.Render)
	res.Key = key
	r.Logger.Debug("rendered",
		"kind", kind,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"warnings", len(res.Warnings),
		"layout", res.Stats.LayoutTime,
		"render", res.Stats.RenderTime)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, kind, len(data))
		}
	}
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		// Stale entry from an older encoding; drop it and recompute.
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	res.CacheHit = true
	return &res, true
}

// ExecuteAll renders docs concurrently, at most one per CPU. Results keep
// the order of docs. The first error cancels the remaining renders.
func (r *Runner) ExecuteAll(ctx context.Context, docs []*io.Document, opts Options) ([]*Result, error) {
	results := make([]*Result, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		g.Go(func() error {
			res, err := r.Execute(ctx, doc, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
