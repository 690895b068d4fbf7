// Package pipeline provides the decode → layout → render pipeline for
// termdiag.
//
// The CLI and the HTTP API both go through a [Runner], so caching, hooks
// and logging behave the same in every entry point.
//
// # Stages
//
//  1. Key: the document is re-encoded canonically and hashed together with
//     the render options
//  2. Layout: flowcharts get node and subgraph coordinates
//  3. Render: the diagram is drawn to text
//
// A cache hit skips stages 2 and 3. Each stage can also be run on its own
// with [Render].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	doc, err := io.ImportFile("flow.json", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, doc, pipeline.Options{Render: graph.DefaultRenderOptions()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Output)
package pipeline

import (
	"time"

	"github.com/matzehuels/termdiag/pkg/cache"
	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/graph"
)

// Options configures one pipeline run.
type Options struct {
	// Render holds layout spacing and output encoding.
	Render graph.RenderOptions `json:"render"`

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty"`

	// TTL overrides cache.DefaultTTL.
	TTL time.Duration `json:"-"`
}

// Validate rejects option values the renderer cannot honor.
func (o Options) Validate() error {
	if err := o.Render.Validate(); err != nil {
		return terr.Wrap(terr.ErrCodeInvalidOptions, err, "invalid render options")
	}
	return nil
}

func (o Options) ttl() time.Duration {
	if o.TTL != 0 {
		return o.TTL
	}
	return cache.DefaultTTL
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Kind is the document kind that was rendered.
	Kind string `json:"kind"`

	// Output is the rendered diagram.
	Output string `json:"output"`

	// Warnings lists layout and render diagnostics in the order they were
	// raised.
	Warnings graph.Warnings `json:"warnings,omitempty"`

	// Key is the cache key of this result.
	Key string `json:"key"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheHit reports whether Output came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}
