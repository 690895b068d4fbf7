package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/io"
	"github.com/matzehuels/termdiag/pkg/layout"
	"github.com/matzehuels/termdiag/pkg/observability"
	"github.com/matzehuels/termdiag/pkg/render"
	"github.com/matzehuels/termdiag/pkg/render/pie"
	"github.com/matzehuels/termdiag/pkg/render/sequence"
)

// Render lays out and draws doc without touching any cache. Flowchart
// coordinates are written into doc.Flowchart. Decoder warnings attached to
// doc come first in the result.
func Render(ctx context.Context, doc *io.Document, opts graph.RenderOptions) *Result {
	hooks := observability.Pipeline()
	res := &Result{Kind: string(doc.Kind)}
	res.Warnings = append(res.Warnings, doc.Warnings...)

	switch doc.Kind {
	case io.KindFlowchart:
		g := doc.Flowchart
		res.Stats.NodeCount = len(g.Nodes)
		res.Stats.EdgeCount = len(g.Edges)

		hooks.OnLayoutStart(ctx, len(g.Nodes))
		start := time.Now()
		warnings := layout.Compute(g, opts)
		res.Stats.LayoutTime = time.Since(start)
		hooks.OnLayoutComplete(ctx, len(g.Nodes), res.Stats.LayoutTime, len(warnings))
		res.Warnings = append(res.Warnings, warnings...)

		hooks.OnRenderStart(ctx, res.Kind)
		start = time.Now()
		out, more := render.Render(g, opts)
		res.Output = out
		res.Warnings = append(res.Warnings, more...)
		res.Stats.RenderTime = time.Since(start)

	case io.KindSequence:
		d := *doc.Sequence
		d.Participants = append([]graph.Participant(nil), d.Participants...)
		d.EnsureParticipants()
		res.Stats.NodeCount = len(d.Participants)
		res.Stats.EdgeCount = len(d.Messages)
		hooks.OnRenderStart(ctx, res.Kind)
		start := time.Now()
		res.Output = sequence.Render(d, opts)
		res.Stats.RenderTime = time.Since(start)

	case io.KindPie:
		res.Stats.NodeCount = len(doc.Pie.Slices)
		hooks.OnRenderStart(ctx, res.Kind)
		start := time.Now()
		res.Output = pie.Render(*doc.Pie, opts)
		res.Stats.RenderTime = time.Since(start)
	}

	hooks.OnRenderComplete(ctx, res.Kind, len(res.Output), res.Stats.RenderTime, nil)
	return res
}
