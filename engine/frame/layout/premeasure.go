package layout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/parameters"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/khipu"
)

// Premeasure measures every text run and asks for the natural size of every
// replaced box of the tree ahead of layout, with a bounded number of
// workers (register P_PREMEASUREWORKERS). Results are stored per box, so
// layout itself only consults the oracles for runs it prepares differently.
//
// Premeasure is optional. It requires the oracles to be safe for concurrent
// use. It must not run concurrently with layout of the same context.
func (lc *Context) Premeasure(ctx context.Context) error {
	type job struct {
		box *frame.Box
		run string
	}
	var jobs []job
	collapsed := true
	lc.tree.Walk(lc.tree.Root(), func(b *frame.Box) bool {
		switch {
		case b.Kind == frame.Text:
			run, end := khipu.PrepareText(b.Text, b.Style.WhiteSpace, collapsed)
			if run != "" {
				collapsed = end
				jobs = append(jobs, job{box: b, run: run})
			}
		case b.Kind == frame.Replaced:
			jobs = append(jobs, job{box: b})
			collapsed = false
		case b.Style.Display.IsBlockLevel() || b.Style.Display.IsAtomicInline():
			collapsed = true // start of an inline formatting context
		}
		return true
	})
	tracer().Debugf("premeasure %d boxes", len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(lc.regs.N(parameters.P_PREMEASUREWORKERS), 1))
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := &lc.slots[j.box.ID] // slots are disjoint per box
			if j.box.Kind == frame.Replaced {
				s.size, s.known = lc.guard.Size(j.box.Resource)
				s.sized = true
				return nil
			}
			s.m = lc.guard.Measure(j.run, j.box.Style, dimen.Infinity)
			s.run, s.ok = j.run, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.WrapError(err, core.ELIMIT, "premeasuring canceled")
	}
	return nil
}
