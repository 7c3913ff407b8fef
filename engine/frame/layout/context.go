package layout

import (
	"context"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/parameters"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/khipu"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
	"github.com/npillmayer/folio/engine/text/hyphen"
	"github.com/npillmayer/folio/engine/text/monospace"
)

// Options configure a layout context. Every field is optional.
type Options struct {
	Oracle      text.Oracle          // text measurement; defaults to a monospace oracle
	Intrinsic   text.IntrinsicOracle // natural sizes of replaced content
	Registers   *parameters.LayoutRegisters
	Hyphenation *hyphen.Registry // dictionaries for `hyphens: auto`; defaults to hyphen.Default()
	CacheSize   int              // number of cached measurements
}

// Context holds everything layout of a single box tree needs: the tree,
// the oracles and the layout registers, plus caches. A context is not safe
// for concurrent use; separate documents use separate contexts.
type Context struct {
	tree  *frame.Tree
	regs  *parameters.LayoutRegisters
	guard *text.Guard
	slots []slot                // premeasured runs, indexed by box
	sizes map[frame.BoxID]sizes // intrinsic content sizes
	held  map[*frame.Fragment]bool // placeholders of absolutely positioned boxes
	ctx   context.Context
	err   error
}

// slot holds the measurement of a text box or the intrinsic size of a
// replaced box, filled by Premeasure.
type slot struct {
	run   string
	m     text.Measurement
	ok    bool
	size  text.Intrinsic
	known bool // size is valid
	sized bool // the intrinsic oracle has been asked
}

// NewContext creates a layout context for a box tree. The tree must be
// valid (see frame.Tree.Validate).
func NewContext(tree *frame.Tree, opts Options) (*Context, error) {
	if tree == nil || tree.Len() == 0 {
		return nil, core.Error(core.EINVALID, "layout needs a non-empty box tree")
	}
	if err := tree.Validate(); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot lay out box tree")
	}
	regs := opts.Registers
	if regs == nil {
		regs = parameters.NewLayoutRegisters()
	}
	var oracle text.Oracle = opts.Oracle
	if oracle == nil {
		oracle = monospace.New(nil)
	}
	oracle = hyphen.Wrap(oracle, opts.Hyphenation, regs.Lang(parameters.P_LANGUAGE),
		regs.N(parameters.P_MINHYPHENLENGTH))
	lc := &Context{
		tree:  tree,
		regs:  regs,
		guard: text.NewGuard(text.Cached(oracle, opts.CacheSize), opts.Intrinsic, &text.Diagnostics{}),
		slots: make([]slot, tree.Len()),
		sizes: make(map[frame.BoxID]sizes),
		held:  make(map[*frame.Fragment]bool),
	}
	return lc, nil
}

// Derive creates a context for another box tree, sharing the oracles, the
// diagnostics and the registers of lc. Paginators use it for generated
// content, e.g. for margin boxes.
func (lc *Context) Derive(tree *frame.Tree) (*Context, error) {
	if tree == nil || tree.Len() == 0 {
		return nil, core.Error(core.EINVALID, "layout needs a non-empty box tree")
	}
	if err := tree.Validate(); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot lay out box tree")
	}
	return &Context{
		tree:  tree,
		regs:  lc.regs,
		guard: lc.guard,
		slots: make([]slot, tree.Len()),
		sizes: make(map[frame.BoxID]sizes),
		held:  make(map[*frame.Fragment]bool),
		ctx:   lc.ctx,
	}, nil
}

// Tree returns the box tree of this context.
func (lc *Context) Tree() *frame.Tree {
	return lc.tree
}

// Registers returns the layout registers of this context.
func (lc *Context) Registers() *parameters.LayoutRegisters {
	return lc.regs
}

// Diagnostics returns the non-fatal errors collected so far (e.g., oracle
// failures), or nil.
func (lc *Context) Diagnostics() error {
	return lc.guard.Diag.Err()
}

// Bind makes layout observe a context.Context. Cancellation is checked once
// per box; a canceled layout produces empty fragments and reports the
// cancellation from the next call to an entry point.
func (lc *Context) Bind(ctx context.Context) {
	lc.ctx = ctx
}

// aborted is true if layout has been canceled.
func (lc *Context) aborted() bool {
	if lc.err != nil {
		return true
	}
	if lc.ctx == nil {
		return false
	}
	if err := lc.ctx.Err(); err != nil {
		lc.err = core.WrapError(err, core.ELIMIT, "layout canceled")
		tracer().Infof("layout canceled: %v", err)
		return true
	}
	return false
}

// --- Text ------------------------------------------------------------------

// measure is the khipu.Measurer of this context. Premeasured runs are
// taken from their slot.
func (lc *Context) measure(box frame.BoxID, run string, st *style.Style) text.Measurement {
	if s := lc.slots[box]; s.ok && s.run == run {
		return s.m
	}
	return lc.guard.Measure(run, st, dimen.Infinity)
}

// intrinsic returns the natural size of a replaced box. Premeasured sizes
// are taken from their slot.
func (lc *Context) intrinsic(box *frame.Box) (text.Intrinsic, bool) {
	if s := lc.slots[box.ID]; s.sized {
		return s.size, s.known
	}
	return lc.guard.Size(box.Resource)
}

// fontMetrics returns ascent and descent of the font of a style.
func (lc *Context) fontMetrics(st *style.Style) (ascent, descent dimen.Dimen) {
	m := lc.guard.Measure("x", st, dimen.Infinity)
	if m.Ascent == 0 && m.Descent == 0 { // failing oracle
		ascent = st.FontSize * 4 / 5
		return ascent, st.FontSize - ascent
	}
	return m.Ascent, m.Descent
}

// lineHeight returns the used line height of a style; `normal` is taken
// from the registers.
func (lc *Context) lineHeight(st *style.Style) dimen.Dimen {
	return st.UsedLineHeight(func(fontsize dimen.Dimen) dimen.Dimen {
		return lc.regs.P(parameters.P_LINEHEIGHT).Of(fontsize)
	})
}

// encoder creates a khipu encoder for inline content of a containing block
// of width base. Atomic inlines are laid out by the encoder's sizer and
// collected into atomics.
func (lc *Context) encoder(base dimen.Dimen, atomics map[frame.BoxID]*frame.Fragment) *khipu.Encoder {
	return &khipu.Encoder{
		Tree:    lc.tree,
		Measure: lc.measure,
		Base:    base,
		Atomic: func(id frame.BoxID) (w, h, baseline dimen.Dimen) {
			f := lc.layoutAtomic(id, base)
			if atomics != nil {
				atomics[id] = f
			}
			return f.Used.OuterWidth(), f.Used.OuterHeight(), atomicBaseline(f)
		},
	}
}

// orphans and widows return the effective values for a style.
func (lc *Context) orphans(st *style.Style) int {
	if st.Orphans > 0 {
		return st.Orphans
	}
	return lc.regs.N(parameters.P_ORPHANS)
}

func (lc *Context) widows(st *style.Style) int {
	if st.Widows > 0 {
		return st.Widows
	}
	return lc.regs.N(parameters.P_WIDOWS)
}
