package page

import (
	"context"
	"errors"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/parameters"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/layout"
	"github.com/npillmayer/folio/engine/style"
)

// State is the state of a paginator while it fills a page.
type State uint8

// States of pagination. A page is filled in state Accumulating. If its
// footnotes do not fit, the paginator shrinks the main flow and retries
// (BreakNeeded). Splitting emits the page and seeds the next one. Done is
// reached after the last page.
const (
	Accumulating State = iota
	BreakNeeded
	Splitting
	Done
)

var stateNames = [...]string{"accumulating", "break-needed", "splitting", "done"}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return "state?"
	}
	return stateNames[s]
}

// ErrNoProgress is reported if a page would not advance the content. It
// signals an internal error: layout into an empty page always advances.
var ErrNoProgress = errors.New("pagination does not advance")

// ErrStepBound is reported if pagination takes more steps than the content
// could possibly need.
var ErrStepBound = errors.New("pagination exceeds its step bound")

// Paginator breaks the content of a box tree into pages. A paginator is
// not safe for concurrent use; documents are paginated by paginators of
// their own.
type Paginator struct {
	lc        *layout.Context
	tree      *frame.Tree
	config    Config
	templates [marginCount]Template
	styles    [marginCount]*style.Style
	state     State
	steps     int
	bound     int
}

// New creates a paginator for the box tree of a layout context.
func New(lc *layout.Context, config Config) (*Paginator, error) {
	if lc == nil {
		return nil, core.Error(core.EINVALID, "paginator needs a layout context")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p := &Paginator{lc: lc, tree: lc.Tree(), config: config}
	for mp, st := range config.MarginBoxes {
		if mp >= marginCount || st == nil || st.Content == "" {
			continue
		}
		t, err := ParseTemplate(st.Content)
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "margin box %s", mp)
		}
		p.templates[mp], p.styles[mp] = t, st
	}
	// Every page consumes a box, a text position or a footnote; blank pages
	// are inserted at most once per page.
	units := 0
	p.tree.Walk(p.tree.Root(), func(b *frame.Box) bool {
		units += 1 + len(b.Text)
		return true
	})
	p.bound = 2*units + 16
	return p, nil
}

// State returns the current state of the paginator.
func (p *Paginator) State() State {
	return p.state
}

// Start returns the marker for the first page.
func (p *Paginator) Start() Marker {
	return Marker{State: layout.NewPageState()}
}

// Paginate lays out the whole document. Cancellation of ctx is checked per
// page and per box.
func (p *Paginator) Paginate(ctx context.Context) ([]*Page, error) {
	p.lc.Bind(ctx)
	maxPages := p.lc.Registers().N(parameters.P_MAXPAGES)
	var pages []*Page
	for m := p.Start(); !m.Done(); {
		if err := ctx.Err(); err != nil {
			return nil, core.WrapError(err, core.ELIMIT, "pagination canceled after %d pages", len(pages))
		}
		if len(pages) >= maxPages {
			return nil, core.Error(core.ELIMIT, "document exceeds %d pages", maxPages)
		}
		if p.steps++; p.steps > p.bound {
			return nil, core.WrapError(ErrStepBound, core.EINTERNAL, "%d steps", p.bound)
		}
		pg, err := p.layoutPage(m)
		if err != nil {
			return nil, err
		}
		tracer().Infof("%v done", pg)
		pages = append(pages, pg)
		m = pg.End
	}
	p.state = Done
	for _, pg := range pages {
		pg.Start.State.Pages = len(pages)
		pg.End.State.Pages = len(pages)
		if err := p.marginBoxes(pg); err != nil {
			return nil, err
		}
	}
	return pages, nil
}

// RenderFrom lays out the single page starting at a marker, e.g. at
// pg.Start of a page from Paginate. With identical inputs the result is
// identical to the page Paginate produced.
func (p *Paginator) RenderFrom(ctx context.Context, m Marker) (*Page, error) {
	if m.State == nil {
		return nil, core.Error(core.EINVALID, "marker without page state")
	}
	if m.Done() {
		return nil, core.Error(core.EINVALID, "marker is past the end of the document")
	}
	p.lc.Bind(ctx)
	pg, err := p.layoutPage(m.clone())
	if err != nil {
		return nil, err
	}
	if err := p.marginBoxes(pg); err != nil {
		return nil, err
	}
	return pg, nil
}

// attempt is the outcome of laying out the main flow of a page.
type attempt struct {
	flow  layout.Flow
	notes []*frame.Fragment // footnote bodies, deferred ones first
	ids   []frame.BoxID
	need  dimen.Dimen // height of the footnote area for all notes
}

// layoutPage fills the page following a marker.
func (p *Paginator) layoutPage(m Marker) (*Page, error) {
	pg := NewPage(p.config.Size)
	ps := m.State.Clone()
	ps.BeginPage()
	pg.Number = ps.Number
	pg.Content = p.config.ContentArea()
	pg.Start = m.clone()
	if m.Side != style.BreakAuto {
		recto := m.Side == style.BreakRight || m.Side == style.BreakRecto
		if pg.IsRecto() != recto {
			tracer().Debugf("blank %v before %v break", pg, m.Side)
			pg.Blank = true
			pg.End = m.clone()
			pg.End.Side = style.BreakAuto
			pg.End.State = ps
			return pg, nil
		}
	}
	area := pg.Content
	bodies := make(map[frame.BoxID]*frame.Fragment)
	retries := p.lc.Registers().N(parameters.P_FOOTNOTERETRIES)
	mainH := area.Height()
	relax := false
	var at attempt
	p.state = Accumulating
	for p.state != Splitting {
		switch p.state {
		case Accumulating:
			var err error
			at, err = p.accumulate(m, area, mainH, relax, bodies)
			if err != nil {
				return nil, err
			}
			p.state = Splitting
			if at.need > 0 && p.bottom(at, area)+at.need > area.BotR.Y && retries > 0 {
				p.state = BreakNeeded
			}
		case BreakNeeded:
			retries--
			h := area.Height() - at.need
			if h <= 0 || h >= mainH {
				p.state = Splitting
				continue
			}
			tracer().Debugf("footnotes of %v need %v, retrying with main area of %v", pg, at.need, h)
			mainH = h
			p.state = Accumulating
		}
		if p.state == Splitting && !p.advances(m, at) {
			if relax {
				return nil, core.WrapError(ErrNoProgress, core.EINTERNAL, "at %v", m.Resume)
			}
			tracer().Infof("%v does not advance, relaxing break avoidance", pg)
			relax, mainH = true, area.Height()
			p.state = Accumulating
		}
	}
	deferred := p.split(pg, m, at, area)
	pg.End = Marker{
		Resume:    at.flow.Resume,
		Deferred:  deferred,
		State:     ps,
		Exhausted: m.Exhausted || at.flow.Complete(),
	}
	if !pg.End.Exhausted && isSide(at.flow.Break) {
		pg.End.Side = at.flow.Break
	}
	if pg.End.Exhausted {
		pg.End.Resume = nil
	}
	for _, f := range pg.content() {
		ps.ApplyFragments(p.tree, f)
	}
	pg.Meta = collectMetadata(p.tree, pg.content(), ps, p.stringNames())
	return pg, nil
}

// accumulate lays out the main flow into the content area, shortened to
// height h, and the footnotes it calls.
func (p *Paginator) accumulate(m Marker, area dimen.Rect, h dimen.Dimen, relax bool,
	bodies map[frame.BoxID]*frame.Fragment) (attempt, error) {
	//
	var at attempt
	if !m.Exhausted {
		fc := layout.Fragmentainer{
			Origin:   area.TopL,
			Width:    area.Width(),
			Height:   h,
			Truncate: m.Resume != nil,
			Relax:    relax,
		}
		flow, err := p.lc.LayoutRoot(fc, m.Resume)
		if err != nil {
			return at, err
		}
		at.flow = flow
	}
	at.ids = append(append(at.ids, m.Deferred...), footnoteCalls(at.flow.Fragment)...)
	for _, id := range at.ids {
		f, ok := bodies[id]
		if !ok {
			var err error
			if f, err = p.lc.LayoutFootnote(id, area.Width()); err != nil {
				return at, err
			}
			bodies[id] = f
		}
		at.notes = append(at.notes, f)
		at.need += f.Used.OuterHeight()
	}
	if len(at.notes) > 0 {
		at.need += p.config.FootnoteGap
	}
	return at, nil
}

// bottom returns the bottom edge of the main flow of an attempt.
func (p *Paginator) bottom(at attempt, area dimen.Rect) dimen.Dimen {
	if at.flow.Fragment == nil {
		return area.TopL.Y
	}
	return at.flow.Bottom
}

// advances is true if a page consumes content: a part of the main flow or
// a footnote.
func (p *Paginator) advances(m Marker, at attempt) bool {
	if !m.Exhausted {
		if at.flow.Complete() || at.flow.Resume.Compare(m.Resume) > 0 {
			return true
		}
	}
	return len(m.Deferred) > 0 // the first deferred footnote is always placed (see split)
}

// split places the main flow and the footnotes which fit on the page. It
// returns the footnotes deferred to the next page. The first footnote
// deferred from an earlier page is placed even if it does not fit.
func (p *Paginator) split(pg *Page, m Marker, at attempt, area dimen.Rect) []frame.BoxID {
	pg.Flow = at.flow.Fragment
	avail := area.BotR.Y - p.bottom(at, area) - p.config.FootnoteGap
	n, used := 0, dimen.Dimen(0)
	for i, f := range at.notes {
		h := f.Used.OuterHeight()
		if used+h > avail && !(i == 0 && len(m.Deferred) > 0) {
			break
		}
		n, used = i+1, used+h
	}
	y := area.BotR.Y - used
	for _, f := range at.notes[:n] {
		f.Translate(area.TopL.X-f.Used.X, y-f.Used.Y)
		y += f.Used.OuterHeight()
		pg.Footnotes = append(pg.Footnotes, f)
	}
	if n < len(at.ids) {
		tracer().Debugf("%v defers %d footnotes", pg, len(at.ids)-n)
		return append([]frame.BoxID(nil), at.ids[n:]...)
	}
	return nil
}

// footnoteCalls returns the footnotes called from a fragment tree, in
// document order. Calls in repeated table headers and footers do not count.
func footnoteCalls(root *frame.Fragment) []frame.BoxID {
	var ids []frame.BoxID
	root.Walk(func(f *frame.Fragment) bool {
		if f.Repeated {
			return false
		}
		if f.Placeholder {
			ids = append(ids, f.Box)
			return false
		}
		return true
	})
	return ids
}

func isSide(b style.Break) bool {
	switch b {
	case style.BreakLeft, style.BreakRight, style.BreakRecto, style.BreakVerso:
		return true
	}
	return false
}

// stringNames returns the names of the named strings the margin boxes
// refer to.
func (p *Paginator) stringNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, t := range p.templates {
		for _, part := range t {
			if part.named != "" && !seen[part.named] {
				seen[part.named] = true
				names = append(names, part.named)
			}
		}
	}
	return names
}
