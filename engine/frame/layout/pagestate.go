package layout

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/khipu"
	"github.com/npillmayer/folio/engine/style"
)

// StringPolicy selects which value of a named string a page reports, as in
// `string(name, first)`.
type StringPolicy uint8

// Policies for named strings.
const (
	StringFirst       StringPolicy = iota // first value assigned on the page, else the entry value
	StringStart                           // value at the start of the page
	StringLast                            // last value assigned on the page, else the entry value
	StringFirstExcept                     // empty on pages with an assignment, else the entry value
)

// ParseStringPolicy parses the keyword of a string policy. Unknown keywords
// select StringFirst.
func ParseStringPolicy(s string) StringPolicy {
	switch s {
	case "start":
		return StringStart
	case "last":
		return StringLast
	case "first-except":
		return StringFirstExcept
	}
	return StringFirst
}

// PageState is the state carried from page to page: counters, named
// strings and the page number. Paginators keep a snapshot per page; a
// snapshot is all that is needed to continue pagination from that page.
//
// Page states are plain values owned by a single paginator, never shared
// between documents.
type PageState struct {
	Number   int                // current page number, starting at 1
	Pages    int                // total number of pages, 0 until pagination is complete
	counters *treemap.Map       // name → int
	strings  *linkedhashmap.Map // name → value, as of the start of the page
	assigned *linkedhashmap.Map // name → []string, assignments on the current page
}

// NewPageState creates the state before the first page.
func NewPageState() *PageState {
	return &PageState{
		counters: treemap.NewWithStringComparator(),
		strings:  linkedhashmap.New(),
		assigned: linkedhashmap.New(),
	}
}

// Clone returns an independent copy of the state.
func (ps *PageState) Clone() *PageState {
	c := NewPageState()
	c.Number, c.Pages = ps.Number, ps.Pages
	ps.counters.Each(func(k, v interface{}) { c.counters.Put(k, v) })
	ps.strings.Each(func(k, v interface{}) { c.strings.Put(k, v) })
	ps.assigned.Each(func(k, v interface{}) {
		vals := v.([]string)
		c.assigned.Put(k, append([]string(nil), vals...))
	})
	return c
}

// BeginPage moves the state to the next page. Assignments of the previous
// page become the entry values of named strings.
func (ps *PageState) BeginPage() {
	ps.assigned.Each(func(k, v interface{}) {
		vals := v.([]string)
		ps.strings.Put(k, vals[len(vals)-1])
	})
	ps.assigned.Clear()
	ps.Number++
	ps.counters.Put("page", ps.Number)
}

// Counter returns the value of a counter. Counter `pages` is the total
// number of pages, once it is known.
func (ps *PageState) Counter(name string) int {
	if name == "pages" {
		return ps.Pages
	}
	if v, ok := ps.counters.Get(name); ok {
		return v.(int)
	}
	return 0
}

// Counters returns the names of all counters in use, sorted.
func (ps *PageState) Counters() []string {
	names := make([]string, 0, ps.counters.Size())
	for _, k := range ps.counters.Keys() {
		names = append(names, k.(string))
	}
	return names
}

// NamedString returns the value of a named string on the current page.
func (ps *PageState) NamedString(name string, policy StringPolicy) string {
	entry := ""
	if v, ok := ps.strings.Get(name); ok {
		entry = v.(string)
	}
	var vals []string
	if v, ok := ps.assigned.Get(name); ok {
		vals = v.([]string)
	}
	switch {
	case policy == StringStart || len(vals) == 0:
		if policy == StringFirstExcept && len(vals) > 0 {
			return ""
		}
		return entry
	case policy == StringFirst:
		return vals[0]
	case policy == StringLast:
		return vals[len(vals)-1]
	}
	return "" // first-except on a page with an assignment
}

// Apply processes the counter and string properties of a box which starts
// on the current page. content returns the text content of the box, for
// `content()` values of string-set.
func (ps *PageState) Apply(st *style.Style, content func() string) {
	for _, op := range st.CounterReset {
		ps.counters.Put(op.Name, op.Value)
	}
	for _, op := range st.CounterIncrement {
		ps.counters.Put(op.Name, ps.Counter(op.Name)+op.Value)
	}
	for _, set := range st.StringSet {
		value := set.Value
		if value == "content()" && content != nil {
			value = content()
		}
		var vals []string
		if v, ok := ps.assigned.Get(set.Name); ok {
			vals = v.([]string)
		}
		ps.assigned.Put(set.Name, append(vals, value))
	}
}

// ApplyFragments processes the boxes starting in a fragment tree, in
// document order. Continuations and repeated fragments have been processed
// on an earlier page.
func (ps *PageState) ApplyFragments(tree *frame.Tree, root *frame.Fragment) {
	root.Walk(func(f *frame.Fragment) bool {
		if f.Repeated || f.Placeholder {
			return false
		}
		if f.Box == frame.NoBox || f.ContinuedBefore || f.Kind == frame.Line || f.Kind == frame.Text {
			return true
		}
		st := tree.Style(f.Box)
		if len(st.CounterReset)+len(st.CounterIncrement)+len(st.StringSet) > 0 {
			id := f.Box
			ps.Apply(st, func() string { return khipu.ContentText(tree, id) })
		}
		return true
	})
}
