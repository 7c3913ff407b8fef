package text

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

// Diagnostics collects non-fatal errors during layout. It is safe for
// concurrent use. The zero value is ready to use.
type Diagnostics struct {
	mu  sync.Mutex
	err *multierror.Error
}

// Add appends an error. nil errors are ignored.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = multierror.Append(d.err, err)
}

// Len returns the number of collected errors.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err == nil {
		return 0
	}
	return len(d.err.Errors)
}

// Err returns all collected errors as a single error, or nil.
func (d *Diagnostics) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err.ErrorOrNil()
}

// Guard protects layout from failing oracles. A failed measurement (an error
// or a panic inside the oracle) is replaced by a zero-sized measurement
// with a single forced break opportunity at the end of the run; the failure
// is recorded in Diagnostics.
type Guard struct {
	Oracle    Oracle
	Intrinsic IntrinsicOracle
	Diag      *Diagnostics
}

// NewGuard creates a guard. Either oracle may be nil, which behaves like an
// oracle that always fails (text) or never knows a resource (intrinsic).
func NewGuard(o Oracle, io IntrinsicOracle, diag *Diagnostics) *Guard {
	if diag == nil {
		diag = &Diagnostics{}
	}
	return &Guard{Oracle: o, Intrinsic: io, Diag: diag}
}

// Measure queries the text oracle. It never fails.
func (g *Guard) Measure(run string, st *style.Style, avail dimen.Dimen) (m Measurement) {
	var err error
	if g.Oracle == nil {
		err = fmt.Errorf("no text oracle configured")
	} else {
		m, err = g.measure(run, st, avail)
	}
	if err != nil {
		err = core.WrapError(err, core.EORACLE, "measuring %q", abbrev(run))
		tracer().Errorf("%v", err)
		g.Diag.Add(err)
		return Fallback(run)
	}
	return m
}

func (g *Guard) measure(run string, st *style.Style, avail dimen.Dimen) (m Measurement, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("oracle panicked: %v", r)
		}
	}()
	return g.Oracle.Measure(run, st, avail)
}

// Size queries the intrinsic oracle. Missing intrinsic sizes are a normal
// condition and are not recorded as errors.
func (g *Guard) Size(resource string) (Intrinsic, bool) {
	if g.Intrinsic == nil || resource == "" {
		return Intrinsic{}, false
	}
	return g.Intrinsic.Intrinsic(resource)
}

// Fallback returns the zero-size replacement measurement for a run: no
// width, no height, one cluster per byte and a break at the end.
func Fallback(run string) Measurement {
	m := Measurement{}
	for i := 0; i < len(run); i++ {
		m.Clusters = append(m.Clusters, Cluster{Offset: i})
	}
	if len(run) > 0 {
		m.Breaks = []Break{{Offset: len(run), Rank: BreakSpace}}
	}
	return m
}

func abbrev(s string) string {
	if len(s) <= 24 {
		return s
	}
	return s[:21] + "..."
}
