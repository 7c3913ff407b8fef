/*
Package layout lays out a box tree into fragments.

Overview

Every box is laid out by the algorithm of the formatting context its own
inner display establishes: block flow (with inline content broken into line
boxes), tables, flex and grid containers, multi-column containers and
replaced content. The set of formatting contexts is closed; ContextFor
classifies a box and a fixed dispatch table selects the algorithm.

Layout is fragmentation-aware. A flow is laid out into a fragmentainer of
limited height (a page area or a column). Content which does not fit is
described by a resume marker (frame.Resume); laying out the same tree again
from that marker continues where the previous fragment ended. The
pagination state machine driving this lives in package engine/page.

Geometry is computed in page coordinates. Fragments refer to their boxes by
index; boxes are never modified.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.layout'.
func tracer() tracing.Trace {
	return tracing.Select("folio.layout")
}
