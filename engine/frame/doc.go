/*
Package frame holds the box tree and the used-value model of layout.

Typesetting may be understood as the process of placing boxes within
larger boxes. Boxes follow the CSS box model: a content area is
surrounded by padding, border and margin, each one given per edge.

A box tree is built once per render and is never modified by layout.
Boxes live in an arena (type Tree) and are addressed by index (type BoxID).
Layout produces fragments: positioned, sized slices of boxes, carrying used
values. A box which is split across pages or columns yields more than one
fragment; all of them refer to the box by its index only. Fragments which
are continued carry a resume marker, a flat path of indices leading to the
first content not yet laid out.

Box kinds form a closed set (type Kind). Adding a layout mode means adding a
kind and a handler for it in package layout.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package frame

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.frame'.
func tracer() tracing.Trace {
	return tracing.Select("folio.frame")
}
