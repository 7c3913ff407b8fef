/*
Package parameters holds layout registers: engine-wide default values which
are not part of a box's style, such as default orphans/widows counts, the
hyphenation language or limits protecting against runaway documents.

Registers may be read from a schuko configuration (see FromConfig).
*/
package parameters

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'folio.core'.
func tracer() tracing.Trace {
	return tracing.Select("folio.core")
}
