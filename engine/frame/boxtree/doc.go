/*
Package boxtree builds box trees from HTML documents.

Layout expects a box tree with resolved styles. Producing one from real
documents is the job of a full styling engine; this package offers a small
one, sufficient for fixtures, tests and simple documents: elements are
matched against CSS rules (a built-in user-agent sheet, sheets passed by
the client and <style> elements of the document), declarations are applied
in cascade order, followed by `style` attributes.

Not supported: pseudo-elements, @-rules, `inherit` and `initial` keywords
and selector specificity beyond id/class/type counting.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package boxtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.boxtree'.
func tracer() tracing.Trace {
	return tracing.Select("folio.boxtree")
}
