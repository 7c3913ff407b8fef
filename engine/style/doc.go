/*
Package style holds validated style records for boxes.

A style record is the result of the cascade and of computed-value
calculation, which are both done outside of this module. Lengths are
therefore absolute, except for values which can only be resolved during
layout: percentages, `auto` and the intrinsic keywords
(`min-content`, `max-content`, `fit-content`).

Clients usually create style records with Initial() and set properties
either directly or with Set/ParseDeclarations, which accept CSS declaration
syntax.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.style'.
func tracer() tracing.Trace {
	return tracing.Select("folio.style")
}
