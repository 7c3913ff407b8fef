package text

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

// DefaultCacheSize is the number of measurements a cache created with size 0
// holds.
const DefaultCacheSize = 4096

// measureKey contains everything of a style a measurement may depend on.
type measureKey struct {
	run      string
	fontsize dimen.Dimen
	lang     string
	ws       style.WhiteSpace
	hyphens  style.Hyphens
}

// CachedOracle memoizes measurements of an oracle. It is safe for concurrent
// use if the wrapped oracle is.
//
// Measurements are cached independently of the available width. Oracles
// whose results depend on it must not be wrapped.
type CachedOracle struct {
	oracle Oracle
	cache  *lru.Cache[measureKey, Measurement]
}

// Cached wraps an oracle with a least-recently-used cache of the given
// size. A size ≤ 0 selects DefaultCacheSize.
func Cached(o Oracle, size int) *CachedOracle {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[measureKey, Measurement](size)
	if err != nil { // cannot happen for size > 0
		panic(err)
	}
	return &CachedOracle{oracle: o, cache: c}
}

// Measure is part of interface Oracle. Errors are not cached.
func (co *CachedOracle) Measure(run string, st *style.Style, avail dimen.Dimen) (Measurement, error) {
	key := measureKey{run: run}
	if st != nil {
		key.fontsize, key.lang, key.ws, key.hyphens = st.FontSize, st.Lang, st.WhiteSpace, st.Hyphens
	}
	if m, ok := co.cache.Get(key); ok {
		return m, nil
	}
	m, err := co.oracle.Measure(run, st, avail)
	if err != nil {
		return m, err
	}
	co.cache.Add(key, m)
	return m, nil
}

// Len returns the number of cached measurements.
func (co *CachedOracle) Len() int {
	return co.cache.Len()
}

var _ Oracle = (*CachedOracle)(nil)
