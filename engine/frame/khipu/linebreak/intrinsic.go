package linebreak

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame/khipu"
)

// MinContent returns the min-content width of a khipu: the widest piece of
// content between two break opportunities. Emergency opportunities are not
// taken into account.
func MinContent(kh *khipu.Khipu) dimen.Dimen {
	var max, w, trail dimen.Dimen
	for i := 0; i < kh.Length(); i++ {
		k := kh.At(i)
		switch {
		case k.IsBreak():
			piece := w - trail
			if k.Type == khipu.KTDiscretionary {
				piece += k.Width
			}
			max = dimen.Max(max, piece)
			w, trail = 0, 0
		case k.Type == khipu.KTGlue:
			if w > 0 {
				w += k.Width
				trail += k.Width
			}
		case k.Type == khipu.KTPenalty, k.Type == khipu.KTDiscretionary:
		default:
			w += k.Width
			trail = 0
		}
	}
	return dimen.Max(max, w-trail)
}

// MaxContent returns the max-content width of a khipu: the widest line
// if the khipu is broken at forced breaks only.
func MaxContent(kh *khipu.Khipu) dimen.Dimen {
	var max, w, trail dimen.Dimen
	for i := 0; i < kh.Length(); i++ {
		k := kh.At(i)
		switch {
		case k.IsForced():
			max = dimen.Max(max, w-trail)
			w, trail = 0, 0
		case k.Type == khipu.KTGlue:
			w += k.Width
			trail += k.Width
		case k.Type == khipu.KTPenalty, k.Type == khipu.KTDiscretionary:
		default:
			w += k.Width
			if k.Width > 0 {
				trail = 0
			}
		}
	}
	return dimen.Max(max, w-trail)
}
