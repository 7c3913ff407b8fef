package exclusion

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

func TestPlaceFloats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	var s *Space
	assert.True(t, s.IsEmpty())
	sz := dimen.Size{W: 40 * dimen.PX, H: 20 * dimen.PX}
	p1, s1 := s.Place(LeftSide, sz, 0, 0, 100*dimen.PX)
	assert.Equal(t, dimen.Point{}, p1)
	assert.True(t, s.IsEmpty(), "Add must not modify the receiver")
	p2, s2 := s1.Place(LeftSide, sz, 0, 0, 100*dimen.PX)
	assert.Equal(t, dimen.Point{X: 40 * dimen.PX}, p2, "second left float goes next to the first")
	p3, s3 := s2.Place(RightSide, sz, 0, 0, 100*dimen.PX)
	assert.Equal(t, dimen.Point{X: 60 * dimen.PX, Y: 20 * dimen.PX}, p3, "no room left: drop below")
	// floats are never placed above earlier floats
	p4, _ := s3.Place(LeftSide, dimen.Size{W: 10 * dimen.PX, H: 5 * dimen.PX}, 0, 0, 100*dimen.PX)
	assert.Equal(t, 20*dimen.PX, p4.Y)
	//
	x0, x1 := s2.Available(5*dimen.PX, 10*dimen.PX, 0, 100*dimen.PX)
	assert.Equal(t, 80*dimen.PX, x0)
	assert.Equal(t, 100*dimen.PX, x1)
	x0, x1 = s2.Available(25*dimen.PX, 10*dimen.PX, 0, 100*dimen.PX)
	assert.Equal(t, dimen.Dimen(0), x0)
	assert.Equal(t, 100*dimen.PX, x1)
}

func TestClearAndBottom(t *testing.T) {
	var s *Space
	_, s = s.Place(LeftSide, dimen.Size{W: 10 * dimen.PX, H: 30 * dimen.PX}, 0, 0, 100*dimen.PX)
	_, s = s.Place(RightSide, dimen.Size{W: 10 * dimen.PX, H: 50 * dimen.PX}, 0, 0, 100*dimen.PX)
	assert.Equal(t, 30*dimen.PX, s.ClearY(style.ClearLeft, 0))
	assert.Equal(t, 50*dimen.PX, s.ClearY(style.ClearBoth, 0))
	assert.Equal(t, 60*dimen.PX, s.ClearY(style.ClearRight, 60*dimen.PX))
	assert.Equal(t, 50*dimen.PX, s.Bottom())
	moved := s.Translate(0, 10*dimen.PX)
	assert.Equal(t, 60*dimen.PX, moved.Bottom())
	assert.Equal(t, 50*dimen.PX, s.Bottom())
}

func TestFindBandTerminates(t *testing.T) {
	var s *Space
	for i := 0; i < 10; i++ {
		_, s = s.Place(LeftSide, dimen.Size{W: 90 * dimen.PX, H: 10 * dimen.PX}, 0, 0, 100*dimen.PX)
	}
	y, x0, x1 := s.FindBand(0, 50*dimen.PX, 5*dimen.PX, 0, 100*dimen.PX)
	assert.Equal(t, 100*dimen.PX, y)
	assert.Equal(t, 100*dimen.PX, x1-x0)
}
