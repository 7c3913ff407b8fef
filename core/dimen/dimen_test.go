package dimen

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.core")
	defer teardown()
	//
	d, _, err := ParseDimen("12px")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12*BP {
		t.Errorf("(1) expected d to be 12bp (%d), is %d", 12*BP, d)
	}
	//
	d, _, err = ParseDimen("0")
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if d != 0 {
		t.Errorf("(2) expected d to be 0, is %d", d)
	}
	//
	d, ispcnt, err := ParseDimen("20%")
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if ispcnt != true {
		t.Errorf("(3) expected percentage-marker to be true, is %v", ispcnt)
	} else if d != 20*BP {
		t.Errorf("(3) expected percentage to be 20bp, is %d", d)
	}
	//
	d, _, err = ParseDimen("0.5in")
	assert.NoError(t, err)
	assert.Equal(t, IN/2, d)
	//
	_, _, err = ParseDimen("12furlongs")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestSaturatingArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.core")
	defer teardown()
	//
	assert.Equal(t, Infinity, Add(Infinity, 10*BP))
	assert.Equal(t, Infinity, Add(Infinity-1, Infinity-1))
	assert.Equal(t, 30*BP, Add(10*BP, 20*BP))
	assert.Equal(t, 10*BP, MulDiv(40*BP, 1, 4))
	assert.Equal(t, Zero, MulDiv(40*BP, 1, 0))
	assert.Equal(t, 5*BP, Scale(10*BP, 0.5))
}

func TestClampMinWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.core")
	defer teardown()
	//
	assert.Equal(t, 50*BP, Clamp(80*BP, 10*BP, 50*BP))
	assert.Equal(t, 10*BP, Clamp(2*BP, 10*BP, 50*BP))
	// min > max: min wins
	assert.Equal(t, 60*BP, Clamp(80*BP, 60*BP, 50*BP))
}

func TestRects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.core")
	defer teardown()
	//
	r := RectAt(0, 0, Size{W: 100 * BP, H: 50 * BP})
	s := r.Translate(90*BP, 40*BP)
	assert.True(t, r.Overlaps(s))
	assert.False(t, r.Overlaps(r.Translate(100*BP, 0)))
	assert.True(t, r.Contains(RectAt(10*BP, 10*BP, Size{W: 10 * BP, H: 10 * BP})))
	assert.Equal(t, Size{W: 100 * BP, H: 50 * BP}, s.Size())
}
