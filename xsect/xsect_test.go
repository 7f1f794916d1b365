package xsect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/godynwave/utils"
)

func TestCircular(t *testing.T) {
	var (
		xs = NewCircular(2)
	)
	assert.Equal(t, 2.0, xs.YFull)
	assert.InDelta(t, math.Pi, xs.AFull, 1.0e-12)
	assert.InDelta(t, 0.5, xs.RFull, 1.0e-12)
	assert.False(t, xs.IsOpen())

	// empty and full limits
	assert.Equal(t, 0.0, xs.AofY(0))
	assert.Equal(t, 0.0, xs.WofY(0))
	assert.Equal(t, 0.0, xs.RofY(0))
	assert.InDelta(t, xs.AFull, xs.AofY(2), 1.0e-12)
	assert.InDelta(t, 0.0, xs.WofY(2), 1.0e-6)
	assert.InDelta(t, 0.5, xs.RofY(2), 1.0e-12)

	// half full: half area, diameter-wide surface, quarter-diameter radius
	assert.InDelta(t, math.Pi/2, xs.AofY(1), 1.0e-12)
	assert.InDelta(t, 2.0, xs.WofY(1), 1.0e-12)
	assert.InDelta(t, 0.5, xs.RofY(1), 1.0e-12)

	// area is monotone below the crown region
	for y := 0.1; y < 1.9; y += 0.1 {
		assert.Greater(t, xs.AofY(y+0.1), xs.AofY(y))
	}
	// depths above full clamp
	assert.InDelta(t, xs.AFull, xs.AofY(5), 1.0e-12)
}

func TestPrismaticShapes(t *testing.T) {
	// open rectangle
	{
		xs := NewRectOpen(2, 1)
		assert.True(t, xs.IsOpen())
		assert.InDelta(t, 1.0, xs.AofY(0.5), 1.0e-12)
		assert.InDelta(t, 2.0, xs.WofY(0.5), 1.0e-12)
		assert.InDelta(t, 1.0/3.0, xs.RofY(0.5), 1.0e-12)
	}
	// closed rectangle picks up the top at the crown
	{
		xs := NewRectClosed(2, 1)
		assert.False(t, xs.IsOpen())
		assert.InDelta(t, 2.0, xs.AFull, 1.0e-12)
		assert.InDelta(t, 2.0/6.0, xs.RFull, 1.0e-12)
		assert.Greater(t, xs.RofY(0.999), xs.RofY(1.0))
	}
	// triangular
	{
		xs := NewTriangular(1, 2)
		assert.InDelta(t, 2.0, xs.AFull, 1.0e-12)
		assert.InDelta(t, 4.0, xs.WMax, 1.0e-12)
		assert.InDelta(t, 2*utils.POW(0.5, 2), xs.AofY(0.5), 1.0e-12)
		assert.InDelta(t, 2.0, xs.WofY(0.5), 1.0e-12)
	}
	// trapezoidal reduces to its closed forms
	{
		xs := NewTrapezoidal(1, 2, 1, 1)
		assert.InDelta(t, 3.0, xs.AFull, 1.0e-12)
		assert.InDelta(t, 4.0, xs.WMax, 1.0e-12)
		assert.InDelta(t, (2+0.5)*0.5, xs.AofY(0.5), 1.0e-12)
		p := 2 + 2*0.5*math.Sqrt2
		assert.InDelta(t, xs.AofY(0.5)/p, xs.RofY(0.5), 1.0e-12)
	}
	// parabolic width follows sqrt(y)
	{
		xs := NewParabolic(1, 4)
		assert.InDelta(t, 4*math.Sqrt(0.25), xs.WofY(0.25), 1.0e-12)
		assert.InDelta(t, 2.0/3.0*4, xs.AFull, 1.0e-12)
		assert.Greater(t, xs.RofY(0.5), 0.0)
	}
}

func TestCustomCurve(t *testing.T) {
	// a constant-width curve reproduces the open rectangle
	{
		xs, err := NewCustom([]float64{0, 0.5, 1}, utils.ConstArray(3, 2))
		assert.NoError(t, err)
		assert.True(t, xs.IsOpen())
		assert.InDelta(t, 2.0, xs.AFull, 1.0e-12)
		assert.InDelta(t, 1.0, xs.AofY(0.5), 1.0e-12)
		assert.InDelta(t, 2.0, xs.WofY(0.25), 1.0e-12)
		assert.InDelta(t, 0.5, xs.RofY(1), 1.0e-12) // A/P = 2/(2+1+1)
	}
	// a tapering curve that pinches shut is treated as closed
	{
		xs, err := NewCustom([]float64{0, 1, 2}, []float64{2, 2, 0})
		assert.NoError(t, err)
		assert.False(t, xs.IsOpen())
		assert.InDelta(t, 3.0, xs.AFull, 1.0e-12)
	}
	// malformed curves are rejected
	{
		_, err := NewCustom([]float64{0, 1}, []float64{1})
		assert.Error(t, err)
		_, err = NewCustom([]float64{0.5, 1}, []float64{1, 1})
		assert.Error(t, err)
		_, err = NewCustom([]float64{0, 1, 1}, []float64{1, 1, 1})
		assert.Error(t, err)
		_, err = NewCustom([]float64{0, 1}, []float64{1, -1})
		assert.Error(t, err)
	}
}
