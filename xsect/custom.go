package xsect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// customCurve backs the CUSTOM shape with piecewise-linear interpolants
// fitted to a caller-supplied depth vs top-width curve. Area and wetted
// perimeter are accumulated once per segment at build time; lookups at
// solve time are pure interpolation.
type customCurve struct {
	yMin, yMax float64
	open       bool
	width      interp.PiecewiseLinear
	area       interp.PiecewiseLinear
	perim      interp.PiecewiseLinear
}

// NewCustom builds a cross section from a depth/top-width curve. Depths
// must be strictly increasing starting at 0; widths non-negative. The
// section is treated as closed when the final width is (near) zero.
func NewCustom(depth, width []float64) (xs Xsect, err error) {
	var (
		n = len(depth)
	)
	if n < 2 || len(width) != n {
		err = fmt.Errorf("custom shape needs matching depth/width curves of at least 2 points")
		return
	}
	if depth[0] != 0 {
		err = fmt.Errorf("custom shape depth curve must start at 0")
		return
	}
	for i := 1; i < n; i++ {
		if depth[i] <= depth[i-1] {
			err = fmt.Errorf("custom shape depths must be strictly increasing")
			return
		}
	}
	for i := 0; i < n; i++ {
		if width[i] < 0 {
			err = fmt.Errorf("custom shape widths must be non-negative")
			return
		}
	}

	// trapezoid-rule area and side-segment perimeter increments,
	// accumulated with a running sum
	dArea := make([]float64, n)
	dPerim := make([]float64, n)
	dPerim[0] = width[0] // flat bottom contributes to wetted perimeter
	for i := 1; i < n; i++ {
		dy := depth[i] - depth[i-1]
		dw := width[i] - width[i-1]
		dArea[i] = 0.5 * (width[i] + width[i-1]) * dy
		dPerim[i] = 2 * math.Hypot(dy, 0.5*dw)
	}
	floats.CumSum(dArea, dArea)
	floats.CumSum(dPerim, dPerim)

	c := &customCurve{
		yMin: depth[0],
		yMax: depth[n-1],
		open: width[n-1] > 1e-4*floats.Max(width),
	}
	if err = c.width.Fit(depth, width); err != nil {
		return
	}
	if err = c.area.Fit(depth, dArea); err != nil {
		return
	}
	if err = c.perim.Fit(depth, dPerim); err != nil {
		return
	}

	xs = Xsect{
		Shape: Custom,
		YFull: depth[n-1],
		AFull: dArea[n-1],
		WMax:  floats.Max(width),
		curve: c,
	}
	if dPerim[n-1] > 0 {
		xs.RFull = dArea[n-1] / dPerim[n-1]
	}
	return
}

func (c *customCurve) clamp(y float64) float64 {
	if y < c.yMin {
		y = c.yMin
	}
	if y > c.yMax {
		y = c.yMax
	}
	return y
}

func (c *customCurve) widthOf(y float64) float64 {
	return c.width.Predict(c.clamp(y))
}

func (c *customCurve) areaOf(y float64) float64 {
	return c.area.Predict(c.clamp(y))
}

func (c *customCurve) hydRadOf(y float64) float64 {
	p := c.perim.Predict(c.clamp(y))
	if p <= 0 {
		return 0
	}
	return c.area.Predict(c.clamp(y)) / p
}
