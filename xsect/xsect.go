package xsect

import (
	"math"

	"github.com/notargets/godynwave/utils"
)

// Shape is the cross section profile family of a conduit
type Shape uint8

const (
	Circular Shape = iota
	ForceMain
	RectClosed
	RectOpen
	Triangular
	Trapezoidal
	Parabolic
	Custom
)

var shapeNames = []string{
	"CIRCULAR",
	"FORCE_MAIN",
	"RECT_CLOSED",
	"RECT_OPEN",
	"TRIANGULAR",
	"TRAPEZOIDAL",
	"PARABOLIC",
	"CUSTOM",
}

func (s Shape) String() string {
	return shapeNames[s]
}

// IsOpen reports whether the shape family has a free surface at full depth
func (s Shape) IsOpen() bool {
	switch s {
	case RectOpen, Triangular, Trapezoidal, Parabolic:
		return true
	}
	return false
}

// Xsect holds the immutable geometric description of a conduit cross
// section. YFull and AFull are the depth and area at the full (crown)
// condition, WMax the maximum top width, RFull the full-flow hydraulic
// radius. Shape-specific parameters: Diameter for circular and force-main
// sections, Base and SideSlope/SideSlope2 for the prismatic open shapes.
type Xsect struct {
	Shape       Shape
	YFull       float64
	AFull       float64
	WMax        float64
	RFull       float64
	Diameter    float64
	Base        float64
	SideSlope   float64
	SideSlope2  float64
	CulvertCode int     // nonzero enables inlet-control culvert checks
	FmCoeff     float64 // Hazen-Williams C for force mains
	FmRough     float64 // Darcy-Weisbach roughness height (ft)
	FmDarcy     bool    // use Darcy-Weisbach instead of Hazen-Williams

	curve *customCurve
}

func NewCircular(diam float64) (xs Xsect) {
	xs = Xsect{
		Shape:    Circular,
		Diameter: diam,
		YFull:    diam,
		AFull:    math.Pi * diam * diam / 4,
		WMax:     diam,
		RFull:    diam / 4,
	}
	return
}

// NewForceMain uses circular geometry; cHW is the Hazen-Williams
// roughness coefficient applied when the section runs full.
func NewForceMain(diam, cHW float64) (xs Xsect) {
	xs = NewCircular(diam)
	xs.Shape = ForceMain
	xs.FmCoeff = cHW
	return
}

// NewForceMainDW selects the Darcy-Weisbach friction law with roughness
// height e (ft) for the surcharged friction slope.
func NewForceMainDW(diam, e float64) (xs Xsect) {
	xs = NewCircular(diam)
	xs.Shape = ForceMain
	xs.FmRough = e
	xs.FmDarcy = true
	return
}

func NewRectClosed(base, yFull float64) (xs Xsect) {
	xs = Xsect{
		Shape: RectClosed,
		Base:  base,
		YFull: yFull,
		AFull: base * yFull,
		WMax:  base,
	}
	xs.RFull = xs.AFull / (2 * (base + yFull))
	return
}

func NewRectOpen(base, yFull float64) (xs Xsect) {
	xs = Xsect{
		Shape: RectOpen,
		Base:  base,
		YFull: yFull,
		AFull: base * yFull,
		WMax:  base,
	}
	xs.RFull = xs.AFull / (base + 2*yFull)
	return
}

// NewTriangular describes a symmetric v-shaped channel; sideSlope is the
// horizontal run per unit depth of each side.
func NewTriangular(yFull, sideSlope float64) (xs Xsect) {
	xs = Xsect{
		Shape:     Triangular,
		YFull:     yFull,
		SideSlope: sideSlope,
		AFull:     sideSlope * utils.POW(yFull, 2),
		WMax:      2 * sideSlope * yFull,
	}
	xs.RFull = xs.AFull / (2 * yFull * math.Sqrt(1+sideSlope*sideSlope))
	return
}

func NewTrapezoidal(yFull, base, leftSlope, rightSlope float64) (xs Xsect) {
	var (
		sAvg = 0.5 * (leftSlope + rightSlope)
	)
	xs = Xsect{
		Shape:      Trapezoidal,
		YFull:      yFull,
		Base:       base,
		SideSlope:  leftSlope,
		SideSlope2: rightSlope,
		AFull:      (base + sAvg*yFull) * yFull,
		WMax:       base + 2*sAvg*yFull,
	}
	xs.RFull = xs.AFull / wettedPerimTrap(&xs, yFull)
	return
}

func NewParabolic(yFull, topWidth float64) (xs Xsect) {
	xs = Xsect{
		Shape: Parabolic,
		YFull: yFull,
		WMax:  topWidth,
		AFull: 2. / 3. * topWidth * yFull,
	}
	xs.RFull = xs.AFull / wettedPerimParab(&xs, yFull, topWidth)
	return
}

// AofY returns flow area (ft2) at depth y
func (xs *Xsect) AofY(y float64) (a float64) {
	if y <= 0 {
		return 0
	}
	if y >= xs.YFull {
		return xs.AFull
	}
	switch xs.Shape {
	case Circular, ForceMain:
		theta := circTheta(y, xs.Diameter)
		a = xs.Diameter * xs.Diameter / 8 * (theta - math.Sin(theta))
	case RectClosed, RectOpen:
		a = xs.Base * y
	case Triangular:
		a = xs.SideSlope * utils.POW(y, 2)
	case Trapezoidal:
		a = (xs.Base + 0.5*(xs.SideSlope+xs.SideSlope2)*y) * y
	case Parabolic:
		a = 2. / 3. * xs.WofY(y) * y
	case Custom:
		a = xs.curve.areaOf(y)
	}
	return
}

// WofY returns the top width (ft) of the flow surface at depth y
func (xs *Xsect) WofY(y float64) (w float64) {
	if y <= 0 {
		return 0
	}
	if y > xs.YFull {
		y = xs.YFull
	}
	switch xs.Shape {
	case Circular, ForceMain:
		theta := circTheta(y, xs.Diameter)
		w = xs.Diameter * math.Sin(theta/2)
	case RectClosed, RectOpen:
		w = xs.Base
	case Triangular:
		w = 2 * xs.SideSlope * y
	case Trapezoidal:
		w = xs.Base + (xs.SideSlope+xs.SideSlope2)*y
	case Parabolic:
		w = xs.WMax * math.Sqrt(y/xs.YFull)
	case Custom:
		w = xs.curve.widthOf(y)
	}
	return
}

// RofY returns the hydraulic radius (ft) at depth y
func (xs *Xsect) RofY(y float64) (r float64) {
	if y <= 0 {
		return 0
	}
	if y > xs.YFull {
		y = xs.YFull
	}
	var p float64
	switch xs.Shape {
	case Circular, ForceMain:
		theta := circTheta(y, xs.Diameter)
		p = theta * xs.Diameter / 2
	case RectClosed:
		p = xs.Base + 2*y
		if y >= xs.YFull {
			p += xs.Base
		}
	case RectOpen:
		p = xs.Base + 2*y
	case Triangular:
		p = 2 * y * math.Sqrt(1+xs.SideSlope*xs.SideSlope)
	case Trapezoidal:
		p = wettedPerimTrap(xs, y)
	case Parabolic:
		p = wettedPerimParab(xs, y, xs.WofY(y))
	case Custom:
		return xs.curve.hydRadOf(y)
	}
	if p <= 0 {
		return 0
	}
	r = xs.AofY(y) / p
	return
}

// IsOpen reports whether the section has a free surface at its crown
func (xs *Xsect) IsOpen() bool {
	if xs.Shape == Custom {
		return xs.curve.open
	}
	return xs.Shape.IsOpen()
}

// central angle subtended by the free surface chord of a circular section
func circTheta(y, diam float64) (theta float64) {
	var (
		arg = 1 - 2*y/diam
	)
	if arg < -1 {
		arg = -1
	}
	if arg > 1 {
		arg = 1
	}
	theta = 2 * math.Acos(arg)
	return
}

func wettedPerimTrap(xs *Xsect, y float64) float64 {
	return xs.Base + y*(math.Sqrt(1+xs.SideSlope*xs.SideSlope)+
		math.Sqrt(1+xs.SideSlope2*xs.SideSlope2))
}

func wettedPerimParab(xs *Xsect, y, w float64) float64 {
	if w <= 0 {
		return 0
	}
	return w + 8*utils.POW(y, 2)/(3*w)
}
