package dynwave

import (
	"math"
)

// forcemainFricSlope returns g*Sf/|v| (1/s) for a surcharged force main,
// the quantity the friction term dq1 multiplies by dt. v must be the
// velocity magnitude, r the hydraulic radius. Hazen-Williams by default;
// Darcy-Weisbach with a fully-rough friction factor when the section
// selects it.
func (prj *Project) forcemainFricSlope(j int, v, r float64) float64 {
	var (
		xs = &prj.Links[j].Xsect
	)
	r = math.Max(r, FUDGE)
	if xs.FmDarcy {
		f := dwFricFactor(xs.FmRough, r)
		return f * v / (8 * r)
	}
	// Hazen-Williams: Sf = (v / (1.318*C*R^0.63))^1.852
	return GRAVITY * math.Pow(v, 0.852) /
		math.Pow(1.318*xs.FmCoeff*math.Pow(r, 0.63), 1.852)
}

// fully-rough Colebrook friction factor (Swamee-Jain high-Re limit) for
// roughness height e and hydraulic radius r
func dwFricFactor(e, r float64) float64 {
	arg := e / (14.8 * r)
	if arg < 1.0e-7 {
		arg = 1.0e-7
	}
	if arg > 0.5 {
		arg = 0.5
	}
	d := math.Log10(arg)
	return 0.25 / (d * d)
}
