package dynwave

import (
	"math"

	"github.com/notargets/godynwave/utils"
)

// physical length of link j's conduit (ft)
func (prj *Project) linkLength(j int) float64 {
	return prj.Conduits[prj.Links[j].SubIndex].Length
}

// linkFroude returns |v|/sqrt(g*yh) with yh the hydraulic depth A/W at
// depth y. Surcharged closed conduits and empty conduits report 0.
func (prj *Project) linkFroude(j int, v, y float64) float64 {
	var (
		xs = &prj.Links[j].Xsect
	)
	if y <= FUDGE {
		return 0
	}
	if !xs.IsOpen() && xs.YFull-y <= FUDGE {
		return 0
	}
	w := xs.WofY(y)
	if w <= FUDGE {
		return 0
	}
	yh := xs.AofY(y) / w
	return math.Abs(v) / math.Sqrt(GRAVITY*yh)
}

// linkYcrit finds the critical depth for flow q by bisecting
// g*A(y)^3/W(y) = q^2 over (0, yFull]; capped at yFull when the section
// cannot pass q under critical conditions.
func (prj *Project) linkYcrit(j int, q float64) float64 {
	var (
		xs  = &prj.Links[j].Xsect
		q2g = utils.POW(q, 2) / GRAVITY
	)
	if q <= 0 {
		return 0
	}
	f := func(y float64) float64 {
		w := math.Max(xs.WofY(y), FUDGE)
		return utils.POW(xs.AofY(y), 3)/w - q2g
	}
	if f(xs.YFull) <= 0 {
		return xs.YFull
	}
	return bisect(f, FUDGE, xs.YFull)
}

// linkYnorm finds the normal depth for flow q from the conduit's Manning
// conveyance beta*A*R^(2/3); capped at yFull.
func (prj *Project) linkYnorm(j int, q float64) float64 {
	var (
		link = &prj.Links[j]
		xs   = &link.Xsect
		beta = prj.Conduits[link.SubIndex].Beta
	)
	if q <= 0 {
		return 0
	}
	f := func(y float64) float64 {
		return beta*xs.AofY(y)*math.Pow(xs.RofY(y), 2./3.) - q
	}
	if f(xs.YFull) <= 0 {
		return xs.YFull
	}
	return bisect(f, FUDGE, xs.YFull)
}

// bisect assumes f(lo) < 0 < f(hi) for an increasing f and returns the
// root to a fixed 40-halving resolution.
func bisect(f func(float64) float64, lo, hi float64) float64 {
	for i := 0; i < 40; i++ {
		mid := 0.5 * (lo + hi)
		if f(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0.5 * (lo + hi)
}

// linkLossRate returns the conduit's evaporation + seepage loss rate
// (cfs), never exceeding the flow it is drawn from.
func (prj *Project) linkLossRate(j int, q, dt float64) float64 {
	var (
		cond = &prj.Conduits[prj.Links[j].SubIndex]
	)
	loss := cond.EvapLossRate + cond.SeepLossRate
	return math.Min(loss, math.Abs(q))
}

// linkSetFlapGate reports whether flow q is blocked: either reverse flow
// through the link's own flap gate, or flow leaving a gated outfall node.
func (prj *Project) linkSetFlapGate(j, n1, n2 int, q float64) bool {
	if prj.Links[j].HasFlapGate && q < 0 {
		return true
	}
	n := -1
	if q > 0 {
		n = n1
	}
	if q < 0 {
		n = n2
	}
	if n >= 0 && prj.Nodes[n].Type == Outfall && prj.Nodes[n].Gated {
		return true
	}
	return false
}

// linkFullState classifies which ends of the conduit are flowing full
func linkFullState(a1, a2, aFull float64) FullState {
	if a1 >= aFull && a2 >= aFull {
		return BothFull
	}
	if a1 >= aFull {
		return UpstreamFull
	}
	if a2 >= aFull {
		return DownstreamFull
	}
	return NeitherFull
}
