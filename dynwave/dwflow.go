package dynwave

import (
	"math"

	"github.com/notargets/godynwave/utils"
	"github.com/notargets/godynwave/xsect"
)

// FindConduitFlow updates the flow in conduit link j by solving a finite
// difference form of the momentum equation between the link's two end
// nodes. steps is the sub-iteration index (under-relaxation applies after
// the first), omega the under-relaxation weight in (0,1], dt the time step
// in seconds. Results are written in place to the link and conduit
// records: NewFlow, NewDepth, NewVolume, SurfArea1/2, DqDh, Froude,
// FlowClass, and the conduit's Q1/Q2/A1/FullState.
func (prj *Project) FindConduitFlow(j, steps int, omega, dt float64) {
	var (
		link     = &prj.Links[j]
		k        = link.SubIndex
		cond     = &prj.Conduits[k]
		xs       = &link.Xsect
		isFull   bool
		isClosed bool
	)

	// closed by control action
	if link.Setting == 0 {
		isClosed = true
	}

	// flow from last time step and previous iteration, per barrel
	barrels := cond.Barrels
	qOld := link.OldFlow / barrels
	qLast := cond.Q1

	// current heads at the two ends, floored at the conduit inverts
	n1, n2 := link.Node1, link.Node2
	z1 := prj.Nodes[n1].InvertElev + link.Offset1
	z2 := prj.Nodes[n2].InvertElev + link.Offset2
	h1 := prj.Nodes[n1].NewDepth + prj.Nodes[n1].InvertElev
	h2 := prj.Nodes[n2].NewDepth + prj.Nodes[n2].InvertElev
	h1 = math.Max(h1, z1)
	h2 = math.Max(h2, z2)

	// unadjusted end depths, kept inside [FUDGE, yFull]
	y1 := math.Min(math.Max(h1-z1, FUDGE), xs.YFull)
	y2 := math.Min(math.Max(h2-z2, FUDGE), xs.YFull)

	// area from the previous time step
	aOld := math.Max(cond.A2, FUDGE)

	// Courant-modified length instead of the physical length
	length := cond.ModLength

	// distribute free-surface area to the end nodes based on the previous
	// iteration's flow estimate; may revise heads and depths
	h1, h2, y1, y2 = prj.findSurfArea(j, qLast, length, h1, h2, y1, y2)

	// geometry at each end and at the midpoint
	a1 := getArea(xs, y1)
	a2 := getArea(xs, y2)
	r1 := getHydRad(xs, y1)
	yMid := 0.5 * (y1 + y2)
	aMid := getArea(xs, yMid)
	rMid := getHydRad(xs, yMid)

	if y1 >= xs.YFull && y2 >= xs.YFull {
		isFull = true
	}

	// dry, closed or degenerate conduits carry no flow
	if link.FlowClass == Dry ||
		link.FlowClass == UpDry ||
		link.FlowClass == DnDry ||
		isClosed ||
		aMid <= FUDGE {
		cond.A1 = 0.5 * (a1 + a2)
		cond.Q1 = 0
		cond.Q2 = 0
		link.DqDh = GRAVITY * dt * aMid / length * barrels
		link.Froude = 0
		link.NewDepth = math.Min(yMid, xs.YFull)
		link.NewVolume = cond.A1 * prj.linkLength(j) * barrels
		link.NewFlow = 0
		return
	}

	// velocity from the last flow estimate, sign-preserving cap
	v := qLast / aMid
	if math.Abs(v) > MAXVELOCITY {
		v = MAXVELOCITY * utils.Sgn(qLast)
	}

	link.Froude = prj.linkFroude(j, v, yMid)
	if link.FlowClass == Subcritical && link.Froude > 1 {
		link.FlowClass = Supcritical
	}

	// inertial damping factor
	var sigma float64
	switch {
	case link.Froude <= 0.5:
		sigma = 1
	case link.Froude >= 1:
		sigma = 0
	default:
		sigma = 2 * (1 - link.Froude)
	}

	// upstream-weighted area and hydraulic radius
	rho := 1.0
	if !isFull && qLast > 0 && h1 >= h2 {
		rho = sigma
	}
	aWtd := a1 + (aMid-a1)*rho
	rWtd := r1 + (rMid-r1)*rho

	switch prj.InertDamping {
	case NoDamping:
		sigma = 1
	case FullDamping:
		sigma = 0
	}

	// surcharged closed conduits get full damping
	if isFull && !xs.IsOpen() {
		sigma = 0
	}

	// momentum equation terms
	// 1. friction slope
	var dq1 float64
	if xs.Shape == xsect.ForceMain && isFull {
		dq1 = dt * prj.forcemainFricSlope(j, math.Abs(v), rMid)
	} else {
		dq1 = dt * cond.RoughFactor / math.Pow(rWtd, 1.33333) * math.Abs(v)
	}

	// 2. energy slope
	dq2 := dt * GRAVITY * aWtd * (h2 - h1) / length

	// 3 & 4. local and convective inertia
	var dq3, dq4 float64
	if sigma > 0 {
		dq3 = 2 * v * (aMid - aOld) * sigma
		dq4 = dt * v * v * (a2 - a1) / length * sigma
	}

	// 5. local losses
	var dq5 float64
	if cond.HasLosses {
		dq5 = prj.findLocalLosses(j, a1, a2, aMid, qLast) / 2 / length * dt
	}

	// 6. evaporation and seepage losses per unit length
	dq6 := prj.linkLossRate(j, qOld, dt) * 2.5 * dt * v / prj.linkLength(j)

	// combine terms into the new flow
	denom := 1 + dq1 + dq5
	q := (qOld - dq2 + dq3 + dq4 - dq6) / denom

	// derivative of flow w.r.t. head for the outer iteration
	link.DqDh = 1 / denom * GRAVITY * dt * aWtd / length * barrels

	// flow limitations
	link.InletControl = false
	link.NormalFlow = false
	if q > 0 {
		if xs.CulvertCode > 0 && !isFull {
			q = prj.culvertInflow(j, q, h1)
		} else if y1 < xs.YFull &&
			(link.FlowClass == Subcritical || link.FlowClass == Supcritical) {
			q = prj.checkNormalFlow(j, q, y1, y2, a1, r1)
		}
	}

	// under-relax against the previous iterate; a change of flow direction
	// must first pass through (near) zero
	if steps > 0 {
		q = (1-omega)*qLast + omega*q
		if q*qLast < 0 {
			q = 0.001 * utils.Sgn(q)
		}
	}

	// user-supplied flow limit
	if link.QLimit > 0 && math.Abs(q) > link.QLimit {
		q = utils.Sgn(q) * link.QLimit
	}

	// reverse flow through a closed flap gate
	if prj.linkSetFlapGate(j, n1, n2, q) {
		q = 0
	}

	// no flow out of a dry node
	if q > FUDGE && prj.Nodes[n1].NewDepth <= FUDGE {
		q = FUDGE
	}
	if q < -FUDGE && prj.Nodes[n2].NewDepth <= FUDGE {
		q = -FUDGE
	}

	// store new area, flow, depth and volume
	cond.A1 = aMid
	cond.Q1 = q
	cond.Q2 = q
	link.NewDepth = math.Min(yMid, xs.YFull)
	aMid = math.Min(0.5*(a1+a2), xs.AFull)
	cond.FullState = linkFullState(a1, a2, xs.AFull)
	link.NewVolume = aMid * prj.linkLength(j) * barrels
	link.NewFlow = q * barrels
}

// getFlowClass classifies the conduit's flow regime from its end depths
// and heads. It is pure: no link state is touched. Returns the class, the
// normal and critical depths for |q| (defaulting to the mean end depth
// when the class does not require them) and the fasnh blending fraction
// used by the surface-area distribution.
//
// An outfall node lowers the effective invert offset by its own water
// depth, floored at zero; when that leaves the offset exactly zero the
// critical-depth branches are intentionally unreachable and the conduit
// stays SUBCRITICAL.
func (prj *Project) getFlowClass(j int, q, h1, h2, y1, y2 float64) (fc FlowClass, yN, yC, fasnh float64) {
	var (
		link   = prj.Links[j]
		n1, n2 = link.Node1, link.Node2
		z1     = link.Offset1
		z2     = link.Offset2
	)
	if prj.Nodes[n1].Type == Outfall {
		z1 = math.Max(0, z1-prj.Nodes[n1].NewDepth)
	}
	if prj.Nodes[n2].Type == Outfall {
		z2 = math.Max(0, z2-prj.Nodes[n2].NewDepth)
	}

	fc = Subcritical
	fasnh = 1.0
	yN = 0.5 * (y1 + y2)
	yC = yN

	switch {
	// both ends wet
	case y1 > FUDGE && y2 > FUDGE:
		if q < 0 {
			// reverse flow: upstream end at critical depth when its
			// depth sits below critical and an upstream offset exists
			if z1 > 0 {
				yN = prj.linkYnorm(j, math.Abs(q))
				yC = prj.linkYcrit(j, math.Abs(q))
				if y1 < math.Min(yN, yC) {
					fc = UpCritical
				}
			}
		} else {
			// normal direction: downstream end at the smaller of
			// critical and normal depth when below it and a downstream
			// offset exists
			if z2 > 0 {
				yN = prj.linkYnorm(j, math.Abs(q))
				yC = prj.linkYcrit(j, math.Abs(q))
				ycMin := math.Min(yN, yC)
				ycMax := math.Max(yN, yC)
				if y2 < ycMin {
					fc = DnCritical
				} else if y2 < ycMax {
					if ycMax-ycMin < FUDGE {
						fasnh = 0
					} else {
						fasnh = (ycMax - y2) / (ycMax - ycMin)
					}
				}
			}
		}

	// both ends dry
	case y1 <= FUDGE && y2 <= FUDGE:
		fc = Dry

	// downstream wet, upstream dry
	case y2 > FUDGE:
		if h2 < prj.Nodes[n1].InvertElev+link.Offset1 {
			fc = UpDry
		} else if z1 > 0 {
			// downstream head reaches the upstream invert: flow
			// reversal with the upstream end at critical depth
			yN = prj.linkYnorm(j, math.Abs(q))
			yC = prj.linkYcrit(j, math.Abs(q))
			fc = UpCritical
		}

	// upstream wet, downstream dry
	default:
		if h1 < prj.Nodes[n2].InvertElev+link.Offset2 {
			fc = DnDry
		} else if z2 > 0 {
			yN = prj.linkYnorm(j, math.Abs(q))
			yC = prj.linkYcrit(j, math.Abs(q))
			fc = DnCritical
		}
	}
	return
}

// findSurfArea assigns the conduit's free-surface area to its end nodes
// based on the flow class, writing SurfArea1/2 and FlowClass to the link
// and returning the possibly revised heads and depths.
func (prj *Project) findSurfArea(j int, q, length float64, h1, h2, y1, y2 float64) (float64, float64, float64, float64) {
	var (
		link                 = &prj.Links[j]
		xs                   = &link.Xsect
		n1, n2               = link.Node1, link.Node2
		surfArea1, surfArea2 float64
		width1, width2       float64
		widthMid             float64
		yMid                 float64
	)

	fc, yNorm, yCrit, fasnh := prj.getFlowClass(j, q, h1, h2, y1, y2)
	link.FlowClass = fc

	switch fc {
	case Subcritical:
		yMid = math.Max(0.5*(y1+y2), FUDGE)
		width1 = getWidth(xs, y1)
		width2 = getWidth(xs, y2)
		widthMid = getWidth(xs, yMid)
		surfArea1 = (width1 + widthMid) * length / 4
		surfArea2 = (widthMid + width2) * length / 4 * fasnh

	case UpCritical:
		y1 = yCrit
		if yNorm < yCrit {
			y1 = yNorm
		}
		y1 = math.Max(y1, FUDGE)
		h1 = prj.Nodes[n1].InvertElev + link.Offset1 + y1
		yMid = math.Max(0.5*(y1+y2), FUDGE)
		width2 = getWidth(xs, y2)
		widthMid = getWidth(xs, yMid)
		surfArea2 = (widthMid + width2) * length * 0.5

	case DnCritical:
		y2 = yCrit
		if yNorm < yCrit {
			y2 = yNorm
		}
		y2 = math.Max(y2, FUDGE)
		h2 = prj.Nodes[n2].InvertElev + link.Offset2 + y2
		width1 = getWidth(xs, y1)
		yMid = math.Max(0.5*(y1+y2), FUDGE)
		widthMid = getWidth(xs, yMid)
		surfArea1 = (width1 + widthMid) * length * 0.5

	case UpDry:
		y1 = FUDGE
		yMid = math.Max(0.5*(y1+y2), FUDGE)
		width1 = getWidth(xs, y1)
		width2 = getWidth(xs, y2)
		widthMid = getWidth(xs, yMid)

		// downstream node always gets the downstream half; the upstream
		// node only when there is no free-fall over an upstream offset
		surfArea2 = (widthMid + width2) * length / 4
		if link.Offset1 <= 0 {
			surfArea1 = (width1 + widthMid) * length / 4
		}

	case DnDry:
		y2 = FUDGE
		yMid = math.Max(0.5*(y1+y2), FUDGE)
		width1 = getWidth(xs, y1)
		width2 = getWidth(xs, y2)
		widthMid = getWidth(xs, yMid)

		surfArea1 = (widthMid + width1) * length / 4
		if link.Offset2 <= 0 {
			surfArea2 = (width2 + widthMid) * length / 4
		}

	case Dry:
		surfArea1 = FUDGE * length / 2
		surfArea2 = surfArea1
	}

	link.SurfArea1 = surfArea1
	link.SurfArea2 = surfArea2
	return h1, h2, y1, y2
}

// findLocalLosses sums the entrance, exit and average loss terms of the
// momentum equation, skipping any with a degenerate area.
func (prj *Project) findLocalLosses(j int, a1, a2, aMid, q float64) (losses float64) {
	var (
		link = &prj.Links[j]
	)
	q = math.Abs(q)
	if a1 > FUDGE {
		losses += link.CLossInlet * q / a1
	}
	if a2 > FUDGE {
		losses += link.CLossOutlet * q / a2
	}
	if aMid > FUDGE {
		losses += link.CLossAvg * q / aMid
	}
	return
}

// checkNormalFlow replaces the dynamic flow with the normal flow
// beta*a1*r1^(2/3) when the configured limitation criteria trigger.
// Outfall-adjacent conduits always use the slope criterion and never the
// Froude criterion.
func (prj *Project) checkNormalFlow(j int, q, y1, y2, a1, r1 float64) float64 {
	var (
		link       = &prj.Links[j]
		k          = link.SubIndex
		n1, n2     = link.Node1, link.Node2
		hasOutfall = prj.Nodes[n1].Type == Outfall || prj.Nodes[n2].Type == Outfall
		check      bool
	)

	// water surface slope less than conduit slope
	if prj.NormalFlowLtd == LimitSlope || prj.NormalFlowLtd == LimitBoth || hasOutfall {
		if y1 < y2 {
			check = true
		}
	}

	// Froude number at the upstream end at or above critical
	if !check && (prj.NormalFlowLtd == LimitFroude || prj.NormalFlowLtd == LimitBoth) &&
		!hasOutfall {
		if y1 > FUDGE && y2 > FUDGE {
			if prj.linkFroude(j, q/a1, y1) >= 1 {
				check = true
			}
		}
	}

	if check {
		qNorm := prj.Conduits[k].Beta * a1 * math.Pow(r1, 2./3.)
		if qNorm < q {
			link.NormalFlow = true
			return qNorm
		}
	}
	return q
}

// getWidth evaluates top width with the closed-conduit crown correction:
// above 96% of full depth a closed section's width is held at its value
// at 0.96*yFull so the free surface width cannot collapse to zero.
func getWidth(xs *xsect.Xsect, y float64) float64 {
	if y/xs.YFull > 0.96 && !xs.IsOpen() {
		y = 0.96 * xs.YFull
	}
	return xs.WofY(y)
}

func getArea(xs *xsect.Xsect, y float64) float64 {
	return xs.AofY(math.Min(y, xs.YFull))
}

func getHydRad(xs *xsect.Xsect, y float64) float64 {
	return xs.RofY(math.Min(y, xs.YFull))
}
