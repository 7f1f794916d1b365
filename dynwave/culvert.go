package dynwave

import (
	"math"
)

// FHWA inlet-control coefficients, indexed by culvert code. K and M drive
// the unsubmerged weir-like form, C and Y the submerged orifice-like form.
type culvertParams struct {
	K, M, C, Y float64
}

var culvertCoeffs = []culvertParams{
	{}, // code 0 = not a culvert
	{0.0098, 2.00, 0.0398, 0.67}, // 1: circular concrete, square edge w/ headwall
	{0.0018, 2.00, 0.0292, 0.74}, // 2: circular concrete, groove end w/ headwall
	{0.0045, 2.00, 0.0317, 0.69}, // 3: circular concrete, groove end projecting
	{0.0078, 2.00, 0.0379, 0.69}, // 4: circular CMP, headwall
	{0.0210, 1.33, 0.0463, 0.75}, // 5: circular CMP, mitered to slope
	{0.0340, 1.50, 0.0553, 0.54}, // 6: circular CMP, projecting
	{0.0260, 1.00, 0.0347, 0.81}, // 7: box, 30-75 deg wingwall flares
	{0.0610, 0.75, 0.0400, 0.80}, // 8: box, 90 or 15 deg wingwall flares
}

// culvertInflow caps positive flow at the culvert's inlet-control
// capacity for headwater depth h1 above the inlet invert, using the FHWA
// unsubmerged form below HW/D = 1.2 and the submerged form above it.
// Sets the link's InletControl flag when the cap binds.
func (prj *Project) culvertInflow(j int, q, h1 float64) float64 {
	var (
		link = &prj.Links[j]
		xs   = &link.Xsect
		code = xs.CulvertCode
	)
	if code <= 0 || code >= len(culvertCoeffs) {
		return q
	}
	p := culvertCoeffs[code]

	hw := h1 - (prj.Nodes[link.Node1].InvertElev + link.Offset1)
	if hw <= 0 {
		return q
	}

	var (
		yFull = xs.YFull
		ad    = xs.AFull * math.Sqrt(yFull) // A*D^0.5 normalization
		ratio = hw / yFull
		qCap  float64
	)
	if ratio <= 1.2 {
		qCap = ad * math.Pow(ratio/p.K, 1/p.M)
	} else {
		slope := prj.Conduits[link.SubIndex].Slope
		arg := (ratio - p.Y + 0.5*slope) / p.C
		if arg <= 0 {
			return q
		}
		qCap = ad * math.Sqrt(arg)
	}

	if qCap < q {
		link.InletControl = true
		return qCap
	}
	return q
}
