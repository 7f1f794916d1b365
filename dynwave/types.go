package dynwave

import (
	"github.com/notargets/godynwave/xsect"
)

const (
	FUDGE       = 1.0e-6 // minimum meaningful depth or area (ft, ft2)
	GRAVITY     = 32.2   // ft/s2
	MAXVELOCITY = 50.0   // velocity cap used in momentum terms (ft/s)
)

type NodeType uint8

const (
	Junction NodeType = iota
	Outfall
	Storage
)

// Node is the endpoint record a conduit reads during a sub-iteration.
// NewDepth is the current-iteration water depth above InvertElev; the
// network loop owns writing it between sub-iterations.
type Node struct {
	Type       NodeType
	InvertElev float64
	NewDepth   float64
	Gated      bool // outfall discharges through a flap gate
}

type FlowClass uint8

const (
	Subcritical FlowClass = iota
	Supcritical
	UpCritical
	DnCritical
	UpDry
	DnDry
	Dry
)

var flowClassNames = []string{
	"SUBCRITICAL",
	"SUPCRITICAL",
	"UP_CRITICAL",
	"DN_CRITICAL",
	"UP_DRY",
	"DN_DRY",
	"DRY",
}

func (fc FlowClass) String() string {
	return flowClassNames[fc]
}

type FullState uint8

const (
	NeitherFull FullState = iota
	UpstreamFull
	DownstreamFull
	BothFull
)

type DampingMode uint8

const (
	NoDamping DampingMode = iota
	PartialDamping
	FullDamping
)

type NormalFlowLimit uint8

const (
	LimitSlope NormalFlowLimit = iota
	LimitFroude
	LimitBoth
)

// Link carries the per-sub-iteration dynamic state of a conduit link plus
// its static loss coefficients and endpoint wiring. Flow quantities here
// are multi-barrel totals; the per-barrel iterates live on Conduit.
type Link struct {
	Node1, Node2     int
	SubIndex         int // index into Project.Conduits
	Offset1, Offset2 float64
	Xsect            xsect.Xsect
	Setting          float64 // 0 = closed by external control
	QLimit           float64 // user flow cap, 0 = none
	CLossInlet       float64
	CLossOutlet      float64
	CLossAvg         float64
	HasFlapGate      bool

	OldFlow      float64 // flow at previous time step
	NewFlow      float64
	NewDepth     float64
	NewVolume    float64
	SurfArea1    float64
	SurfArea2    float64
	DqDh         float64
	Froude       float64
	FlowClass    FlowClass
	InletControl bool
	NormalFlow   bool
}

// Conduit holds the single-barrel hydraulic state and the precomputed
// constants the momentum equation needs. ModLength is the Courant-modified
// length, never less than the physical Length. RoughFactor is
// g*(n/1.49)^2; Beta is the normal-flow conveyance coefficient
// 1.49/n*sqrt(slope).
type Conduit struct {
	Barrels      float64
	Length       float64
	ModLength    float64
	Roughness    float64
	RoughFactor  float64
	Beta         float64
	Slope        float64
	HasLosses    bool
	EvapLossRate float64 // cfs
	SeepLossRate float64 // cfs

	Q1, Q2    float64 // current-iteration flow estimates (per barrel)
	A1, A2    float64 // current and prior-timestep mid-conduit area
	FullState FullState
}

// Project is the explicit solver context: node, link and conduit arrays
// plus the two global limitation flags, all read-only for a conduit except
// the conduit's own link and conduit records.
type Project struct {
	Nodes    []Node
	Links    []Link
	Conduits []Conduit

	InertDamping  DampingMode
	NormalFlowLtd NormalFlowLimit
}
