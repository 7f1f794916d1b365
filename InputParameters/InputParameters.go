package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type DynamicWaveParameters struct {
	Title             string        `yaml:"Title"`
	TimeStep          float64       `yaml:"TimeStep"` // seconds
	FinalTime         float64       `yaml:"FinalTime"`
	RelaxationWeight  float64       `yaml:"RelaxationWeight"` // omega in (0,1]
	MaxSubIterations  int           `yaml:"MaxSubIterations"`
	InertialDamping   string        `yaml:"InertialDamping"`   // NONE | PARTIAL | FULL
	NormalFlowLimited string        `yaml:"NormalFlowLimited"` // SLOPE | FROUDE | BOTH
	Nodes             []NodeSpec    `yaml:"Nodes"`
	Conduits          []ConduitSpec `yaml:"Conduits"`
}

type NodeSpec struct {
	Name       string  `yaml:"Name"`
	Type       string  `yaml:"Type"` // JUNCTION | OUTFALL | STORAGE
	InvertElev float64 `yaml:"InvertElev"`
	InitDepth  float64 `yaml:"InitDepth"`
	Gated      bool    `yaml:"Gated"`
}

type ConduitSpec struct {
	Name        string  `yaml:"Name"`
	From        string  `yaml:"From"`
	To          string  `yaml:"To"`
	Shape       string  `yaml:"Shape"` // CIRCULAR | FORCE_MAIN | RECT_CLOSED | RECT_OPEN | TRIANGULAR | TRAPEZOIDAL | PARABOLIC
	Diameter    float64 `yaml:"Diameter"`
	Base        float64 `yaml:"Base"`
	FullDepth   float64 `yaml:"FullDepth"`
	SideSlope   float64 `yaml:"SideSlope"`
	HazenC      float64 `yaml:"HazenC"`
	Length      float64 `yaml:"Length"`
	Roughness   float64 `yaml:"Roughness"` // Manning n
	Offset1     float64 `yaml:"Offset1"`
	Offset2     float64 `yaml:"Offset2"`
	Barrels     int     `yaml:"Barrels"`
	InitFlow    float64 `yaml:"InitFlow"`
	MaxFlow     float64 `yaml:"MaxFlow"`
	Kentry      float64 `yaml:"Kentry"`
	Kexit       float64 `yaml:"Kexit"`
	Kavg        float64 `yaml:"Kavg"`
	FlapGate    bool    `yaml:"FlapGate"`
	CulvertCode int     `yaml:"CulvertCode"`
}

func (dw *DynamicWaveParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, dw)
}

func (dw *DynamicWaveParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", dw.Title)
	fmt.Printf("%8.5f\t\t= TimeStep\n", dw.TimeStep)
	fmt.Printf("%8.5f\t\t= FinalTime\n", dw.FinalTime)
	fmt.Printf("%8.5f\t\t= RelaxationWeight\n", dw.RelaxationWeight)
	fmt.Printf("[%d]\t\t\t= MaxSubIterations\n", dw.MaxSubIterations)
	fmt.Printf("[%s]\t\t\t= InertialDamping\n", dw.InertialDamping)
	fmt.Printf("[%s]\t\t\t= NormalFlowLimited\n", dw.NormalFlowLimited)
	names := make([]string, len(dw.Conduits))
	for i, c := range dw.Conduits {
		names[i] = c.Name
	}
	sort.Strings(names)
	for _, name := range names {
		for _, c := range dw.Conduits {
			if c.Name == name {
				fmt.Printf("Conduit[%s] = %s %s -> %s\n", name, c.Shape, c.From, c.To)
			}
		}
	}
}
