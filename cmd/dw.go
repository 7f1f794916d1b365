/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/godynwave/InputParameters"
	"github.com/notargets/godynwave/dynwave"
	"github.com/notargets/godynwave/xsect"
)

// PHI is the Manning equation conversion constant for US units
const PHI = 1.49

type ModelDW struct {
	InputFile string
	Profile   bool
}

// DWCmd represents the dw command
var DWCmd = &cobra.Command{
	Use:   "dw",
	Short: "Dynamic wave routing of a conduit scenario from a YAML file",
	Long: `
Reads a scenario of nodes and conduits, then advances the conduit flows
through Picard sub-iterations of the momentum equation at each time step,

godynwave dw -I scenario.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		mdw := &ModelDW{}
		if mdw.InputFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		mdw.Profile, _ = cmd.Flags().GetBool("profile")
		dw := processDWInput(mdw)
		RunDW(mdw, dw)
	},
}

func init() {
	rootCmd.AddCommand(DWCmd)
	DWCmd.Flags().StringP("inputFile", "I", "", "YAML scenario file with solver parameters, nodes and conduits")
	DWCmd.Flags().Bool("profile", false, "write a CPU profile of the routing run")
}

func processDWInput(mdw *ModelDW) (dw *InputParameters.DynamicWaveParameters) {
	var (
		err error
	)
	if len(mdw.InputFile) == 0 {
		fmt.Printf("error: must supply a scenario file (-I, --inputFile)\n")
		exampleFile := `
########################################
Title: "Free flowing pipe"
TimeStep: 30.
FinalTime: 3600.
RelaxationWeight: 0.5
MaxSubIterations: 8
InertialDamping: NONE
NormalFlowLimited: BOTH
Nodes:
  - {Name: J1, Type: JUNCTION, InvertElev: 1.0, InitDepth: 0.5}
  - {Name: O1, Type: OUTFALL, InvertElev: 0.0, InitDepth: 0.4}
Conduits:
  - {Name: C1, From: J1, To: O1, Shape: CIRCULAR, Diameter: 1.0,
     Length: 100., Roughness: 0.013, Barrels: 1, InitFlow: 1.0}
########################################
`
		fmt.Printf("example scenario file:%s", exampleFile)
		return nil
	}
	dw = &InputParameters.DynamicWaveParameters{}
	data, err := ioutil.ReadFile(mdw.InputFile)
	if err != nil {
		panic(err)
	}
	if err = dw.Parse(data); err != nil {
		panic(err)
	}
	dw.Print()
	return
}

func RunDW(mdw *ModelDW, dw *InputParameters.DynamicWaveParameters) {
	if dw == nil {
		return
	}
	if mdw.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	prj, err := BuildProject(dw)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		return
	}
	var (
		dt    = dw.TimeStep
		omega = dw.RelaxationWeight
		iters = dw.MaxSubIterations
	)
	if iters <= 0 {
		iters = 8
	}
	fmt.Printf("Dynamic Wave Routing\nTimeStep = %8.2f s, Omega = %5.2f, SubIterations = %d\n\n", dt, omega, iters)
	fmt.Printf("%10s %12s %12s %12s %14s\n", "Time(s)", "Flow(cfs)", "Depth(ft)", "Froude", "Class")
	for t := dt; t <= dw.FinalTime; t += dt {
		for steps := 0; steps < iters; steps++ {
			for j := range prj.Links {
				prj.FindConduitFlow(j, steps, omega, dt)
			}
		}
		// advance stored state to the next time step
		for j := range prj.Links {
			link := &prj.Links[j]
			cond := &prj.Conduits[link.SubIndex]
			link.OldFlow = link.NewFlow
			cond.A2 = cond.A1
		}
		for j := range prj.Links {
			link := &prj.Links[j]
			fmt.Printf("%10.0f %12.4f %12.4f %12.4f %14s\n",
				t, link.NewFlow, link.NewDepth, link.Froude, link.FlowClass)
		}
	}
}

// BuildProject assembles solver records from the parsed scenario,
// precomputing the per-conduit constants the momentum equation needs.
func BuildProject(dw *InputParameters.DynamicWaveParameters) (prj *dynwave.Project, err error) {
	prj = &dynwave.Project{}

	switch strings.ToUpper(dw.InertialDamping) {
	case "", "NONE":
		prj.InertDamping = dynwave.NoDamping
	case "PARTIAL":
		prj.InertDamping = dynwave.PartialDamping
	case "FULL":
		prj.InertDamping = dynwave.FullDamping
	default:
		err = fmt.Errorf("unknown InertialDamping %q", dw.InertialDamping)
		return
	}
	switch strings.ToUpper(dw.NormalFlowLimited) {
	case "SLOPE":
		prj.NormalFlowLtd = dynwave.LimitSlope
	case "FROUDE":
		prj.NormalFlowLtd = dynwave.LimitFroude
	case "", "BOTH":
		prj.NormalFlowLtd = dynwave.LimitBoth
	default:
		err = fmt.Errorf("unknown NormalFlowLimited %q", dw.NormalFlowLimited)
		return
	}

	nodeIndex := make(map[string]int)
	for _, ns := range dw.Nodes {
		var nt dynwave.NodeType
		switch strings.ToUpper(ns.Type) {
		case "", "JUNCTION":
			nt = dynwave.Junction
		case "OUTFALL":
			nt = dynwave.Outfall
		case "STORAGE":
			nt = dynwave.Storage
		default:
			err = fmt.Errorf("node %s: unknown type %q", ns.Name, ns.Type)
			return
		}
		nodeIndex[ns.Name] = len(prj.Nodes)
		prj.Nodes = append(prj.Nodes, dynwave.Node{
			Type:       nt,
			InvertElev: ns.InvertElev,
			NewDepth:   ns.InitDepth,
			Gated:      ns.Gated,
		})
	}

	for _, cs := range dw.Conduits {
		var (
			xs     xsect.Xsect
			n1, n2 int
			ok     bool
		)
		if n1, ok = nodeIndex[cs.From]; !ok {
			err = fmt.Errorf("conduit %s: unknown node %q", cs.Name, cs.From)
			return
		}
		if n2, ok = nodeIndex[cs.To]; !ok {
			err = fmt.Errorf("conduit %s: unknown node %q", cs.Name, cs.To)
			return
		}
		switch strings.ToUpper(cs.Shape) {
		case "", "CIRCULAR":
			xs = xsect.NewCircular(cs.Diameter)
		case "FORCE_MAIN":
			xs = xsect.NewForceMain(cs.Diameter, cs.HazenC)
		case "RECT_CLOSED":
			xs = xsect.NewRectClosed(cs.Base, cs.FullDepth)
		case "RECT_OPEN":
			xs = xsect.NewRectOpen(cs.Base, cs.FullDepth)
		case "TRIANGULAR":
			xs = xsect.NewTriangular(cs.FullDepth, cs.SideSlope)
		case "TRAPEZOIDAL":
			xs = xsect.NewTrapezoidal(cs.FullDepth, cs.Base, cs.SideSlope, cs.SideSlope)
		case "PARABOLIC":
			xs = xsect.NewParabolic(cs.FullDepth, cs.Base)
		default:
			err = fmt.Errorf("conduit %s: unknown shape %q", cs.Name, cs.Shape)
			return
		}
		xs.CulvertCode = cs.CulvertCode

		if cs.Length <= 0 {
			err = fmt.Errorf("conduit %s: length must be positive", cs.Name)
			return
		}
		barrels := float64(cs.Barrels)
		if barrels < 1 {
			barrels = 1
		}
		z1 := prj.Nodes[n1].InvertElev + cs.Offset1
		z2 := prj.Nodes[n2].InvertElev + cs.Offset2
		slope := math.Max(math.Abs(z1-z2)/cs.Length, 1.0e-5)
		n := cs.Roughness

		prj.Links = append(prj.Links, dynwave.Link{
			Node1:       n1,
			Node2:       n2,
			SubIndex:    len(prj.Conduits),
			Offset1:     cs.Offset1,
			Offset2:     cs.Offset2,
			Xsect:       xs,
			Setting:     1,
			QLimit:      cs.MaxFlow,
			CLossInlet:  cs.Kentry,
			CLossOutlet: cs.Kexit,
			CLossAvg:    cs.Kavg,
			HasFlapGate: cs.FlapGate,
			OldFlow:     cs.InitFlow,
		})
		prj.Conduits = append(prj.Conduits, dynwave.Conduit{
			Barrels:     barrels,
			Length:      cs.Length,
			ModLength:   cs.Length,
			Roughness:   n,
			RoughFactor: dynwave.GRAVITY * (n / PHI) * (n / PHI),
			Beta:        PHI / n * math.Sqrt(slope),
			Slope:       slope,
			HasLosses:   cs.Kentry > 0 || cs.Kexit > 0 || cs.Kavg > 0,
			Q1:          cs.InitFlow / barrels,
			Q2:          cs.InitFlow / barrels,
		})
	}
	return
}
