package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
)

type GridParameters struct {
	NX int     `json:"NX"`
	NY int     `json:"NY"`
	LX float64 `json:"LX"`
	LY float64 `json:"LY"`
}

type NewtonParameters struct {
	MaxIterations    int     `json:"MaxIterations"`
	Tolerance        float64 `json:"Tolerance"`
	MaxDampingCuts   int     `json:"MaxDampingCuts"`
	MaxTimeStepCuts  int     `json:"MaxTimeStepCuts"`
	TargetIterations int     `json:"TargetIterations"`
}

type ConstraintSolverParameters struct {
	MaxIterations int     `json:"MaxIterations"`
	Tolerance     float64 `json:"Tolerance"`
}

// BoundaryCondition applies Type to every equation of a domain side unless
// Types names one condition per equation. Values holds the Dirichlet values
// or the Neumann fluxes, one per equation.
type BoundaryCondition struct {
	Type   string    `json:"Type"`
	Types  []string  `json:"Types"`
	Values []float64 `json:"Values"`
}

func (bc BoundaryCondition) flags(numEq int) (flags []types.BCFLAG, err error) {
	names := bc.Types
	if len(names) == 0 {
		names = make([]string, numEq)
		for i := range names {
			names[i] = bc.Type
		}
	}
	if len(names) != numEq {
		err = fmt.Errorf("%d boundary condition types for %d equations", len(names), numEq)
		return
	}
	flags = make([]types.BCFLAG, numEq)
	for i, name := range names {
		if flags[i], err = types.ParseBCName(name); err != nil {
			return
		}
	}
	return
}

type InputParameters struct {
	Title             string                       `json:"Title"`
	Model             string                       `json:"Model"` // "1p2c" or "pvs"
	FluidSystem       string                       `json:"FluidSystem"`
	Grid              GridParameters               `json:"Grid"`
	Dt                float64                      `json:"Dt"`
	MaxDt             float64                      `json:"MaxDt"`
	FinalTime         float64                      `json:"FinalTime"`
	MaxSteps          int                          `json:"MaxSteps"`
	UpwindWeight      float64                      `json:"UpwindWeight"`
	UseMoles          bool                         `json:"UseMoles"`
	EnableEnergy      bool                         `json:"EnableEnergy"`
	EnableGravity     bool                         `json:"EnableGravity"`
	NumericDifference string                       `json:"NumericDifference"`
	ProcLimit         int                          `json:"ProcLimit"`
	Newton            NewtonParameters             `json:"Newton"`
	ConstraintSolver  ConstraintSolverParameters   `json:"ConstraintSolver"`
	MaterialFile      string                       `json:"MaterialFile"`
	Material          string                       `json:"Material"`
	Initial           []float64                    `json:"Initial"`       // Primary variables
	InitialPhases     []int                        `json:"InitialPhases"` // Present phase indices
	Physics           map[string]float64           `json:"Physics"`       // Problem specific parameters
	BCs               map[string]BoundaryCondition `json:"BCs"`           // Key is the domain side
}

// NewInputParameters returns the defaults that Parse overwrites
func NewInputParameters() (ip *InputParameters) {
	ip = &InputParameters{
		Model:             "1p2c",
		FluidSystem:       "h2o-tracer",
		Grid:              GridParameters{NX: 20, NY: 4, LX: 1, LY: 0.2},
		Dt:                1,
		FinalTime:         1,
		UpwindWeight:      1,
		NumericDifference: "forward",
		Newton: NewtonParameters{
			MaxIterations:    20,
			Tolerance:        1.e-8,
			MaxDampingCuts:   6,
			MaxTimeStepCuts:  8,
			TargetIterations: 6,
		},
		ConstraintSolver: ConstraintSolverParameters{
			MaxIterations: 50,
			Tolerance:     1.e-10,
		},
		Physics: make(map[string]float64),
		BCs:     make(map[string]BoundaryCondition),
	}
	return
}

func (ip *InputParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	return ip.Validate()
}

func (ip *InputParameters) Validate() (err error) {
	switch {
	case ip.Grid.NX < 1 || ip.Grid.NY < 1:
		err = fmt.Errorf("grid needs at least one element in each direction, have %dx%d",
			ip.Grid.NX, ip.Grid.NY)
	case ip.Grid.LX <= 0 || ip.Grid.LY <= 0:
		err = fmt.Errorf("grid extent must be positive, have %gx%g", ip.Grid.LX, ip.Grid.LY)
	case ip.Dt <= 0:
		err = fmt.Errorf("time step must be positive, have %g", ip.Dt)
	case ip.UpwindWeight < 0 || ip.UpwindWeight > 1:
		err = fmt.Errorf("upwind weight %g outside [0,1]", ip.UpwindWeight)
	}
	if err != nil {
		return
	}
	for side, bc := range ip.BCs {
		if _, err = grid.ParseSide(strings.ToLower(side)); err != nil {
			return
		}
		names := bc.Types
		if len(names) == 0 {
			names = []string{bc.Type}
		}
		for _, name := range names {
			if _, err = types.ParseBCName(name); err != nil {
				return fmt.Errorf("side %s: %w", side, err)
			}
		}
	}
	return
}

// SideCondition is a parsed BoundaryCondition
type SideCondition struct {
	Flags  []types.BCFLAG
	Values []float64
}

// BoundaryConditions parses the BCs per domain side. Sides without an entry
// are closed (Neumann, zero flux). A side with Dirichlet equations or a non
// zero Neumann flux must carry one value per equation.
func (ip *InputParameters) BoundaryConditions(numEq int) (bcs [4]SideCondition, err error) {
	for s := range bcs {
		bcs[s] = SideCondition{Flags: make([]types.BCFLAG, numEq), Values: make([]float64, numEq)}
		for eq := range bcs[s].Flags {
			bcs[s].Flags[eq] = types.BC_Neumann
		}
	}
	for side, bc := range ip.BCs {
		var s grid.Side
		if s, err = grid.ParseSide(strings.ToLower(side)); err != nil {
			return
		}
		sc := SideCondition{Values: make([]float64, numEq)}
		if sc.Flags, err = bc.flags(numEq); err != nil {
			err = fmt.Errorf("side %s: %w", side, err)
			return
		}
		if len(bc.Values) != 0 || hasFlag(sc.Flags, types.BC_Dirichlet) {
			if len(bc.Values) != numEq {
				err = fmt.Errorf("side %s: need %d values, have %d", side, numEq, len(bc.Values))
				return
			}
			copy(sc.Values, bc.Values)
		}
		bcs[s] = sc
	}
	return
}

func hasFlag(flags []types.BCFLAG, flag types.BCFLAG) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

// PhysicsValue returns the named problem parameter or def if absent
func (ip *InputParameters) PhysicsValue(name string, def float64) float64 {
	if v, ok := ip.Physics[name]; ok {
		return v
	}
	return def
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Model\n", ip.Model)
	fmt.Printf("[%s]\t\t= Fluid System\n", ip.FluidSystem)
	fmt.Printf("[%dx%d]\t\t\t= Grid Elements\n", ip.Grid.NX, ip.Grid.NY)
	fmt.Printf("[%gx%g]\t\t\t= Grid Extent\n", ip.Grid.LX, ip.Grid.LY)
	fmt.Printf("%8.5g\t\t= Dt\n", ip.Dt)
	fmt.Printf("%8.5g\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5f\t\t= Upwind Weight\n", ip.UpwindWeight)
	fmt.Printf("[%v]\t\t\t= Use Moles\n", ip.UseMoles)
	fmt.Printf("[%v]\t\t\t= Enable Energy\n", ip.EnableEnergy)
	fmt.Printf("[%v]\t\t\t= Enable Gravity\n", ip.EnableGravity)
	fmt.Printf("[%s]\t\t= Numeric Difference\n", ip.NumericDifference)
	fmt.Printf("[%d]\t\t\t\t= Newton Max Iterations\n", ip.Newton.MaxIterations)
	fmt.Printf("%8.5g\t\t= Newton Tolerance\n", ip.Newton.Tolerance)
	if len(ip.Material) != 0 {
		fmt.Printf("[%s] from [%s]\t= Material\n", ip.Material, ip.MaterialFile)
	}
	if len(ip.Initial) != 0 {
		fmt.Printf("%v\t= Initial, phases %v\n", ip.Initial, ip.InitialPhases)
	}
	keys := make([]string, len(ip.Physics))
	i := 0
	for k := range ip.Physics {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Physics[%s] = %g\n", key, ip.Physics[key])
	}
	keys = keys[:0]
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		bc := ip.BCs[key]
		if len(bc.Types) != 0 {
			fmt.Printf("BCs[%s] = %v %v\n", key, bc.Types, bc.Values)
			continue
		}
		fmt.Printf("BCs[%s] = %s %v\n", key, bc.Type, bc.Values)
	}
}
