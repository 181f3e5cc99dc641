package model_problems

import (
	"fmt"

	"github.com/notargets/goporous/InputParameters"
	"github.com/notargets/goporous/box"
	"github.com/notargets/goporous/constraintsolver"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/materiallaw"
	"github.com/notargets/goporous/newton"
	"github.com/notargets/goporous/types"
)

// SideProblem sets boundary conditions per domain side. At corners each
// equation takes the strongest condition of its sides, Dirichlet over
// outflow over Neumann.
type SideProblem struct {
	box.BaseProblem
	BCs [4]InputParameters.SideCondition
}

func NewSideProblem(ip *InputParameters.InputParameters, numEq int) (sp SideProblem, err error) {
	if sp.BCs, err = ip.BoundaryConditions(numEq); err != nil {
		return
	}
	sp.EnableGravity = ip.EnableGravity
	return
}

// sideOf returns the side of v carrying the strongest condition for eq
func (sp *SideProblem) sideOf(v grid.Vertex, eq int) (side grid.Side) {
	var flag types.BCFLAG
	for s := grid.Bottom; s <= grid.Left; s++ {
		if v.OnSide(s) && sp.BCs[s].Flags[eq] > flag {
			side, flag = s, sp.BCs[s].Flags[eq]
		}
	}
	return
}

func (sp *SideProblem) BoundaryTypes(bt *types.BoundaryTypes, v grid.Vertex) {
	for eq := range bt.Eq {
		bt.Eq[eq] = sp.BCs[sp.sideOf(v, eq)].Flags[eq]
	}
}

func (sp *SideProblem) Dirichlet(values []float64, v grid.Vertex) {
	for eq := range values {
		values[eq] = sp.BCs[sp.sideOf(v, eq)].Values[eq]
	}
}

func (sp *SideProblem) Neumann(values []float64, v grid.Vertex, bf *grid.BoundaryFace) {
	copy(values, sp.BCs[bf.Side].Values)
}

// MaterialLaw loads the named material from the parameter database file of
// ip. Without a material name the law is def initialised with its example
// parameters.
func MaterialLaw(ip *InputParameters.InputParameters, def string) (law materiallaw.Law, err error) {
	if len(ip.Material) == 0 {
		if law, err = materiallaw.New(def); err != nil {
			return
		}
		err = law.Init(law.GetPrms(true))
		return
	}
	if len(ip.MaterialFile) == 0 {
		err = fmt.Errorf("material %q needs a MaterialFile", ip.Material)
		return
	}
	var db materiallaw.Database
	if db, err = materiallaw.LoadDatabase(ip.MaterialFile); err != nil {
		return
	}
	return db.Get(ip.Material)
}

func NewTimeLoop(ip *InputParameters.InputParameters) (tl *newton.TimeLoop) {
	tl = newton.NewTimeLoop(ip.Dt, ip.FinalTime)
	tl.MaxSteps = ip.MaxSteps
	if ip.MaxDt > 0 {
		tl.MaxDt = ip.MaxDt
	}
	tl.MaxTimeStepCuts = ip.Newton.MaxTimeStepCuts
	tl.TargetIterations = ip.Newton.TargetIterations
	tl.Newton.MaxIterations = ip.Newton.MaxIterations
	tl.Newton.Tolerance = ip.Newton.Tolerance
	tl.Newton.MaxDampingCuts = ip.Newton.MaxDampingCuts
	return
}

func NewConstraintSolver(ip *InputParameters.InputParameters) (cs *constraintsolver.Solver) {
	cs = constraintsolver.New()
	if ip.ConstraintSolver.MaxIterations > 0 {
		cs.MaxIterations = ip.ConstraintSolver.MaxIterations
	}
	if ip.ConstraintSolver.Tolerance > 0 {
		cs.Tolerance = ip.ConstraintSolver.Tolerance
	}
	return
}

// Configure applies the numeric settings of ip to an assembler
func Configure[V any](a *box.Assembler[V], ip *InputParameters.InputParameters) (err error) {
	if a.Formula, err = box.ParseFormula(ip.NumericDifference); err != nil {
		return
	}
	a.SetTimeStep(ip.Dt)
	return
}
