package constraintsolver

import (
	"fmt"
	"math"

	"github.com/notargets/goporous/fluidstate"
	"github.com/notargets/goporous/fluidsystem"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
	"gonum.org/v1/gonum/mat"
)

// AuxConstraint pins the mole fraction of one component in one phase
type AuxConstraint struct {
	PhaseIdx, CompIdx int
	Value             float64
}

// Strategy computes phase compositions from the saturations, pressures,
// temperatures and partial composition already present in a fluid state.
// Both operations mutate fs in place.
type Strategy interface {
	ComputeFromReferencePhase(fs *fluidstate.Compositional, fsys fluidsystem.FluidSystem,
		refPhaseIdx int, setViscosity, setEnthalpy bool) error
	MiscibleMultiPhaseComposition(fs *fluidstate.Compositional, fsys fluidsystem.FluidSystem,
		presence types.PhasePresence, aux []AuxConstraint, setViscosity, setEnthalpy bool) error
}

type Solver struct {
	Tolerance     float64 // Largest mole fraction change accepted as converged
	MaxIterations int
}

func New() *Solver {
	return &Solver{Tolerance: 1.e-10, MaxIterations: 50}
}

// NumAuxConstraints is the number of auxiliary constraints that close the
// MiscibleMultiPhaseComposition system for a given presence
func NumAuxConstraints(numPhases, numComponents int, presence types.PhasePresence) int {
	return numComponents + (numPhases - presence.NumPresent(numPhases)) - numPhases
}

// ComputeFromReferencePhase assumes the composition of refPhaseIdx is known
// and sets every other phase to the composition of equal fugacity,
//
//	x_pc = phi_ref,c x_ref,c p_ref / (phi_pc p_p)
func (s *Solver) ComputeFromReferencePhase(fs *fluidstate.Compositional, fsys fluidsystem.FluidSystem,
	refPhaseIdx int, setViscosity, setEnthalpy bool) (err error) {
	var (
		np, nc = fsys.NumPhases(), fsys.NumComponents()
		fRef   = make([]float64, nc)
	)
	for c := 0; c < nc; c++ {
		fRef[c] = fsys.FugacityCoefficient(fs, refPhaseIdx, c) *
			fs.MoleFrac[refPhaseIdx][c] * fs.Pressure[refPhaseIdx]
	}
	for p := 0; p < np; p++ {
		if p == refPhaseIdx {
			continue
		}
		var (
			converged bool
			change    float64
			iter      int
		)
		for iter = 1; iter <= s.MaxIterations; iter++ {
			change = 0
			for c := 0; c < nc; c++ {
				x := fRef[c] / (fsys.FugacityCoefficient(fs, p, c) * fs.Pressure[p])
				if math.IsNaN(x) || math.IsInf(x, 0) {
					return &SolveError{Solver: "ComputeFromReferencePhase", Iterations: iter,
						Change: math.Inf(1), Err: fmt.Errorf("%w: non finite mole fraction in phase %d", ErrNotConverged, p)}
				}
				change = math.Max(change, math.Abs(x-fs.MoleFrac[p][c]))
				fs.MoleFrac[p][c] = x
			}
			if fsys.IsIdealMixture(p) || change < s.Tolerance {
				converged = true
				break
			}
		}
		if !converged {
			return &SolveError{Solver: "ComputeFromReferencePhase", Iterations: s.MaxIterations,
				Change: change, Err: ErrNotConverged}
		}
	}
	setPhaseProperties(fs, fsys, setViscosity, setEnthalpy)
	return
}

// MiscibleMultiPhaseComposition solves for the composition of all phases
// from fugacity equality against phase 0, a unit mole fraction sum in each
// present phase and the auxiliary constraints. Fugacity coefficients of non
// ideal phases are updated by fixed point iteration.
func (s *Solver) MiscibleMultiPhaseComposition(fs *fluidstate.Compositional, fsys fluidsystem.FluidSystem,
	presence types.PhasePresence, aux []AuxConstraint, setViscosity, setEnthalpy bool) (err error) {
	var (
		np, nc = fsys.NumPhases(), fsys.NumComponents()
		n      = np * nc
		A      = mat.NewDense(n, n, nil)
		b      = make([]float64, n)
		ideal  = true
		change float64
	)
	if presence.NumPresent(np) == 0 {
		panic(fmt.Errorf("no phase present"))
	}
	if want := NumAuxConstraints(np, nc, presence); len(aux) != want {
		return fmt.Errorf("%w: have %d, need %d for presence %v",
			ErrBadConstraintCount, len(aux), want, presence)
	}
	for p := 0; p < np; p++ {
		ideal = ideal && fsys.IsIdealMixture(p)
	}
	for iter := 1; iter <= s.MaxIterations; iter++ {
		A.Zero()
		for i := range b {
			b[i] = 0
		}
		row := 0
		for c := 0; c < nc; c++ {
			f0 := fsys.FugacityCoefficient(fs, 0, c) * fs.Pressure[0]
			for p := 1; p < np; p++ {
				fp := fsys.FugacityCoefficient(fs, p, c) * fs.Pressure[p]
				scale := math.Max(math.Abs(f0), math.Abs(fp))
				A.Set(row, c, f0/scale)
				A.Set(row, p*nc+c, -fp/scale)
				row++
			}
		}
		for p := 0; p < np; p++ {
			if !presence.IsPresent(p) {
				continue
			}
			for c := 0; c < nc; c++ {
				A.Set(row, p*nc+c, 1)
			}
			b[row] = 1
			row++
		}
		for _, a := range aux {
			A.Set(row, a.PhaseIdx*nc+a.CompIdx, 1)
			b[row] = a.Value
			row++
		}
		x, luErr := utils.SolveDense(A, b)
		if luErr != nil {
			return &SolveError{Solver: "MiscibleMultiPhaseComposition", Iterations: iter,
				Change: change, Err: fmt.Errorf("%w: %v", ErrSingular, luErr)}
		}
		change = 0
		for p := 0; p < np; p++ {
			for c := 0; c < nc; c++ {
				change = math.Max(change, math.Abs(x[p*nc+c]-fs.MoleFrac[p][c]))
				fs.MoleFrac[p][c] = x[p*nc+c]
			}
		}
		if ideal || change < s.Tolerance {
			setPhaseProperties(fs, fsys, setViscosity, setEnthalpy)
			return
		}
	}
	return &SolveError{Solver: "MiscibleMultiPhaseComposition", Iterations: s.MaxIterations,
		Change: change, Err: ErrNotConverged}
}

func setPhaseProperties(fs *fluidstate.Compositional, fsys fluidsystem.FluidSystem,
	setViscosity, setEnthalpy bool) {
	for p := 0; p < fsys.NumPhases(); p++ {
		fs.Density[p] = fsys.Density(fs, p)
		if setViscosity {
			fs.Viscosity[p] = fsys.Viscosity(fs, p)
		}
		if setEnthalpy {
			fs.Enthalpy[p] = fsys.Enthalpy(fs, p)
		}
	}
}
