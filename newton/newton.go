package newton

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/goporous/utils"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

var ErrNotConverged = errors.New("newton iteration did not converge")

// System is a discrete nonlinear problem R(x) = 0
type System interface {
	NumUnknowns() int
	Unknowns() []float64
	SetUnknowns(x []float64)
	Residual() ([]float64, error)
	Assemble() (J utils.DOK, r []float64, err error)
	// SwitchPrimaryVariables may change the meaning of the unknowns after an
	// update, it returns the number of changed vertices
	SwitchPrimaryVariables() int
}

// Solver is a damped Newton method. An update whose residual cannot be
// evaluated is halved up to MaxDampingCuts times.
type Solver struct {
	MaxIterations     int
	Tolerance         float64 // Largest relative shift of the unknowns at convergence
	ResidualTolerance float64 // Converged when the max norm of the residual is below, if positive
	MaxDampingCuts    int
	LinearResidual    float64 // Max norm of J dx - r of the last linear solve
}

func New() *Solver {
	return &Solver{
		MaxIterations:  20,
		Tolerance:      1.e-8,
		MaxDampingCuts: 6,
	}
}

// Solve iterates from the current unknowns of sys. On success the unknowns
// of sys are the solution. On failure they are left at the last iterate.
func (s *Solver) Solve(sys System) (iterations int, err error) {
	var (
		shift, rNorm float64
	)
	for iterations = 1; iterations <= s.MaxIterations; iterations++ {
		J, r, aErr := sys.Assemble()
		if aErr != nil {
			err = fmt.Errorf("assembly failed in iteration %d: %w", iterations, aErr)
			return
		}
		rNorm = floats.Norm(r, math.Inf(1))
		if s.ResidualTolerance > 0 && rNorm < s.ResidualTolerance {
			return
		}
		// Dense LU on the assembled sparse Jacobian
		dx, lErr := utils.SolveDense(J.ToDense(), r)
		if lErr != nil {
			err = fmt.Errorf("linear solve failed in iteration %d: %w", iterations, lErr)
			return
		}
		s.LinearResidual = floats.Distance(J.MulVec(dx), r, math.Inf(1))
		x := sys.Unknowns()
		if shift, err = s.update(sys, x, dx); err != nil {
			err = fmt.Errorf("iteration %d: %w", iterations, err)
			return
		}
		switched := sys.SwitchPrimaryVariables()
		log.WithFields(log.Fields{
			"iteration": iterations,
			"residual":  rNorm,
			"shift":     shift,
			"linear":    s.LinearResidual,
			"switched":  switched,
		}).Debug("newton")
		if shift < s.Tolerance && switched == 0 {
			return
		}
	}
	err = fmt.Errorf("%w after %d iterations: shift %.3e, residual %.3e",
		ErrNotConverged, s.MaxIterations, shift, rNorm)
	return
}

// update sets x - lambda*dx with the largest lambda = 2^-k for which the
// residual can be evaluated
func (s *Solver) update(sys System, x, dx []float64) (shift float64, err error) {
	var (
		lambda = 1.
		xn     = make([]float64, len(x))
	)
	for cut := 0; ; cut++ {
		floats.AddScaledTo(xn, x, -lambda, dx)
		sys.SetUnknowns(xn)
		_, rErr := sys.Residual()
		if rErr == nil {
			break
		}
		if cut == s.MaxDampingCuts {
			sys.SetUnknowns(x)
			err = rErr
			return
		}
		lambda *= 0.5
		log.WithFields(log.Fields{"lambda": lambda, "error": rErr}).Debug("newton update damped")
	}
	for i := range x {
		scale := math.Max(1, 0.5*math.Abs(x[i]+xn[i]))
		shift = math.Max(shift, math.Abs(xn[i]-x[i])/scale)
	}
	return
}
