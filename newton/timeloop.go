package newton

import (
	"fmt"
	"math"
	"time"

	"github.com/notargets/goporous/utils"
	log "github.com/sirupsen/logrus"
)

// TimeSystem is a System advanced in time by implicit Euler steps
type TimeSystem interface {
	System
	SetTimeStep(dt float64)
	TimeStep() float64
	AdvanceTimeLevel() error
	ResetToPreviousTimeLevel()
}

type TimeLoop struct {
	Newton           *Solver
	Dt               float64 // Step attempted next
	MinDt, MaxDt     float64
	FinalTime        float64
	MaxSteps         int // Unlimited if zero
	MaxTimeStepCuts  int
	TargetIterations int // Newton iterations per step the step size adapts to
	OnStep           func(step int, time, dt float64, iterations int)
}

func NewTimeLoop(dt, finalTime float64) (tl *TimeLoop) {
	tl = &TimeLoop{
		Newton:           New(),
		Dt:               dt,
		MinDt:            1.e-6 * dt,
		MaxDt:            math.Inf(1),
		FinalTime:        finalTime,
		MaxTimeStepCuts:  8,
		TargetIterations: 6,
	}
	return
}

func (tl *TimeLoop) CheckIfFinished(Time float64, steps int) (finished bool) {
	if Time >= tl.FinalTime*(1-1.e-12) || (tl.MaxSteps > 0 && steps >= tl.MaxSteps) {
		finished = true
	}
	return
}

// Run advances sys from Time 0 until FinalTime. A time step whose Newton
// iteration fails is restarted from the previous time level with half the
// step size.
func (tl *TimeLoop) Run(sys TimeSystem) (Time float64, steps int, err error) {
	var (
		elapsed time.Duration
		start   time.Time
	)
	for !tl.CheckIfFinished(Time, steps) {
		start = time.Now()
		dt := math.Min(tl.Dt, tl.FinalTime-Time)
		var iterations int
		for cut := 0; ; cut++ {
			sys.SetTimeStep(dt)
			var nErr error
			if iterations, nErr = tl.Newton.Solve(sys); nErr == nil {
				break
			}
			sys.ResetToPreviousTimeLevel()
			if cut == tl.MaxTimeStepCuts || 0.5*dt < tl.MinDt {
				err = fmt.Errorf("time step %d at t = %g failed with dt = %g: %w", steps+1, Time, dt, nErr)
				return
			}
			log.WithFields(log.Fields{"step": steps + 1, "dt": dt, "error": nErr}).Warn("time step cut")
			dt *= 0.5
		}
		if err = sys.AdvanceTimeLevel(); err != nil {
			return
		}
		elapsed += time.Since(start)
		steps++
		Time += dt
		tl.Dt = tl.suggestTimeStep(dt, iterations)
		log.WithFields(log.Fields{
			"step":       steps,
			"time":       Time,
			"dt":         dt,
			"iterations": iterations,
		}).Info("time step done")
		if tl.OnStep != nil {
			tl.OnStep(steps, Time, dt, iterations)
		}
	}
	log.WithFields(log.Fields{
		"steps":   steps,
		"elapsed": elapsed,
		"memory":  utils.GetMemUsage(),
	}).Info("time loop finished")
	return
}

// suggestTimeStep grows the step when Newton needed fewer iterations than
// the target and shrinks it when it needed more
func (tl *TimeLoop) suggestTimeStep(dt float64, iterations int) float64 {
	target := float64(tl.TargetIterations)
	if target <= 0 {
		return math.Min(dt, tl.MaxDt)
	}
	it := float64(iterations)
	if it > target {
		dt /= 1 + (it-target)/target
	} else {
		dt *= 1 + (target-it)/(1.2*target)
	}
	return math.Min(dt, tl.MaxDt)
}
