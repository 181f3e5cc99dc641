package TracerColumn

import (
	"fmt"
	"math"

	"github.com/notargets/goporous/InputParameters"
	"github.com/notargets/goporous/box"
	"github.com/notargets/goporous/fluidsystem"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/model_problems"
	"github.com/notargets/goporous/newton"
	"github.com/notargets/goporous/onep2c"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
	log "github.com/sirupsen/logrus"
)

// TracerColumn pushes a single liquid phase through a homogeneous column,
// typically with the tracer fixed at a Dirichlet inlet and a free outflow
// outlet.
type TracerColumn struct {
	model_problems.SideProblem
	Prm       Parameters
	Grid      *grid.Rect2D
	Model     *onep2c.Model
	Assembler *box.Assembler[onep2c.VolumeVariables]
	TimeLoop  *newton.TimeLoop
	Initial   []float64
	viscosity float64
}

type Parameters struct {
	Porosity     float64
	Tortuosity   float64
	Permeability float64 // Isotropic [m^2]
	Temperature  float64
	Dispersivity float64 // Longitudinal [m], no mechanical dispersion if zero
}

func NewTracerColumn(ip *InputParameters.InputParameters) (c *TracerColumn, err error) {
	var fsys fluidsystem.FluidSystem
	if fsys, err = fluidsystem.New(ip.FluidSystem); err != nil {
		return
	}
	if fsys.NumPhases() != 1 || fsys.NumComponents() != 2 {
		err = fmt.Errorf("tracer column needs one phase and two components, %s has %d and %d",
			fsys.Name(), fsys.NumPhases(), fsys.NumComponents())
		return
	}
	c = &TracerColumn{
		Prm: Parameters{
			Porosity:     ip.PhysicsValue("Porosity", 0.4),
			Tortuosity:   ip.PhysicsValue("Tortuosity", 0.28),
			Permeability: ip.PhysicsValue("Permeability", 1.e-10),
			Temperature:  ip.PhysicsValue("Temperature", 293.15),
			Dispersivity: ip.PhysicsValue("Dispersivity", 0),
		},
		Grid:    grid.NewRect2D(ip.Grid.NX, ip.Grid.NY, ip.Grid.LX, ip.Grid.LY),
		Initial: []float64{1.e5, 0},
	}
	if c.SideProblem, err = model_problems.NewSideProblem(ip, 2); err != nil {
		return
	}
	if len(ip.Initial) != 0 {
		if len(ip.Initial) != 2 {
			err = fmt.Errorf("tracer column initial state needs pressure and mole fraction, have %v", ip.Initial)
			return
		}
		c.Initial = ip.Initial
	}
	c.Model = onep2c.NewModel(c, fsys, ip.UseMoles)
	c.Model.UpwindWeight = ip.UpwindWeight
	if c.Prm.Dispersivity > 0 {
		c.Model.Dispersion = c.dispersion
	}
	c.Assembler = box.NewAssembler[onep2c.VolumeVariables](c.Grid, c.Model, ip.ProcLimit)
	if err = model_problems.Configure(c.Assembler, ip); err != nil {
		return
	}
	c.TimeLoop = model_problems.NewTimeLoop(ip)
	if err = c.Assembler.SetInitialSolution(c.initial); err != nil {
		return
	}
	c.viscosity = c.Assembler.VolVars[0].Viscosity()
	return
}

func (c *TracerColumn) Porosity(v grid.Vertex) float64    { return c.Prm.Porosity }
func (c *TracerColumn) Tortuosity(v grid.Vertex) float64  { return c.Prm.Tortuosity }
func (c *TracerColumn) Temperature(v grid.Vertex) float64 { return c.Prm.Temperature }
func (c *TracerColumn) IntrinsicPermeability(v grid.Vertex) [2][2]float64 {
	return utils.IsotropicTensor(c.Prm.Permeability)
}

func (c *TracerColumn) initial(v grid.Vertex) (pv types.PrimaryVariables) {
	pv = types.NewPrimaryVariables(2, types.AllPhases(1))
	copy(pv.Values, c.Initial)
	return
}

// dispersion is isotropic and proportional to the Darcy velocity normal to
// the face
func (c *TracerColumn) dispersion(fv *onep2c.FluxVariables) [2][2]float64 {
	area := math.Hypot(fv.Normal[0], fv.Normal[1])
	return utils.IsotropicTensor(c.Prm.Dispersivity * math.Abs(fv.KmvpNormal) / (c.viscosity * area))
}

func (c *TracerColumn) Solve() (err error) {
	c.PrintInitialization()
	var (
		Time  float64
		steps int
	)
	Time, steps, err = c.TimeLoop.Run(c.Assembler)
	if err != nil {
		return
	}
	var totals []float64
	if totals, err = c.Assembler.StorageTotals(); err != nil {
		return
	}
	log.WithFields(log.Fields{
		"time":    Time,
		"steps":   steps,
		"fluid":   totals[onep2c.ContiEqIdx],
		"tracer":  totals[onep2c.TransEqIdx],
		"outflow": c.OutletFraction(),
	}).Info("tracer column finished")
	return
}

func (c *TracerColumn) PrintInitialization() {
	log.WithFields(log.Fields{
		"grid":         fmt.Sprintf("%dx%d", c.Grid.NX, c.Grid.NY),
		"porosity":     c.Prm.Porosity,
		"permeability": c.Prm.Permeability,
		"dispersivity": c.Prm.Dispersivity,
		"finalTime":    c.TimeLoop.FinalTime,
		"bcs":          c.BCs,
	}).Info("tracer column")
}

// OutletFraction is the mean tracer mole fraction along the right side
func (c *TracerColumn) OutletFraction() (x float64) {
	var n int
	for _, v := range c.Grid.Vertices {
		if v.OnSide(grid.Right) {
			x += c.Assembler.VolVars[v.Idx].MoleFrac(onep2c.Comp1Idx)
			n++
		}
	}
	return x / float64(n)
}
