package Injection

import (
	"fmt"

	"github.com/notargets/goporous/InputParameters"
	"github.com/notargets/goporous/box"
	"github.com/notargets/goporous/fluidsystem"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/materiallaw"
	"github.com/notargets/goporous/model_problems"
	"github.com/notargets/goporous/newton"
	"github.com/notargets/goporous/pvs"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
	log "github.com/sirupsen/logrus"
)

// Injection pushes a gas into a domain initially saturated with liquid. The
// gas phase appears where the dissolved gas exceeds its solubility.
type Injection struct {
	model_problems.SideProblem
	Prm             Parameters
	Law             materiallaw.Law
	Grid            *grid.Rect2D
	Model           *pvs.Model
	Assembler       *box.Assembler[pvs.VolumeVariables]
	TimeLoop        *newton.TimeLoop
	Initial         []float64
	InitialPresence types.PhasePresence
}

type Parameters struct {
	Porosity          float64
	Tortuosity        float64
	Permeability      float64 // Isotropic [m^2]
	Temperature       float64
	HeatCapacitySolid float64 // [J/(kg K)]
	DensitySolid      float64 // [kg/m^3]
	ConductivitySolid float64 // [W/(m K)]
}

func NewInjection(ip *InputParameters.InputParameters) (c *Injection, err error) {
	var fsys fluidsystem.FluidSystem
	if fsys, err = fluidsystem.New(ip.FluidSystem); err != nil {
		return
	}
	c = &Injection{
		Prm: Parameters{
			Porosity:          ip.PhysicsValue("Porosity", 0.3),
			Tortuosity:        ip.PhysicsValue("Tortuosity", 0.5),
			Permeability:      ip.PhysicsValue("Permeability", 1.e-12),
			Temperature:       ip.PhysicsValue("Temperature", 293.15),
			HeatCapacitySolid: ip.PhysicsValue("HeatCapacitySolid", 800),
			DensitySolid:      ip.PhysicsValue("DensitySolid", 2650),
			ConductivitySolid: ip.PhysicsValue("ConductivitySolid", 2.8),
		},
		Grid:            grid.NewRect2D(ip.Grid.NX, ip.Grid.NY, ip.Grid.LX, ip.Grid.LY),
		InitialPresence: types.OnlyPhase(0),
	}
	c.Model = pvs.NewModel(c, fsys, ip.UseMoles, ip.EnableEnergy)
	c.Model.UpwindWeight = ip.UpwindWeight
	c.Model.ConstraintSolver = model_problems.NewConstraintSolver(ip)
	neq := c.Model.NumEq()
	if c.SideProblem, err = model_problems.NewSideProblem(ip, neq); err != nil {
		return
	}
	if c.Law, err = model_problems.MaterialLaw(ip, "brookscorey"); err != nil {
		return
	}
	if err = c.setInitial(ip); err != nil {
		return
	}
	c.Assembler = box.NewAssembler[pvs.VolumeVariables](c.Grid, c.Model, ip.ProcLimit)
	if err = model_problems.Configure(c.Assembler, ip); err != nil {
		return
	}
	c.TimeLoop = model_problems.NewTimeLoop(ip)
	err = c.Assembler.SetInitialSolution(c.initial)
	return
}

func (c *Injection) setInitial(ip *InputParameters.InputParameters) (err error) {
	neq := c.Model.NumEq()
	c.Initial = make([]float64, neq)
	c.Initial[pvs.Pressure0Idx] = 1.e5
	if ip.EnableEnergy {
		c.Initial[c.Model.TemperatureIdx()] = c.Prm.Temperature
	}
	if len(ip.Initial) != 0 {
		if len(ip.Initial) != neq {
			return fmt.Errorf("injection initial state needs %d values, have %v", neq, ip.Initial)
		}
		copy(c.Initial, ip.Initial)
	}
	if len(ip.InitialPhases) != 0 {
		c.InitialPresence = 0
		for _, p := range ip.InitialPhases {
			if p < 0 || p >= c.Model.NumPhases {
				return fmt.Errorf("initial phase %d out of range", p)
			}
			c.InitialPresence = c.InitialPresence.Set(p)
		}
	}
	return
}

func (c *Injection) initial(v grid.Vertex) (pv types.PrimaryVariables) {
	pv = types.NewPrimaryVariables(c.Model.NumEq(), c.InitialPresence)
	copy(pv.Values, c.Initial)
	return
}

func (c *Injection) Porosity(v grid.Vertex) float64                 { return c.Prm.Porosity }
func (c *Injection) Tortuosity(v grid.Vertex) float64               { return c.Prm.Tortuosity }
func (c *Injection) Temperature(v grid.Vertex) float64              { return c.Prm.Temperature }
func (c *Injection) HeatCapacitySolid(v grid.Vertex) float64        { return c.Prm.HeatCapacitySolid }
func (c *Injection) DensitySolid(v grid.Vertex) float64             { return c.Prm.DensitySolid }
func (c *Injection) ThermalConductivitySolid(v grid.Vertex) float64 { return c.Prm.ConductivitySolid }
func (c *Injection) MaterialLaw(v grid.Vertex) materiallaw.Law      { return c.Law }
func (c *Injection) IntrinsicPermeability(v grid.Vertex) [2][2]float64 {
	return utils.IsotropicTensor(c.Prm.Permeability)
}

func (c *Injection) Solve() (err error) {
	log.WithFields(log.Fields{
		"grid":      fmt.Sprintf("%dx%d", c.Grid.NX, c.Grid.NY),
		"fluid":     c.Model.FluidSystem.Name(),
		"energy":    c.Model.EnableEnergy,
		"presence":  c.InitialPresence.String(),
		"finalTime": c.TimeLoop.FinalTime,
	}).Info("injection")
	var (
		Time  float64
		steps int
	)
	c.TimeLoop.OnStep = func(step int, time, dt float64, iterations int) {
		log.WithFields(log.Fields{"step": step, "gasVertices": c.PresentVertices(fluidsystem.GasPhaseIdx)}).Debug("injection")
	}
	if Time, steps, err = c.TimeLoop.Run(c.Assembler); err != nil {
		return
	}
	var totals []float64
	if totals, err = c.Assembler.StorageTotals(); err != nil {
		return
	}
	fields := log.Fields{"time": Time, "steps": steps}
	for eq, total := range totals {
		fields[fmt.Sprintf("total%d", eq)] = total
	}
	log.WithFields(fields).Info("injection finished")
	return
}

// PresentVertices counts the vertices where phase p is present
func (c *Injection) PresentVertices(p int) (n int) {
	for _, pv := range c.Assembler.Solution {
		if pv.Presence.IsPresent(p) {
			n++
		}
	}
	return
}
