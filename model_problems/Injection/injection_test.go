package Injection

import (
	"math"
	"testing"

	"github.com/notargets/goporous/InputParameters"
	"github.com/notargets/goporous/fluidsystem"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/pvs"
	"github.com/notargets/goporous/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var injection = []byte(`
Title: Gas Injection
Model: pvs
FluidSystem: h2o-air
Grid:
  NX: 8
  NY: 2
  LX: 0.8
  LY: 0.2
Dt: 2
MaxDt: 10
FinalTime: 40
`)

func newInjection(t *testing.T, extra string) *Injection {
	ip := InputParameters.NewInputParameters()
	require.NoError(t, ip.Parse(append(append([]byte{}, injection...), extra...)))
	c, err := NewInjection(ip)
	require.NoError(t, err)
	return c
}

func TestInjection(t *testing.T) {
	var (
		rate  = 1.e-4 // [kg/(m^2 s)]
		inlet = "BCs:\n  left:\n    Type: neumann\n    Values: [0., -1.e-4]\n"
	)
	{ // Setup
		c := newInjection(t, inlet)
		assert.Equal(t, 2, c.Model.NumEq())
		assert.Equal(t, types.OnlyPhase(fluidsystem.LiquidPhaseIdx), c.InitialPresence)
		assert.Equal(t, "x0,1", c.Model.SlotName(pvs.Switch0Idx, c.InitialPresence))
		assert.Equal(t, 0, c.PresentVertices(fluidsystem.GasPhaseIdx))
		for _, v := range c.Grid.Vertices {
			if v.OnSide(grid.Left) {
				assert.True(t, c.Assembler.BCTypes[v.Idx].IsNeumann(fluidsystem.AirIdx))
			}
		}
		assert.NotNil(t, c.Law)
		r, err := c.Assembler.Residual()
		require.NoError(t, err)
		// Only the inlet is out of balance
		var sum float64
		for v := 0; v < c.Grid.NumVertices(); v++ {
			sum += r[v*2+fluidsystem.AirIdx]
		}
		assert.InDelta(t, -rate*c.Grid.LY, sum, 1.e-12)
	}
	{ // Injected gas is conserved and a gas phase forms at the inlet
		c := newInjection(t, inlet)
		before, err := c.Assembler.StorageTotals()
		require.NoError(t, err)
		require.NoError(t, c.Solve())
		after, err := c.Assembler.StorageTotals()
		require.NoError(t, err)
		injected := rate * c.Grid.LY * c.TimeLoop.FinalTime
		assert.InDelta(t, injected, after[fluidsystem.AirIdx]-before[fluidsystem.AirIdx], 1.e-3*injected)
		assert.InDelta(t, before[fluidsystem.H2OIdx], after[fluidsystem.H2OIdx], 1.e-7*before[fluidsystem.H2OIdx])
		assert.Greater(t, c.PresentVertices(fluidsystem.GasPhaseIdx), 0)
		assert.True(t, c.Assembler.Solution[0].Presence.IsPresent(fluidsystem.GasPhaseIdx))
		for _, vv := range c.Assembler.VolVars {
			assert.NoError(t, vv.FluidState.CheckInvariants(vv.Presence, 1.e-12))
		}
	}
	{ // Non isothermal
		c := newInjection(t, "EnableEnergy: true\nBCs:\n  left:\n    Type: neumann\n    Values: [0., -1.e-4, 0.]\n")
		assert.Equal(t, 3, c.Model.NumEq())
		assert.Equal(t, 293.15, c.Initial[c.Model.TemperatureIdx()])
		r, err := c.Assembler.Residual()
		require.NoError(t, err)
		for _, ri := range r {
			assert.False(t, math.IsNaN(ri))
		}
	}
	{ // Both phases from the start
		c := newInjection(t, "InitialPhases: [0, 1]\nInitial: [1.e5, 0.1]\n")
		assert.Equal(t, types.AllPhases(2), c.InitialPresence)
		assert.InDelta(t, 0.1, c.Assembler.VolVars[0].FluidState.Saturation[fluidsystem.GasPhaseIdx], 1.e-12)
	}
	{ // Invalid setups
		ip := InputParameters.NewInputParameters()
		require.NoError(t, ip.Parse(injection))
		ip.InitialPhases = []int{2}
		_, err := NewInjection(ip)
		assert.Error(t, err)
		ip.InitialPhases = nil
		ip.Initial = []float64{1.e5}
		_, err = NewInjection(ip)
		assert.Error(t, err)
		ip.Initial = nil
		ip.Material = "sand"
		_, err = NewInjection(ip)
		assert.Error(t, err)
	}
}
