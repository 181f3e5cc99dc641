// Package materiallaw implements capillary pressure and relative
// permeability relations of a porous medium. Phase 0 is the wetting phase.
package materiallaw

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notargets/goporous/fluidstate"
)

// Prm is a named material parameter
type Prm struct {
	N string
	V float64
}

type Prms []*Prm

func (o Prms) Find(name string) *Prm {
	for _, p := range o {
		if strings.EqualFold(p.N, name) {
			return p
		}
	}
	return nil
}

// Law computes per phase capillary pressures, pc[0] is the reference, so that
// p_a = p_0 + (pc[a] - pc[0]), and per phase relative permeabilities.
type Law interface {
	Init(prms Prms) error      // initialises the law
	GetPrms(example bool) Prms // gets (an example of) parameters
	CapillaryPressures(pc []float64, fs *fluidstate.Compositional)
	RelativePermeabilities(kr []float64, fs *fluidstate.Compositional)
}

// Effective is a two phase relation in terms of the effective wetting
// saturation
type Effective interface {
	Init(prms Prms) error
	GetPrms(example bool) Prms
	Pcnw(Swe float64) float64
	Krw(Swe float64) float64
	Krn(Swe float64) float64
}

// New returns a material law by name. Two phase relations are returned
// wrapped in EffToAbs.
func New(name string) (law Law, err error) {
	name = strings.ToLower(name)
	if allocator, ok := allocators[name]; ok {
		law = allocator()
		return
	}
	if allocator, ok := effAllocators[name]; ok {
		law = &EffToAbs{Eff: allocator()}
		return
	}
	err = fmt.Errorf("material law %q is not available, choose from %v", name, Names())
	return
}

func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	for name := range effAllocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds laws usable as is, effAllocators the two phase relations
var (
	allocators    = map[string]func() Law{}
	effAllocators = map[string]func() Effective{}
)

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
