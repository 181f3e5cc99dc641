package types

import (
	"fmt"
	"math/bits"
	"strings"
)

// PhasePresence is a bitmask, bit p is set when phase p is present
type PhasePresence uint32

func AllPhases(numPhases int) PhasePresence {
	return PhasePresence(1<<uint(numPhases) - 1)
}

func OnlyPhase(p int) PhasePresence {
	return PhasePresence(1 << uint(p))
}

func (pp PhasePresence) IsPresent(p int) bool {
	return pp&(1<<uint(p)) != 0
}

func (pp PhasePresence) Set(p int) PhasePresence {
	return pp | 1<<uint(p)
}

func (pp PhasePresence) Clear(p int) PhasePresence {
	return pp &^ (1 << uint(p))
}

// LowestPresent is the index of the lowest present phase. A presence with no
// phase set is a caller bug.
func (pp PhasePresence) LowestPresent() int {
	if pp == 0 {
		panic(fmt.Errorf("phase presence has no present phase"))
	}
	return bits.TrailingZeros32(uint32(pp))
}

func (pp PhasePresence) NumPresent(numPhases int) (n int) {
	return bits.OnesCount32(uint32(pp & AllPhases(numPhases)))
}

func (pp PhasePresence) String() string {
	var s []string
	for p := 0; p < 32; p++ {
		if pp.IsPresent(p) {
			s = append(s, fmt.Sprintf("%d", p))
		}
	}
	return "{" + strings.Join(s, ",") + "}"
}

// PrimaryVariables are the unknowns of one control volume. The meaning of each
// value depends on Presence for models that switch variables.
type PrimaryVariables struct {
	Values   []float64
	Presence PhasePresence
}

func NewPrimaryVariables(numEq int, presence PhasePresence) (pv PrimaryVariables) {
	pv = PrimaryVariables{
		Values:   make([]float64, numEq),
		Presence: presence,
	}
	return
}

func (pv PrimaryVariables) Copy() (R PrimaryVariables) {
	R = PrimaryVariables{
		Values:   make([]float64, len(pv.Values)),
		Presence: pv.Presence,
	}
	copy(R.Values, pv.Values)
	return
}

func (pv PrimaryVariables) String() string {
	return fmt.Sprintf("%v %v", pv.Values, pv.Presence)
}
