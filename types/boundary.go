package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Neumann
	BC_Outflow
	BC_Dirichlet
)

var BCNameMap = map[string]BCFLAG{
	"none":      BC_None,
	"neumann":   BC_Neumann,
	"neuman":    BC_Neumann,
	"noflow":    BC_Neumann,
	"out":       BC_Outflow,
	"outflow":   BC_Outflow,
	"dirichlet": BC_Dirichlet,
}

func (bc BCFLAG) String() string {
	switch bc {
	case BC_None:
		return "None"
	case BC_Neumann:
		return "Neumann"
	case BC_Outflow:
		return "Outflow"
	case BC_Dirichlet:
		return "Dirichlet"
	}
	return fmt.Sprintf("BCFLAG(%d)", uint8(bc))
}

func ParseBCName(name string) (bc BCFLAG, err error) {
	var ok bool
	if bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown boundary condition name: %q", name)
	}
	return
}

// BoundaryTypes holds one boundary flag per equation of a control volume
type BoundaryTypes struct {
	Eq []BCFLAG
}

func NewBoundaryTypes(numEq int) (bt BoundaryTypes) {
	bt = BoundaryTypes{Eq: make([]BCFLAG, numEq)}
	return
}

func (bt *BoundaryTypes) Reset() {
	for i := range bt.Eq {
		bt.Eq[i] = BC_None
	}
}

func (bt *BoundaryTypes) SetAll(bc BCFLAG) {
	for i := range bt.Eq {
		bt.Eq[i] = bc
	}
}

func (bt *BoundaryTypes) SetAllNeumann()          { bt.SetAll(BC_Neumann) }
func (bt *BoundaryTypes) SetAllOutflow()          { bt.SetAll(BC_Outflow) }
func (bt *BoundaryTypes) SetAllDirichlet()        { bt.SetAll(BC_Dirichlet) }
func (bt *BoundaryTypes) SetNeumann(eq int)       { bt.Eq[eq] = BC_Neumann }
func (bt *BoundaryTypes) SetOutflow(eq int)       { bt.Eq[eq] = BC_Outflow }
func (bt *BoundaryTypes) SetDirichlet(eq int)     { bt.Eq[eq] = BC_Dirichlet }
func (bt *BoundaryTypes) IsNeumann(eq int) bool   { return bt.Eq[eq] == BC_Neumann }
func (bt *BoundaryTypes) IsOutflow(eq int) bool   { return bt.Eq[eq] == BC_Outflow }
func (bt *BoundaryTypes) IsDirichlet(eq int) bool { return bt.Eq[eq] == BC_Dirichlet }

func (bt *BoundaryTypes) has(bc BCFLAG) bool {
	for _, f := range bt.Eq {
		if f == bc {
			return true
		}
	}
	return false
}

func (bt *BoundaryTypes) HasNeumann() bool   { return bt.has(BC_Neumann) }
func (bt *BoundaryTypes) HasOutflow() bool   { return bt.has(BC_Outflow) }
func (bt *BoundaryTypes) HasDirichlet() bool { return bt.has(BC_Dirichlet) }

func (bt *BoundaryTypes) IsBoundary() bool {
	return bt.HasNeumann() || bt.HasOutflow() || bt.HasDirichlet()
}

func (bt BoundaryTypes) String() string {
	var s []string
	for _, f := range bt.Eq {
		s = append(s, f.String())
	}
	return "[" + strings.Join(s, " ") + "]"
}
