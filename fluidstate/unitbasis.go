package fluidstate

// UnitBasis selects whether balance equations are written in mass or in
// moles. Quantity is the phase density on that basis and Fraction the
// matching composition variable.
type UnitBasis interface {
	Quantity(fs *Compositional, p int) float64
	Fraction(fs *Compositional, p, c int) float64
	UseMoles() bool
}

type MassBasis struct{}

func (MassBasis) Quantity(fs *Compositional, p int) float64    { return fs.Density[p] }
func (MassBasis) Fraction(fs *Compositional, p, c int) float64 { return fs.MassFraction(p, c) }
func (MassBasis) UseMoles() bool                               { return false }

type MoleBasis struct{}

func (MoleBasis) Quantity(fs *Compositional, p int) float64    { return fs.MolarDensity(p) }
func (MoleBasis) Fraction(fs *Compositional, p, c int) float64 { return fs.MoleFrac[p][c] }
func (MoleBasis) UseMoles() bool                               { return true }

func NewUnitBasis(useMoles bool) UnitBasis {
	if useMoles {
		return MoleBasis{}
	}
	return MassBasis{}
}

func BasisName(ub UnitBasis) string {
	if ub.UseMoles() {
		return "moles"
	}
	return "mass"
}
