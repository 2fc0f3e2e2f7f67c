package top

import (
	"math"
	"slices"
	"strings"
)

// Wildcard is the atom type Gromacs uses to match any type.
const Wildcard = "X"

func sigmaepsilonToc6c12(sigma, e float64) (c6 float64, c12 float64) {
	return 4 * e * math.Pow(sigma, 6), e * 4 * (math.Pow(sigma, 12))
}

// AtomType is a force-field atom class, as read from an [ atomtypes ] record.
type AtomType struct {
	Name     string
	BondType string //empty unless the record had a bonded-type column
	AtNum    int
	Mass     float64
	Charge   float64
	Ptype    string
	Sigma    float64
	Epsilon  float64
}

// C6C12 returns the Lennard-Jones C6 and C12 coefficients for the type.
func (A *AtomType) C6C12() (c6, c12 float64) {
	return sigmaepsilonToc6c12(A.Sigma, A.Epsilon)
}

// Atom is one atom of the molecule, as read from an [ atoms ] record.
type Atom struct {
	ID      int //1-based, equal to its position in the molecule
	Type    string
	MolID   int
	MolName string
	Name    string
	CGroup  int
	Charge  float64
	Mass    float64
}

// SameType returns true if both atoms have the same type and mass.
// Charges and residues are not considered.
func (A *Atom) SameType(B *Atom) bool {
	return A.Type == B.Type && A.Mass == B.Mass
}

// Kind is the kind of bonded term.
type Kind int

const (
	KBond Kind = iota
	KAngle
	KDihedral
)

func (k Kind) String() string {
	return [...]string{"bond", "angle", "dihedral"}[k]
}

// Symmetry is the group of atom permutations under which two
// terms of the same kind are equivalent.
type Symmetry int

const (
	Identity Symmetry = iota //only the atom order given
	Reversal                 //the given order, or the fully reversed one
)

// Term is the interface all bonded terms implement.
type Term interface {
	Kind() Kind
	Atoms() []*Atom
	Funct() int
	Params() []float64
}

// Bond is a 2-atom bonded term.
type Bond struct {
	At    [2]*Atom
	FuncT int
	Param []float64
}

func (B *Bond) Kind() Kind        { return KBond }
func (B *Bond) Atoms() []*Atom    { return B.At[:] }
func (B *Bond) Funct() int        { return B.FuncT }
func (B *Bond) Params() []float64 { return B.Param }

// Angle is a 3-atom bonded term. The middle atom is the vertex.
type Angle struct {
	At    [3]*Atom
	FuncT int
	Param []float64
}

func (A *Angle) Kind() Kind        { return KAngle }
func (A *Angle) Atoms() []*Atom    { return A.At[:] }
func (A *Angle) Funct() int        { return A.FuncT }
func (A *Angle) Params() []float64 { return A.Param }

// Dihedral is a 4-atom bonded term. For periodic dihedrals (functions 1, 4 and 9)
// the parameters are a sequence of (phase, force constant, multiplicity) triplets,
// more than one if several records for the same 4 atoms were merged. For
// Ryckaert-Bellemans dihedrals (function 3) they are the 6 coefficients C0-C5.
type Dihedral struct {
	At    [4]*Atom
	FuncT int
	Param []float64

	//General is set for canonical dihedrals whose parameter class is used by more
	//than one group of 4 atoms, or which have more than one multiplicity.
	General bool
}

func (D *Dihedral) Kind() Kind        { return KDihedral }
func (D *Dihedral) Atoms() []*Atom    { return D.At[:] }
func (D *Dihedral) Funct() int        { return D.FuncT }
func (D *Dihedral) Params() []float64 { return D.Param }

// Components splits the parameters of a dihedral into the blocks that
// would each go in one Gromacs line: one per multiplicity for periodic
// dihedrals, a single block for Ryckaert-Bellemans ones.
func (D *Dihedral) Components() [][]float64 {
	n := paramCount(KDihedral, D.FuncT)
	if n <= 0 || len(D.Param)%n != 0 {
		return [][]float64{D.Param}
	}
	ret := make([][]float64, 0, len(D.Param)/n)
	for i := 0; i < len(D.Param); i += n {
		ret = append(ret, D.Param[i:i+n])
	}
	return ret
}

// Types returns the atom types of the dihedral.
func (D *Dihedral) Types() [4]string {
	var ret [4]string
	for i, v := range D.At {
		ret[i] = v.Type
	}
	return ret
}

// WildcardTypes returns the types of the dihedral with the first and last
// replaced by the wildcard X.
func (D *Dihedral) WildcardTypes() [4]string {
	ret := D.Types()
	ret[0] = Wildcard
	ret[3] = Wildcard
	return ret
}

// WildcardString returns the wildcard form of the dihedral as a
// space-separated string, i.e. "X CT CT X".
func (D *Dihedral) WildcardString() string {
	w := D.WildcardTypes()
	return strings.Join(w[:], " ")
}

// Returns a copy of the dihedral. The atoms are shared, the parameters are not.
func (D *Dihedral) copy() *Dihedral {
	return &Dihedral{At: D.At, FuncT: D.FuncT, Param: slices.Clone(D.Param), General: D.General}
}

// SameAtoms returns true if both dihedrals involve the same
// atom indexes, in the same order.
func (D *Dihedral) SameAtoms(O *Dihedral) bool {
	for i, v := range D.At {
		if v.ID != O.At[i].ID {
			return false
		}
	}
	return true
}

func ids(t Term) []int {
	at := t.Atoms()
	ret := make([]int, len(at))
	for i, v := range at {
		ret[i] = v.ID
	}
	return ret
}

func types(t Term) []string {
	at := t.Atoms()
	ret := make([]string, len(at))
	for i, v := range at {
		ret[i] = v.Type
	}
	return ret
}
