package top

import (
	"slices"
)

// SymmetryOf returns the symmetry of terms of kind k. All the supported kinds are
// symmetric under the reversal of their atoms: swapping the 2 atoms of a bond,
// the outer atoms of an angle, and reading a dihedral backwards.
func SymmetryOf(k Kind) Symmetry {
	switch k {
	case KBond, KAngle, KDihedral:
		return Reversal
	}
	return Identity
}

// sameTypes returns true if the atoms in a and b are pairwise SameType, in
// order or, if sym is Reversal, with b reversed.
func sameTypes(a, b []*Atom, sym Symmetry) bool {
	if len(a) != len(b) {
		return false
	}
	forward := true
	for i, v := range a {
		if !v.SameType(b[i]) {
			forward = false
			break
		}
	}
	if forward || sym != Reversal {
		return forward
	}
	last := len(b) - 1
	for i, v := range a {
		if !v.SameType(b[last-i]) {
			return false
		}
	}
	return true
}

// Equivalent returns true if a and b are the same force-field term:
// same kind, function and parameters, and atoms of the same types
// under the symmetry of their kind.
func Equivalent(a, b Term) bool {
	if a.Kind() != b.Kind() || a.Funct() != b.Funct() {
		return false
	}
	if !slices.Equal(a.Params(), b.Params()) {
		return false
	}
	return sameTypes(a.Atoms(), b.Atoms(), SymmetryOf(a.Kind()))
}

// Canonical returns the minimal set of terms from terms such that every term
// is Equivalent to exactly one of them. The first occurrence of each class is
// the one kept, and the classes appear in the order they are first seen.
func Canonical[T Term](terms []T) []T {
	ret := make([]T, 0, len(terms)/2+1)
	for _, v := range terms {
		if !slices.ContainsFunc(ret, func(u T) bool { return Equivalent(u, v) }) {
			ret = append(ret, v)
		}
	}
	return ret
}

// MergeDihedrals returns a new dihedral with the atoms and function of the
// ones in ds, which must all involve the same atom indexes, and the parameters
// of all of them, concatenated in the given order.
// The dihedrals in ds are not modified. A single dihedral is returned as is.
// Only periodic dihedrals sharing one function can be merged; anything else
// is a MalformedRecord error.
func MergeDihedrals(ds []*Dihedral) (*Dihedral, error) {
	if len(ds) == 0 {
		return nil, newError(MalformedRecord, DirDihedrals, "", "no dihedrals to merge")
	}
	if len(ds) == 1 {
		return ds[0], nil
	}
	first := ds[0]
	if paramCount(KDihedral, first.FuncT) != 3 {
		return nil, newError(MalformedRecord, DirDihedrals, "", "dihedral %v has %d records, but only periodic dihedrals (functions 1, 4, 9) can have more than one record per atom quadruplet, and function %d is not periodic", ids(first), len(ds), first.FuncT)
	}
	params := make([]float64, 0, len(ds)*len(first.Param))
	for _, v := range ds {
		if !v.SameAtoms(first) {
			return nil, newError(MalformedRecord, DirDihedrals, "", "can't merge dihedrals %v and %v", ids(first), ids(v))
		}
		if v.FuncT != first.FuncT {
			return nil, newError(MalformedRecord, DirDihedrals, "", "dihedral %v has records with functions %d and %d; all the records for one atom quadruplet must use the same function", ids(first), first.FuncT, v.FuncT)
		}
		params = append(params, v.Param...)
	}
	return &Dihedral{At: first.At, FuncT: first.FuncT, Param: params}, nil
}

// FoldMultiplicities groups the dihedrals that involve the same atom indexes
// (in the same order) and merges each group with MergeDihedrals. The groups
// appear in the order of their first member. Folding an already folded slice
// returns an equivalent slice.
func FoldMultiplicities(ds []*Dihedral) ([]*Dihedral, error) {
	groups := make([][]*Dihedral, 0, len(ds))
	//the group index for each set of atom IDs.
	index := make(map[[4]int]int, len(ds))
	for _, v := range ds {
		key := [4]int{v.At[0].ID, v.At[1].ID, v.At[2].ID, v.At[3].ID}
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, []*Dihedral{v})
			continue
		}
		groups[i] = append(groups[i], v)
	}
	ret := make([]*Dihedral, 0, len(groups))
	for _, g := range groups {
		m, err := MergeDihedrals(g)
		if err != nil {
			return nil, errDecorate(err, "FoldMultiplicities")
		}
		ret = append(ret, m)
	}
	return ret, nil
}

// CanonicalDihedrals returns the canonical set of the (already folded) dihedrals in
// ds. The returned dihedrals are copies, never the ones in ds. A returned dihedral is
// marked as General if its class has more than one member in ds, or if it has more
// than one multiplicity.
func CanonicalDihedrals(ds []*Dihedral) []*Dihedral {
	if len(ds) == 0 {
		return nil
	}
	ret := []*Dihedral{ds[0].copy()}
	members := []int{1}
	for _, v := range ds[1:] {
		i := slices.IndexFunc(ret, func(u *Dihedral) bool { return Equivalent(u, v) })
		if i < 0 {
			ret = append(ret, v.copy())
			members = append(members, 1)
			continue
		}
		members[i]++
	}
	for i, v := range ret {
		v.General = members[i] > 1 || len(v.Components()) > 1
	}
	return ret
}
