package top

import (
	"slices"
)

// matches returns true if the types in pattern match the types of d, forward
// or backwards. The type X in pattern matches any type.
func matches(pattern [4]string, d *Dihedral) bool {
	t := d.Types()
	eq := func(p, s string) bool { return p == Wildcard || p == s }
	forward := true
	for i, v := range pattern {
		if !eq(v, t[i]) {
			forward = false
			break
		}
	}
	if forward {
		return true
	}
	for i, v := range pattern {
		if !eq(v, t[3-i]) {
			return false
		}
	}
	return true
}

// SubstituteDihedral replaces every dihedral, in both the instance and the unique
// slices, whose atom types match pattern (forward or reversed, with X matching any type)
// with a new dihedral with the same atoms and the function funct and parameters params.
// Only Ryckaert-Bellemans (function 3) replacements are supported.
// It returns the number of dihedrals replaced. The unique dihedrals are not
// recomputed, call Canonicalize for that.
func (F *FF) SubstituteDihedral(pattern [4]string, funct int, params []float64) (int, error) {
	if funct != 3 {
		e := newError(UnsupportedFunction, DirDihedrals, "", "only function 3 can be used to replace dihedrals, got %d", funct)
		e.Funct = funct
		return 0, errDecorate(e, "SubstituteDihedral")
	}
	if n := paramCount(KDihedral, funct); len(params) != n {
		return 0, errDecorate(newError(MalformedRecord, DirDihedrals, "", "function %d takes %d parameters, got %d", funct, n, len(params)), "SubstituteDihedral")
	}
	replaced := 0
	replace := func(ds []*Dihedral) {
		for i, v := range ds {
			if !matches(pattern, v) {
				continue
			}
			ds[i] = &Dihedral{At: v.At, FuncT: funct, Param: slices.Clone(params), General: v.General}
			replaced++
		}
	}
	replace(F.Dihedrals)
	replace(F.UDihedrals)
	return replaced, nil
}
