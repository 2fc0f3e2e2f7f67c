package top

import (
	"slices"
	"strconv"
)

// Number of parameters per block that function funct takes for terms of kind k,
// or -1 if the function is not supported for that kind.
func paramCount(k Kind, funct int) int {
	switch k {
	case KBond, KAngle:
		if funct == 1 || funct == 2 {
			return 2
		}
	case KDihedral:
		switch funct {
		case 1, 4, 9:
			return 3
		case 3:
			return 6
		}
	}
	return -1
}

// Supported returns true if funct is a supported function for terms of kind k.
func Supported(k Kind, funct int) bool {
	return paramCount(k, funct) > 0
}

// AtomIndex maps the 1-based atom numbers of a molecule to its atoms.
// It is not modified after the atoms are read.
type AtomIndex []*Atom

// Atom returns the atom with number (1-based) id, or nil if there is none.
func (A AtomIndex) Atom(id int) *Atom {
	if id < 1 || id > len(A) {
		return nil
	}
	return A[id-1]
}

func (A AtomIndex) Len() int {
	return len(A)
}

// Fills the directive and line information in err, if it's an *Error
// lacking it.
func withContext(err error, directive, line string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	if e.Directive == "" {
		e.Directive = directive
	}
	if e.Line == "" {
		e.Line = line
	}
	return e
}

// Particle types accepted in [ atomtypes ] records.
var ptypes = []string{"A", "S", "V", "D"}

// AtomTypeFromGro returns the AtomType in the [ atomtypes ] record s.
// Records with 6 (no atomic number), 7, or 8 (with a bonded type after the name)
// fields are accepted: name [btype] [at.num] mass charge ptype sigma epsilon
func AtomTypeFromGro(s string) (ret *AtomType, err error) {
	defer func() {
		if err != nil {
			err = errDecorate(withContext(err, DirAtomTypes, s), "AtomTypeFromGro")
			ret = nil
		}
	}()
	f := fi(cleanString(s))
	if len(f) < 6 || len(f) > 8 {
		return nil, newError(MalformedRecord, "", "", "expected 6 to 8 fields, got %d", len(f))
	}
	n := len(f)
	if !slices.Contains(ptypes, f[n-3]) {
		return nil, newError(MalformedRecord, "", "", "invalid particle type %q", f[n-3])
	}
	ret = &AtomType{Name: f[0], Ptype: f[n-3]}
	switch n {
	case 8:
		ret.BondType = f[1]
		fallthrough
	case 7:
		ret.AtNum, err = strconv.Atoi(f[n-6])
		if err != nil {
			return nil, newError(InvalidNumericField, "", "", "atomic number %q is not an integer", f[n-6])
		}
	}
	nums, err := parsefloats(f[n-5], f[n-4], f[n-2], f[n-1])
	if err != nil {
		return nil, err
	}
	ret.Mass, ret.Charge, ret.Sigma, ret.Epsilon = nums[0], nums[1], nums[2], nums[3]
	return ret, nil
}

// AtomFromGro returns the atom in the [ atoms ] record s, which must be the
// atom number pos (1-based) of the molecule. If the record lacks the mass, it
// is taken from the corresponding type in atypes.
// nr type resnr residue atom cgnr charge [mass]
func AtomFromGro(s string, pos int, atypes []*AtomType) (ret *Atom, err error) {
	defer func() {
		if err != nil {
			err = errDecorate(withContext(err, DirAtoms, s), "AtomFromGro")
			ret = nil
		}
	}()
	f := fi(cleanString(s))
	if len(f) < 7 {
		return nil, newError(MalformedRecord, "", "", "expected at least 7 fields, got %d", len(f))
	}
	ints, err := parseints(f[0], f[2], f[5])
	if err != nil {
		return nil, err
	}
	if ints[0] != pos {
		return nil, newError(MalformedRecord, "", "", "atom number %d found where %d was expected", ints[0], pos)
	}
	ret = &Atom{ID: ints[0], Type: f[1], MolID: ints[1], MolName: f[3], Name: f[4], CGroup: ints[2]}
	if len(f) >= 8 {
		nums, err := parsefloats(f[6], f[7])
		if err != nil {
			return nil, err
		}
		ret.Charge, ret.Mass = nums[0], nums[1]
		return ret, nil
	}
	nums, err := parsefloats(f[6])
	if err != nil {
		return nil, err
	}
	ret.Charge = nums[0]
	i := slices.IndexFunc(atypes, func(t *AtomType) bool { return t.Name == ret.Type })
	if i < 0 {
		return nil, newError(MalformedRecord, "", "", "no mass given and no atom type %q declared", ret.Type)
	}
	ret.Mass = atypes[i].Mass
	return ret, nil
}

// reads a bonded term with natoms atoms of kind k from the record s.
// Returns the atoms, the function and the parameters.
func termFromGro(s string, k Kind, natoms int, atoms AtomIndex) ([]*Atom, int, []float64, error) {
	f := fi(cleanString(s))
	if len(f) < natoms+1 {
		return nil, 0, nil, newError(MalformedRecord, "", "", "expected at least %d fields, got %d", natoms+1, len(f))
	}
	ints, err := parseints(f[:natoms+1]...)
	if err != nil {
		return nil, 0, nil, err
	}
	funct := ints[natoms]
	if !Supported(k, funct) {
		e := newError(UnsupportedFunction, "", "", "function %d is not supported for %ss", funct, k)
		e.Funct = funct
		return nil, 0, nil, e
	}
	n := paramCount(k, funct)
	if len(f)-natoms-1 != n {
		return nil, 0, nil, newError(MalformedRecord, "", "", "function %d takes %d parameters, got %d", funct, n, len(f)-natoms-1)
	}
	params, err := parsefloats(f[natoms+1:]...)
	if err != nil {
		return nil, 0, nil, err
	}
	//the multiplicity of periodic dihedrals must be an integer.
	if k == KDihedral && n == 3 {
		if _, err := strconv.Atoi(f[len(f)-1]); err != nil {
			return nil, 0, nil, newError(InvalidNumericField, "", "", "multiplicity %q is not an integer", f[len(f)-1])
		}
	}
	ats := make([]*Atom, natoms)
	for i, v := range ints[:natoms] {
		ats[i] = atoms.Atom(v)
		if ats[i] == nil {
			return nil, 0, nil, newError(UnresolvedAtomReference, "", "", "atom %d not in the molecule (%d atoms)", v, atoms.Len())
		}
	}
	return ats, funct, params, nil
}

// BondFromGro returns the bond in the [ bonds ] record s, with atoms taken from atoms.
// ai aj funct b0 kb
func BondFromGro(s string, atoms AtomIndex) (*Bond, error) {
	ats, funct, params, err := termFromGro(s, KBond, 2, atoms)
	if err != nil {
		return nil, errDecorate(withContext(err, DirBonds, s), "BondFromGro")
	}
	return &Bond{At: [2]*Atom{ats[0], ats[1]}, FuncT: funct, Param: params}, nil
}

// AngleFromGro returns the angle in the [ angles ] record s, with atoms taken from atoms.
// ai aj ak funct theta0 k
func AngleFromGro(s string, atoms AtomIndex) (*Angle, error) {
	ats, funct, params, err := termFromGro(s, KAngle, 3, atoms)
	if err != nil {
		return nil, errDecorate(withContext(err, DirAngles, s), "AngleFromGro")
	}
	return &Angle{At: [3]*Atom{ats[0], ats[1], ats[2]}, FuncT: funct, Param: params}, nil
}

// DihedralFromGro returns the dihedral in the [ dihedrals ] record s, with atoms taken from atoms.
// ai aj ak al funct phi k mult (functions 1, 4, 9)
// ai aj ak al funct C0 C1 C2 C3 C4 C5 (function 3)
func DihedralFromGro(s string, atoms AtomIndex) (*Dihedral, error) {
	ats, funct, params, err := termFromGro(s, KDihedral, 4, atoms)
	if err != nil {
		return nil, errDecorate(withContext(err, DirDihedrals, s), "DihedralFromGro")
	}
	return &Dihedral{At: [4]*Atom{ats[0], ats[1], ats[2], ats[3]}, FuncT: funct, Param: params}, nil
}
