package top

import (
	"io"
	"math"
	"strings"
)

// MolOptions changes how the molecule file is written.
type MolOptions struct {
	//Write the parameters of each bonded term, so the molecule file doesn't
	//need a force-field file.
	InlineParams bool
	//Add a comment with the atom types at the end of each bonded term.
	TypeComments bool
}

func atomTypeLine(A *AtomType) string {
	name := sf("%6s", A.Name)
	if A.BondType != "" {
		name += sf("%6s", A.BondType)
	}
	return name + sf("%6d%12.5f%12.5f%6s%12.5f%12.5f", A.AtNum, A.Mass, A.Charge, A.Ptype, A.Sigma, A.Epsilon)
}

func atomLine(A *Atom) string {
	return sf("%6d%6s%6d%7s%7s%6d%12.5f%12.5f", A.ID, A.Type, A.MolID, A.MolName, A.Name, A.CGroup, A.Charge, A.Mass)
}

// formats the parameters of one block of a term of kind k with function funct.
func paramString(k Kind, funct int, p []float64) string {
	switch {
	case k != KDihedral:
		return sf("%9.3f%12.3f", p[0], p[1])
	case funct == 3:
		var b strings.Builder
		for _, v := range p {
			b.WriteString(sf("%9.3f", v))
		}
		return b.String()
	}
	return sf("%9.3f%9.3f%9d", p[0], p[1], int(math.Round(p[2])))
}

// the parameter blocks of t, each of which goes in its own line.
func blocks(t Term) [][]float64 {
	if d, ok := t.(*Dihedral); ok {
		return d.Components()
	}
	return [][]float64{t.Params()}
}

// TypeLines returns the force-field lines (one per parameter block) for the
// term t, written in terms of atom types.
func TypeLines(t Term) []string {
	var head strings.Builder
	for _, v := range types(t) {
		head.WriteString(sf("%6s", v))
	}
	head.WriteString(sf("%6d", t.Funct()))
	bl := blocks(t)
	ret := make([]string, 0, len(bl))
	for _, b := range bl {
		ret = append(ret, head.String()+paramString(t.Kind(), t.Funct(), b))
	}
	if d, ok := t.(*Dihedral); ok && d.General {
		ret[0] += " ; general: " + d.WildcardString()
	}
	return ret
}

// MolLinesFor returns the molecule-file lines for the term t, written in terms
// of atom indexes. Without inline parameters, only one line is returned.
func MolLinesFor(t Term, o MolOptions) []string {
	var head strings.Builder
	for _, v := range ids(t) {
		head.WriteString(sf("%6d", v))
	}
	head.WriteString(sf("%6d", t.Funct()))
	comment := ""
	if o.TypeComments {
		comment = " ; " + strings.Join(types(t), " ")
	}
	if !o.InlineParams {
		return []string{head.String() + comment}
	}
	bl := blocks(t)
	ret := make([]string, 0, len(bl))
	for _, b := range bl {
		ret = append(ret, head.String()+paramString(t.Kind(), t.Funct(), b)+comment)
	}
	return ret
}

func termLines[T Term](header string, terms []T, f func(Term) []string) []string {
	ret := make([]string, 0, len(terms)+1)
	ret = append(ret, "[ "+header+" ]")
	for _, v := range terms {
		ret = append(ret, f(v)...)
	}
	return ret
}

// FFLines returns the force-field file for the topology, as a slice of lines.
// It contains the [ atomtypes ] (if the topology had them) and one line for each
// unique bond, angle and dihedral parameter block.
func (F *FF) FFLines() []string {
	ret := make([]string, 0, len(F.ATypes)+len(F.UBonds)+len(F.UAngles)+len(F.UDihedrals)+8)
	if F.ATypes != nil {
		ret = append(ret, "[ atomtypes ]")
		for _, v := range F.ATypes {
			ret = append(ret, atomTypeLine(v))
		}
		ret = append(ret, "")
	}
	ret = append(ret, termLines("bondtypes", F.UBonds, TypeLines)...)
	ret = append(ret, "")
	ret = append(ret, termLines("angletypes", F.UAngles, TypeLines)...)
	ret = append(ret, "")
	ret = append(ret, termLines("dihedraltypes", F.UDihedrals, TypeLines)...)
	return ret
}

// MolLines returns the molecule file for the topology, as a slice of lines.
// It contains the [ moleculetype ] and [ pairs ] of the original topology,
// if present, the atoms, and one entry per bond, angle and (merged) dihedral.
func (F *FF) MolLines(o MolOptions) []string {
	ret := make([]string, 0, len(F.Atoms)+len(F.Bonds)+len(F.Angles)+len(F.Dihedrals)+len(F.Pairs)+16)
	if F.Sections != nil && F.Sections.Has(DirMoleculeType) {
		ret = append(ret, "[ moleculetype ]")
		ret = append(ret, F.MoleculeType...)
		ret = append(ret, "")
	}
	ret = append(ret, "[ atoms ]")
	for _, v := range F.Atoms {
		ret = append(ret, atomLine(v))
	}
	ret = append(ret, "")
	if F.Sections != nil && F.Sections.Has(DirPairs) {
		ret = append(ret, "[ pairs ]")
		ret = append(ret, F.Pairs...)
		ret = append(ret, "")
	}
	mol := func(t Term) []string { return MolLinesFor(t, o) }
	ret = append(ret, termLines("bonds", F.Bonds, mol)...)
	ret = append(ret, "")
	ret = append(ret, termLines("angles", F.Angles, mol)...)
	ret = append(ret, "")
	ret = append(ret, termLines("dihedrals", F.Dihedrals, mol)...)
	return ret
}

func writeLines(w io.StringWriter, lines []string) error {
	for _, v := range lines {
		if _, err := w.WriteString(v + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteFF writes the force-field file for the topology to w.
func (F *FF) WriteFF(w io.StringWriter) error {
	return writeLines(w, F.FFLines())
}

// WriteMol writes the molecule file for the topology to w.
func (F *FF) WriteMol(w io.StringWriter, o MolOptions) error {
	return writeLines(w, F.MolLines(o))
}
