/*
 * topology.go, part of septop
 *
 * Copyright 2025 Raul Mera A. (rmeraaatacademicosdotutadotcl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package top

import (
	"gonum.org/v1/gonum/floats"
)

// Options changes how a topology is read.
type Options struct {
	//Symbols considered defined for #ifdef/#ifndef blocks
	Defines []string
	//If true, a uniform correction is added to the charge of each atom, so
	//the total charge becomes TargetCharge.
	RedistributeCharge bool
	TargetCharge       float64
}

// Charge holds the total charge of a molecule, before and after
// the (optional) redistribution.
type Charge struct {
	Total      float64 //as read
	Correction float64 //added to every atom. 0 unless the charge was redistributed
	Final      float64
}

// FF contains all the information read from a Gromacs molecule topology,
// with the bonded terms both as they appear in the file (Bonds, Angles, Dihedrals)
// and reduced to their unique, force-field terms (UBonds, UAngles, UDihedrals).
// Dihedrals that share their 4 atoms are merged into one.
// The same term is never in both an instance and a unique slice, so modifying
// one doesn't change the other.
type FF struct {
	Sections     *Sections
	ATypes       []*AtomType //nil if the topology has no [ atomtypes ]
	Atoms        AtomIndex
	MoleculeType []string //verbatim records of [ moleculetype ], if present
	Pairs        []string //verbatim records of [ pairs ], if present
	Bonds        []*Bond
	Angles       []*Angle
	Dihedrals    []*Dihedral
	UBonds       []*Bond
	UAngles      []*Angle
	UDihedrals   []*Dihedral
	Charge       Charge
}

// NewFF builds an FF from the sections of a topology. Only the Defines field
// of opts, if given, is not used, as it is needed only when sectionizing.
func NewFF(S *Sections, opts ...Options) (*FF, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	for _, v := range mandatory {
		if !S.Has(v) {
			return nil, newError(MissingDirective, v, "", "the topology has no [ %s ] directive", v)
		}
	}
	F := &FF{Sections: S}
	var err error
	if S.Has(DirAtomTypes) {
		r := S.Records(DirAtomTypes)
		F.ATypes = make([]*AtomType, 0, len(r))
		for _, l := range r {
			at, err := AtomTypeFromGro(l)
			if err != nil {
				return nil, errDecorate(err, "NewFF")
			}
			F.ATypes = append(F.ATypes, at)
		}
	}
	if err = F.readAtoms(); err != nil {
		return nil, errDecorate(err, "NewFF")
	}
	F.charges(o)
	F.MoleculeType = S.Records(DirMoleculeType)
	F.Pairs = S.Records(DirPairs)
	if F.Bonds, err = readTerms(S.Records(DirBonds), F.Atoms, BondFromGro); err != nil {
		return nil, errDecorate(err, "NewFF")
	}
	if F.Angles, err = readTerms(S.Records(DirAngles), F.Atoms, AngleFromGro); err != nil {
		return nil, errDecorate(err, "NewFF")
	}
	dihe, err := readTerms(S.Records(DirDihedrals), F.Atoms, DihedralFromGro)
	if err != nil {
		return nil, errDecorate(err, "NewFF")
	}
	if F.Dihedrals, err = FoldMultiplicities(dihe); err != nil {
		return nil, errDecorate(err, "NewFF")
	}
	F.Canonicalize()
	return F, nil
}

// ReadFF reads a topology from r and returns the corresponding FF.
func ReadFF(r StringReader, opts ...Options) (*FF, error) {
	var defs []string
	if len(opts) > 0 {
		defs = opts[0].Defines
	}
	S, err := ReadSections(r, defs...)
	if err != nil {
		return nil, errDecorate(err, "ReadFF")
	}
	return NewFF(S, opts...)
}

// FFFromFile reads the topology in the file fname, which can be
// compressed (see TopInMemFromFile).
func FFFromFile(fname string, opts ...Options) (*FF, error) {
	t, err := TopInMemFromFile(fname)
	if err != nil {
		return nil, err
	}
	return ReadFF(t, opts...)
}

// Canonicalize recomputes the unique bonded terms from the instances
// in the receiver. The dihedrals must be already folded.
func (F *FF) Canonicalize() {
	F.UBonds = cloneTerms(Canonical(F.Bonds))
	F.UAngles = cloneTerms(Canonical(F.Angles))
	F.UDihedrals = CanonicalDihedrals(F.Dihedrals)
}

func (F *FF) readAtoms() error {
	r := F.Sections.Records(DirAtoms)
	F.Atoms = make(AtomIndex, 0, len(r))
	for i, l := range r {
		a, err := AtomFromGro(l, i+1, F.ATypes)
		if err != nil {
			return err
		}
		F.Atoms = append(F.Atoms, a)
	}
	return nil
}

// computes the total charge and, if requested, redistributes it.
func (F *FF) charges(o Options) {
	q := make([]float64, len(F.Atoms))
	for i, v := range F.Atoms {
		q[i] = v.Charge
	}
	F.Charge.Total = floats.Sum(q)
	F.Charge.Final = F.Charge.Total
	if !o.RedistributeCharge || len(q) == 0 {
		return
	}
	F.Charge.Correction = (o.TargetCharge - F.Charge.Total) / float64(len(q))
	floats.AddConst(F.Charge.Correction, q)
	for i, v := range F.Atoms {
		v.Charge = q[i]
	}
	F.Charge.Final = floats.Sum(q)
}

func readTerms[T Term](records []string, atoms AtomIndex, read func(string, AtomIndex) (T, error)) ([]T, error) {
	ret := make([]T, 0, len(records))
	for _, l := range records {
		t, err := read(l, atoms)
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
	}
	return ret, nil
}

func cloneTerms[T *Bond | *Angle](terms []T) []T {
	ret := make([]T, len(terms))
	for i, v := range terms {
		switch t := any(v).(type) {
		case *Bond:
			c := *t
			c.Param = append([]float64(nil), t.Param...)
			ret[i] = any(&c).(T)
		case *Angle:
			c := *t
			c.Param = append([]float64(nil), t.Param...)
			ret[i] = any(&c).(T)
		}
	}
	return ret
}
