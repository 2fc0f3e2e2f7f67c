package top

import (
	"errors"
	"slices"
	"testing"
)

func TestSubstituteDihedral(Te *testing.T) {
	F := butane(Te)
	rb := []float64{0.6276, 1.8828, 0, -2.5104, 0, 0}
	n, err := F.SubstituteDihedral([4]string{"CT", "CT", "CT", "HC"}, 3, rb)
	if err != nil {
		Te.Fatal(err)
	}
	//5-1-2-3 and 2-3-4-6 in the instances, and one unique dihedral.
	if n != 3 {
		Te.Errorf("expected 3 replacements, got %d", n)
	}
	for _, i := range []int{1, 2} {
		d := F.Dihedrals[i]
		if d.FuncT != 3 || !slices.Equal(d.Param, rb) {
			Te.Errorf("dihedral %d not replaced: %+v", i, d)
		}
	}
	if F.Dihedrals[0].FuncT != 9 {
		Te.Error("the CT CT CT CT dihedral should not be replaced")
	}
	if F.UDihedrals[1].FuncT != 3 {
		Te.Error("the unique dihedral was not replaced")
	}
	rb[0] = 100
	if F.Dihedrals[1].Param[0] == 100 {
		Te.Error("the parameters should be copied")
	}
}

func TestSubstituteDihedralWildcard(Te *testing.T) {
	F := butane(Te)
	n, err := F.SubstituteDihedral([4]string{Wildcard, "CT", "CT", Wildcard}, 3, make([]float64, 6))
	if err != nil {
		Te.Fatal(err)
	}
	if n != len(F.Dihedrals)+len(F.UDihedrals) {
		Te.Errorf("every dihedral should match X CT CT X, got %d", n)
	}
	if n, _ = F.SubstituteDihedral([4]string{"HC", "HC", "X", "X"}, 3, make([]float64, 6)); n != 0 {
		Te.Errorf("nothing should match HC HC X X, got %d", n)
	}
}

func TestSubstituteDihedralErrors(Te *testing.T) {
	F := butane(Te)
	if _, err := F.SubstituteDihedral([4]string{"X", "CT", "CT", "X"}, 9, []float64{0, 1, 3}); !errors.Is(err, ErrUnsupportedFunction) {
		Te.Errorf("function 9 should be unsupported, got %v", err)
	}
	if _, err := F.SubstituteDihedral([4]string{"X", "CT", "CT", "X"}, 3, []float64{0, 1, 3}); !errors.Is(err, ErrMalformedRecord) {
		Te.Errorf("3 parameters for an RB dihedral should be malformed, got %v", err)
	}
	if F.Dihedrals[0].FuncT != 9 {
		Te.Error("a failed substitution changed the topology")
	}
}
