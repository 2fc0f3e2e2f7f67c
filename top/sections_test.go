package top

import (
	"errors"
	"slices"
	"testing"
)

func TestSectionize(Te *testing.T) {
	lines := []string{
		"; a comment line",
		"#include \"ff.itp\"",
		"",
		"[ atoms ] ; header comment",
		"  1 CT 1 BUT C1 1 -0.1 12.011 ; trailing",
		"   ",
		"[bonds]",
		"1 2 1 0.153 224262.4",
		"[ dihedrals ]",
		"1 2 3 4 9 0 0.6 3",
		"[ dihedrals ]",
		"1 2 3 4 4 180 4.6 2",
	}
	S, err := Sectionize(lines)
	if err != nil {
		Te.Fatal(err)
	}
	if !slices.Equal(S.Names(), []string{"atoms", "bonds", "dihedrals", "dihedrals"}) {
		Te.Errorf("unexpected directives %v", S.Names())
	}
	at, ok := S.Get("atoms")
	if !ok {
		Te.Fatal("no atoms section")
	}
	if at.Lines[0] != "[ atoms ]" || len(at.Lines) != 2 {
		Te.Errorf("atoms section not as expected: %q", at.Lines)
	}
	if at.Lines[1] != "1 CT 1 BUT C1 1 -0.1 12.011" {
		Te.Errorf("comment not stripped: %q", at.Lines[1])
	}
	if b, _ := S.Get("bonds"); b.Header != "[bonds]" {
		Te.Errorf("header not kept verbatim: %q", b.Header)
	}
	if d := S.Records("dihedrals"); len(d) != 2 {
		Te.Errorf("repeated directives should be concatenated, got %q", d)
	}
	if !slices.Equal(S.Preprocessor, []string{"#include \"ff.itp\""}) {
		Te.Errorf("preprocessor lines: %q", S.Preprocessor)
	}
	if S.Has("angles") {
		Te.Error("absent directive reported as present")
	}
}

func TestSectionizeTabs(Te *testing.T) {
	lines := []string{
		"[\tatoms\t]",
		"1\tC\t1\tMOL\tC1\t1\t0.0\t12.011",
		"2\tC\t1\tMOL\tC2\t1\t0.0\t12.011",
		"[\tbonds ]",
		"1\t2\t1\t0.153\t224262.4",
		"\t[angles]\t",
		"[ dihedrals\t]",
	}
	S, err := Sectionize(lines)
	if err != nil {
		Te.Fatal(err)
	}
	if !slices.Equal(S.Names(), []string{"atoms", "bonds", "angles", "dihedrals"}) {
		Te.Fatalf("unexpected directives %q", S.Names())
	}
	F, err := NewFF(S)
	if err != nil {
		Te.Fatal(err)
	}
	if F.Atoms.Len() != 2 || len(F.Bonds) != 1 {
		Te.Errorf("expected 2 atoms and 1 bond, got %d and %d", F.Atoms.Len(), len(F.Bonds))
	}
}

func TestSectionizeConditionals(Te *testing.T) {
	lines := []string{
		"[ bonds ]",
		"1 2 1 0.1 1000",
		"#ifdef FLEX",
		"2 3 1 0.1 1000",
		"#else",
		"2 3 1 0.2 2000",
		"#ifndef FLEX",
		"3 4 1 0.3 3000",
		"#endif",
		"#endif",
	}
	S, err := Sectionize(lines)
	if err != nil {
		Te.Fatal(err)
	}
	want := []string{"1 2 1 0.1 1000", "2 3 1 0.2 2000", "3 4 1 0.3 3000"}
	if r := S.Records("bonds"); !slices.Equal(r, want) {
		Te.Errorf("without FLEX got %q, want %q", r, want)
	}
	S, err = Sectionize(lines, "FLEX")
	if err != nil {
		Te.Fatal(err)
	}
	want = []string{"1 2 1 0.1 1000", "2 3 1 0.1 1000"}
	if r := S.Records("bonds"); !slices.Equal(r, want) {
		Te.Errorf("with FLEX got %q, want %q", r, want)
	}
	_, err = Sectionize([]string{"[ bonds ]", "#ifdef FLEX", "1 2 1 0.1 1000"})
	if !errors.Is(err, ErrMalformedRecord) {
		Te.Errorf("unterminated #ifdef should be a malformed record, got %v", err)
	}
	_, err = Sectionize([]string{"#endif"})
	if !errors.Is(err, ErrMalformedRecord) {
		Te.Errorf("lone #endif should be a malformed record, got %v", err)
	}
}

func TestReadSections(Te *testing.T) {
	t := NewTopInMem([]string{"[ atoms ]", "1 CT 1 BUT C1 1 0 12.011"})
	S, err := ReadSections(t)
	if err != nil {
		Te.Fatal(err)
	}
	if r := S.Records("atoms"); len(r) != 1 || r[0] != "1 CT 1 BUT C1 1 0 12.011" {
		Te.Errorf("unexpected records %q", r)
	}
}
