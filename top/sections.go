package top

import (
	"errors"
	"io"
	"strings"
)

// Section is one directive block of a topology. Lines contains the
// comment-stripped, non-empty lines of the block, with the header
// line itself at index 0.
type Section struct {
	Name   string //the directive name, in lower case, i.e. "atoms"
	Header string //the header line, as in the file (without comments)
	Lines  []string
}

// Records returns the lines in the section, without the header.
func (S Section) Records() []string {
	if len(S.Lines) == 0 {
		return nil
	}
	return S.Lines[1:]
}

// Sections is the ordered list of directive blocks in a topology.
// A directive can appear more than once.
type Sections struct {
	List []Section
	//#include, #define and other preprocessor lines that are not
	//conditionals. They are not interpreted.
	Preprocessor []string
}

// Has returns true if at least one block of the directive name is present.
func (S *Sections) Has(name string) bool {
	_, ok := S.Get(name)
	return ok
}

// Get returns the first block of the directive name.
func (S *Sections) Get(name string) (Section, bool) {
	for _, v := range S.List {
		if v.Name == name {
			return v, true
		}
	}
	return Section{}, false
}

// Records returns the records of all the blocks for the directive name,
// in file order.
func (S *Sections) Records(name string) []string {
	var ret []string
	for _, v := range S.List {
		if v.Name == name {
			ret = append(ret, v.Records()...)
		}
	}
	return ret
}

// Names returns the directive names, in the order they appear
// (repeated directives appear repeated).
func (S *Sections) Names() []string {
	ret := make([]string, 0, len(S.List))
	for _, v := range S.List {
		ret = append(ret, v.Name)
	}
	return ret
}

// Sectionize splits the lines of a Gromacs topology into directive blocks.
// Comments and blank lines are discarded, and lines in #ifdef/#ifndef blocks
// that don't apply, given the defined symbols, are dropped.
// Lines before the first directive are ignored.
func Sectionize(lines []string, defines ...string) (*Sections, error) {
	S := new(Sections)
	header := newTopHeader()
	read := newCond(defines)
	var current *Section
	for _, v := range lines {
		l := cleanString(v)
		if l == "" {
			continue
		}
		if strings.HasPrefix(l, "#") {
			cond, err := read.read(l)
			if err != nil {
				return nil, errDecorate(err, "Sectionize")
			}
			if !cond && read.active() {
				S.Preprocessor = append(S.Preprocessor, l)
			}
			continue
		}
		if !read.active() {
			continue
		}
		if header.Is(l) {
			S.List = append(S.List, Section{Name: header.Which(l), Header: l, Lines: []string{l}})
			current = &S.List[len(S.List)-1]
			continue
		}
		if current == nil {
			continue
		}
		current.Lines = append(current.Lines, l)
	}
	if len(read.stack) != 0 {
		return nil, newError(MalformedRecord, "", "", "%d unterminated #ifdef/#ifndef block(s)", len(read.stack))
	}
	return S, nil
}

// ReadSections reads all the lines from r and sectionizes them.
func ReadSections(r StringReader, defines ...string) (*Sections, error) {
	lines := make([]string, 0, 100)
	var s string
	var err error
	for s, err = r.ReadString('\n'); err == nil; s, err = r.ReadString('\n') {
		lines = append(lines, s)
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	//the last line might not end in '\n'
	if s != "" {
		lines = append(lines, s)
	}
	return Sectionize(lines, defines...)
}
