/*
 * gromacsheaders.go, part of septop
 *
 *
 * Copyright 2024 Raul Mera  <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 *
 *  This program is free software; you can redistribute it and/or modify
 *  it under the terms of the GNU Lesser General Public License as published by
 *  the Free Software Foundation; either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  This program is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License along
 *  with this program; if not, write to the Free Software Foundation, Inc.,
 *  51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 *
 *
 */

package top

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var fi func(string) []string = strings.Fields
var sf func(string, ...any) string = fmt.Sprintf

// Names of the directives this package knows about.
const (
	DirAtomTypes    = "atomtypes"
	DirMoleculeType = "moleculetype"
	DirAtoms        = "atoms"
	DirPairs        = "pairs"
	DirBonds        = "bonds"
	DirAngles       = "angles"
	DirDihedrals    = "dihedrals"
)

// Directives that must be present in every molecule topology.
var mandatory = []string{DirAtoms, DirBonds, DirAngles, DirDihedrals}

// Utility functions

// parses each string in s as an int. The error returned, if any, is an *Error
// of kind InvalidNumericField, with no directive or line set.
func parseints(s ...string) ([]int, error) {
	r := make([]int, 0, len(s))
	for _, v := range s {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, &Error{Kind: InvalidNumericField, message: sf("%q is not an integer", v)}
		}
		r = append(r, i)
	}
	return r, nil
}

func parsefloats(s ...string) ([]float64, error) {
	r := make([]float64, 0, len(s))
	for _, v := range s {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &Error{Kind: InvalidNumericField, message: sf("%q is not a number", v)}
		}
		r = append(r, f)
	}
	return r, nil
}

// Returns a string without gromacs comments (sequences starting with ';'),
// trailing and leading spaces, tabs and newlines
func cleanString(s string) string {
	f := strings.Split(s, ";")[0]
	return strings.Trim(f, "\r\n\t ")
}

type topHeader struct {
	wany *regexp.Regexp
	name *regexp.Regexp
}

func newTopHeader() *topHeader {
	T := new(topHeader)
	T.wany = regexp.MustCompile(`^\[\s*.*\s*\]$`)
	T.name = regexp.MustCompile(`^\[\s*([^\]\s]+)\s*\]$`)
	return T
}

// Returns true if the line is a Gromacs header. It discards comments.
func (T *topHeader) Is(line string) bool {
	return T.wany.MatchString(cleanString(line))
}

// Returns the name of the header in the line, in lower case, (i.e. "atoms" for "[ atoms ]")
// or an empty string if the line is not a header.
func (T *topHeader) Which(line string) string {
	m := T.name.FindStringSubmatch(cleanString(line))
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// cond keeps track of the #ifdef/#ifndef/#else/#endif blocks
// of a topology, given the defined symbols.
type cond struct {
	stack   []bool
	defines []string
}

func newCond(defines []string) *cond {
	return &cond{defines: defines}
}

func (c *cond) active() bool {
	for _, v := range c.stack {
		if !v {
			return false
		}
	}
	return true
}

// read processes the preprocessor line, if it is one, and returns true
// if the line was consumed by the conditional machinery.
func (c *cond) read(line string) (bool, error) {
	f := fi(line)
	if len(f) == 0 {
		return false, nil
	}
	switch f[0] {
	case "#ifdef", "#ifndef":
		if len(f) < 2 {
			return true, newError(MalformedRecord, "", line, "%s without a symbol", f[0])
		}
		def := slices.Contains(c.defines, f[1])
		c.stack = append(c.stack, def == (f[0] == "#ifdef"))
		return true, nil
	case "#else":
		if len(c.stack) == 0 {
			return true, newError(MalformedRecord, "", line, "#else without #ifdef")
		}
		c.stack[len(c.stack)-1] = !c.stack[len(c.stack)-1]
		return true, nil
	case "#endif":
		if len(c.stack) == 0 {
			return true, newError(MalformedRecord, "", line, "#endif without #ifdef")
		}
		c.stack = c.stack[:len(c.stack)-1]
		return true, nil
	}
	return false, nil
}

type StringReader interface {
	ReadString(byte) (string, error)
}
