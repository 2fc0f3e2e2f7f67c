/*
 * doc.go, part of septop
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

/*
Top is a package for reading Gromacs molecule topologies (itp/top files) and
splitting them into two files: a force-field file with one line per unique
bonded parameter set (written in terms of atom types), and a molecule file
with one line per bonded term (written in terms of atom indexes).

The pipeline is:

	lines -> Sections (Sectionize) -> FF (NewFF) -> FFLines / MolLines

Bonds, angles and dihedrals are reduced to their canonical (unique) sets
using type-level equivalence: two terms are the same force-field term if
their atoms have the same types and masses, in the same or in the reversed
order, and they share function and parameters. Dihedral records that share
the same four atom indexes are folded into a single multi-term dihedral
before that. All the records for one quadruplet must be periodic dihedrals
with the same function; mixed functions, or more than one Ryckaert-Bellemans
record, are reported as MalformedRecord.

Only harmonic bonds and angles (functions 1 and 2), periodic dihedrals
(1, 4, 9) and Ryckaert-Bellemans dihedrals (3) are supported.
*/
package top
