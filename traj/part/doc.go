/*
 * doc.go, part of partview.
 *
 * Copyright 2026 The partview authors
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
Package part reads and writes PART particle snapshot files. A trajectory in
this format is a directory with one file per saved simulation step, usually
named <base>_<step>.bin, with the step zero-padded to 5 digits.

******************** Format Specification   ***************************************************

Everything is little-endian, and there is no padding anywhere.

A file starts with a 28 bytes header:

	magic    4 bytes   the ASCII characters "PART"
	version  uint32    currently 1
	step     uint64    simulation step of the snapshot
	count    uint64    number of particle records that follow
	flags    uint32    reserved, currently 0. Readers must ignore unknown bits.

Right after the header come exactly count records of 21 bytes each:

	x, y, z  float32   position
	type     uint32    particle type identifier
	id       uint32    particle id. An opaque label; the slot of a particle
	                   in one frame says nothing about its slot in another.
	state    uint8     bit flags, see State

A file whose first 4 bytes are not "PART" is rejected (ErrInvalidMagic).
A file shorter than 28 + count*21 bytes is rejected (ErrTruncatedFile).
Bytes after the last record are ignored.

Files may be compressed as a whole. The codec is chosen from the
extension: .zst is z-standard, .gz is gzip, anything else is read as is.
The size checks above apply to the decompressed bytes.

***************************************************************************************************
*/
package part
