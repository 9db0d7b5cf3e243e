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
Package partview replays particle trajectories written as one binary
snapshot per file (the "PART" format, see package traj/part) as an animated,
coloured point cloud.

	**Packages**

	traj/part    reads, validates and writes single frame files, raw or compressed.

	framestore   finds the frame files of a trajectory directory and orders them.

	colormap     maps particle type identifiers to colours, normalised per frame
	             or over the whole trajectory.

	playback     the looping, timed decode -> colour -> present engine.

	render       some renderers: PNG snapshots, logging and an in-memory recorder.

	config       YAML configuration for the partview command.

This root package only holds the interfaces shared by the others, most
importantly Renderer, which is all the engine requires from whatever draws
the points.
*/
package partview
