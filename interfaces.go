/*
 * interfaces.go, part of partview.
 *
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

package partview

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer is whatever draws the point cloud. The playback engine calls it
// from a single goroutine, once per presented frame.
type Renderer interface {

	//SetPoints replaces the current point cloud. pos and colors
	//always have the same length. The renderer may present the
	//data whenever it wants; the call should not block on presentation.
	SetPoints(pos []r3.Vec, colors []color.RGBA) error
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(pos []r3.Vec, colors []color.RGBA) error

// SetPoints calls f(pos, colors).
func (f RendererFunc) SetPoints(pos []r3.Vec, colors []color.RGBA) error {
	return f(pos, colors)
}

//Errors

// Error is the interface for errors that all packages in this module implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice resulting from the current call. An empty string only returns the current value.
}

// FrameError is the interface for errors concerning a single frame file.
// Non-critical frame errors are skipped by the playback engine.
type FrameError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}
