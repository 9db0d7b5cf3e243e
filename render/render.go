/*
 * render.go, part of partview.
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

//Package render has a few implementations of partview.Renderer. None of them
//is interactive: PNG writes one image per frame, Log only reports what it gets and
//Recorder keeps the last point cloud in memory.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/partview"
)

var ErrLengthMismatch = errors.New("render: positions and colors differ in length")

var (
	_ partview.Renderer = (*PNG)(nil)
	_ partview.Renderer = (*Log)(nil)
	_ partview.Renderer = (*Recorder)(nil)
)

func check(pos []r3.Vec, colors []color.RGBA) error {
	if len(pos) != len(colors) {
		return fmt.Errorf("%w: %d positions, %d colors", ErrLengthMismatch, len(pos), len(colors))
	}
	return nil
}

// Box is an axis aligned bounding box.
type Box struct {
	Min, Max r3.Vec
}

//Bounds returns the bounding box of pos, and false if pos is empty.
func Bounds(pos []r3.Vec) (Box, bool) {
	if len(pos) == 0 {
		return Box{}, false
	}
	b := Box{Min: pos[0], Max: pos[0]}
	for _, p := range pos[1:] {
		b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b, true
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: r3.Vec{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: r3.Vec{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Size returns the edge lengths of the box.
func (b Box) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Log is a Renderer that only logs a line per point cloud it gets.
type Log struct {
	Logger *slog.Logger //nil means slog.Default()
	n      int
}

func (L *Log) SetPoints(pos []r3.Vec, colors []color.RGBA) error {
	if err := check(pos, colors); err != nil {
		return err
	}
	L.n++
	l := L.Logger
	if l == nil {
		l = slog.Default()
	}
	b, ok := Bounds(pos)
	if !ok {
		l.Info("point cloud", "n", L.n, "points", 0)
		return nil
	}
	l.Info("point cloud", "n", L.n, "points", len(pos),
		"min", fmt.Sprintf("%.3g %.3g %.3g", b.Min.X, b.Min.Y, b.Min.Z),
		"max", fmt.Sprintf("%.3g %.3g %.3g", b.Max.X, b.Max.Y, b.Max.Z))
	return nil
}

// Recorder is a Renderer that keeps a copy of the last point cloud.
// It is safe to inspect it while it is being fed.
type Recorder struct {
	mu     sync.Mutex
	calls  int
	pos    []r3.Vec
	colors []color.RGBA
}

func (R *Recorder) SetPoints(pos []r3.Vec, colors []color.RGBA) error {
	if err := check(pos, colors); err != nil {
		return err
	}
	R.mu.Lock()
	defer R.mu.Unlock()
	R.calls++
	R.pos = append(R.pos[:0], pos...)
	R.colors = append(R.colors[:0], colors...)
	return nil
}

// Calls returns how many point clouds were accepted so far.
func (R *Recorder) Calls() int {
	R.mu.Lock()
	defer R.mu.Unlock()
	return R.calls
}

// Last returns copies of the last point cloud.
func (R *Recorder) Last() ([]r3.Vec, []color.RGBA) {
	R.mu.Lock()
	defer R.mu.Unlock()
	return append([]r3.Vec(nil), R.pos...), append([]color.RGBA(nil), R.colors...)
}
