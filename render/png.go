/*
 * png.go, part of partview.
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

package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Plane is the plane the points are projected on.
type Plane int

const (
	XY Plane = iota
	XZ
	YZ
)

func (p Plane) project(v r3.Vec) (float64, float64) {
	switch p {
	case XZ:
		return v.X, v.Z
	case YZ:
		return v.Y, v.Z
	}
	return v.X, v.Y
}

func (p Plane) labels() (string, string) {
	switch p {
	case XZ:
		return "x", "z"
	case YZ:
		return "y", "z"
	}
	return "x", "y"
}

//PNG writes each point cloud it gets as a scatter plot in a PNG file,
//Dir/frame_000000.png, Dir/frame_000001.png and so on.
//The axes grow to hold every point seen so far, so the view does not jump
//around between frames.
type PNG struct {
	Dir    string
	Plane  Plane
	Size   vg.Length //side of the square image, 0 means 6 inches
	Radius vg.Length //glyph radius, 0 means 1.5 points
	Title  string

	n      int
	seen   Box
	haveBB bool
}

//NewPNG returns a PNG renderer writing in dir, which is created if needed.
func NewPNG(dir string) (*PNG, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("render: can't create output directory: %w", err)
	}
	return &PNG{Dir: dir}, nil
}

// Written returns the number of images written.
func (P *PNG) Written() int { return P.n }

// SetPoints plots the points and saves the image.
func (P *PNG) SetPoints(pos []r3.Vec, colors []color.RGBA) error {
	if err := check(pos, colors); err != nil {
		return err
	}
	p, err := P.plot(pos, colors)
	if err != nil {
		return err
	}
	size := P.Size
	if size == 0 {
		size = 6 * vg.Inch
	}
	c := vgimg.New(size, size)
	p.Draw(draw.New(c))
	name := filepath.Join(P.Dir, fmt.Sprintf("frame_%06d.png", P.n))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("render: can't save %s: %w", name, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("render: can't save %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("render: can't save %s: %w", name, err)
	}
	P.n++
	return nil
}

func (P *PNG) plot(pos []r3.Vec, colors []color.RGBA) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = P.Title
	p.BackgroundColor = color.Black
	fg := color.Gray{Y: 200}
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.Color = fg
		a.Label.TextStyle.Color = fg
		a.Tick.Color = fg
		a.Tick.Label.Color = fg
	}
	p.Title.TextStyle.Color = fg
	p.X.Label.Text, p.Y.Label.Text = P.Plane.labels()

	if b, ok := Bounds(pos); ok {
		if !P.haveBB {
			P.seen, P.haveBB = b, true
		} else {
			P.seen = P.seen.Union(b)
		}
	}
	if P.haveBB {
		minx, miny := P.Plane.project(P.seen.Min)
		maxx, maxy := P.Plane.project(P.seen.Max)
		p.X.Min, p.X.Max = widen(minx, maxx)
		p.Y.Min, p.Y.Max = widen(miny, maxy)
	}
	if len(pos) == 0 {
		return p, nil
	}
	xys := make(plotter.XYs, len(pos))
	for i, v := range pos {
		xys[i].X, xys[i].Y = P.Plane.project(v)
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("render: bad positions: %w", err)
	}
	radius := P.Radius
	if radius == 0 {
		radius = vg.Points(1.5)
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: colors[i], Radius: radius, Shape: draw.CircleGlyph{}}
	}
	p.Add(s)
	return p, nil
}

//widen gives a zero-width axis some room.
func widen(min, max float64) (float64, float64) {
	if max > min {
		return min, max
	}
	return min - 1, max + 1
}
