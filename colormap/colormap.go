/*
 * colormap.go, part of partview.
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
Package colormap gives each particle a colour from its type identifier.

Type identifiers are scaled to [0,1] and looked up in a continuous palette.
The scaling window (the normalization range) is either recomputed for every
frame from the types present in it (PerFrame, the default) or fixed for the
whole trajectory (Global).

Note that with PerFrame the same type may get different colours in different
frames, if the set of types present changes between them. Use Global if
colours must mean the same thing across the whole trajectory.
*/
package colormap

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/rmera/partview/traj/part"
)

// Normalization selects where the normalization range comes from.
type Normalization int

const (
	PerFrame Normalization = iota
	Global
)

func (n Normalization) String() string {
	if n == Global {
		return "global"
	}
	return "frame"
}

// ParseNormalization understands "frame" and "global".
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(s) {
	case "", "frame", "per-frame":
		return PerFrame, nil
	case "global", "trajectory":
		return Global, nil
	}
	return PerFrame, fmt.Errorf("colormap: unknown normalization %q (want frame or global)", s)
}

// Palettes that can be asked for by name.
var palettes = map[string]func() palette.ColorMap{
	"kindlmann":          moreland.Kindlmann,
	"extended-kindlmann": moreland.ExtendedKindlmann,
	"blackbody":          moreland.BlackBody,
	"extended-blackbody": moreland.ExtendedBlackBody,
	"bluered":            func() palette.ColorMap { return moreland.SmoothBlueRed() },
}

// DefaultPalette is the palette used when none is given.
const DefaultPalette = "kindlmann"

// PaletteByName returns a fresh palette.ColorMap with the given name.
func PaletteByName(name string) (palette.ColorMap, error) {
	if name == "" {
		name = DefaultPalette
	}
	f, ok := palettes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("colormap: unknown palette %q", name)
	}
	return f(), nil
}

//Range returns the smallest and largest type in types.
//For an empty slice it returns 0, 0.
func Range(types []uint32) (lo, hi float64) {
	if len(types) == 0 {
		return 0, 0
	}
	v := make([]float64, len(types))
	for i, t := range types {
		v[i] = float64(t)
	}
	return floats.Min(v), floats.Max(v)
}

//Normalize scales each type to [0,1] using the window [lo,hi].
//Values outside the window are clamped. If the window is empty (hi<=lo) every
//value maps to 0.
func Normalize(types []uint32, lo, hi float64) []float64 {
	ret := make([]float64, len(types))
	w := hi - lo
	if w <= 0 {
		return ret
	}
	for i, t := range types {
		ret[i] = math.Max(0, math.Min(1, (float64(t)-lo)/w))
	}
	return ret
}

// Mapper turns the types of a frame into colours.
// A Mapper is not safe for concurrent use.
type Mapper struct {
	cmap   palette.ColorMap
	norm   Normalization
	lo, hi float64
	haveR  bool
	log    *slog.Logger
}

//New returns a per-frame Mapper over the named palette ("" for the default).
func New(paletteName string) (*Mapper, error) {
	cm, err := PaletteByName(paletteName)
	if err != nil {
		return nil, err
	}
	return NewWithColorMap(cm), nil
}

// NewWithColorMap returns a per-frame Mapper over cm. The range and alpha of
// cm are overwritten.
func NewWithColorMap(cm palette.ColorMap) *Mapper {
	cm.SetMin(0)
	cm.SetMax(1)
	cm.SetAlpha(1)
	return &Mapper{cmap: cm, log: slog.Default()}
}

//Clone returns a copy of M with its own policy, range and logger. The palette is
//shared, it is only read once the Mapper is built.
func (M *Mapper) Clone() *Mapper {
	c := *M
	return &c
}

// SetLogger sets the logger used to report palette lookup failures.
func (M *Mapper) SetLogger(l *slog.Logger) {
	if l != nil {
		M.log = l
	}
}

// Normalization returns the current policy.
func (M *Mapper) Normalization() Normalization { return M.norm }

// SetPerFrame goes back to per-frame normalization.
func (M *Mapper) SetPerFrame() {
	M.norm = PerFrame
}

//SetGlobal switches to Global normalization. Until a range is set with SetRange
//the Mapper keeps normalizing per frame.
func (M *Mapper) SetGlobal() {
	M.norm = Global
}

//SetRange fixes the normalization range to [lo,hi] and switches the Mapper
//to Global normalization.
func (M *Mapper) SetRange(lo, hi float64) {
	M.norm = Global
	M.lo, M.hi = lo, hi
	M.haveR = true
}

// Range returns the fixed range, and false if none was set.
func (M *Mapper) Range() (lo, hi float64, ok bool) {
	return M.lo, M.hi, M.haveR
}

//Values returns the normalized value of each type, following the Mapper's policy.
//A Global Mapper without range behaves as PerFrame.
func (M *Mapper) Values(types []uint32) []float64 {
	if M.norm == Global && M.haveR {
		return Normalize(types, M.lo, M.hi)
	}
	lo, hi := Range(types)
	return Normalize(types, lo, hi)
}

// Colors returns one colour per element of types.
func (M *Mapper) Colors(types []uint32) []color.RGBA {
	vals := M.Values(types)
	ret := make([]color.RGBA, len(vals))
	for i, v := range vals {
		ret[i] = M.at(v)
	}
	return ret
}

func (M *Mapper) at(v float64) color.RGBA {
	c, err := M.cmap.At(v)
	if err != nil {
		//shouldn't happen, values are always within [0,1].
		M.log.Warn("palette lookup failed", "value", v, "error", err)
		return color.RGBA{A: 255}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

//GlobalRange scans all the given frame files and returns the smallest and
//largest type found in any of them. Files that can't be read are skipped. ok is
//false if no file could be read or all of them were empty.
func GlobalRange(files []string, d part.Decoder) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, f := range files {
		F, err := d.ReadFile(f)
		if err != nil || F.Len() == 0 {
			continue
		}
		l, h := Range(F.Types())
		lo = math.Min(lo, l)
		hi = math.Max(hi, h)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
