package render

import (
	"bytes"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestBounds(t *testing.T) {
	_, ok := Bounds(nil)
	assert.False(t, ok)
	b, ok := Bounds([]r3.Vec{{X: 1, Y: -2, Z: 3}, {X: -1, Y: 5, Z: 0}})
	require.True(t, ok)
	assert.Equal(t, r3.Vec{X: -1, Y: -2, Z: 0}, b.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 5, Z: 3}, b.Max)
	assert.Equal(t, r3.Vec{X: 2, Y: 7, Z: 3}, b.Size())

	u := b.Union(Box{Min: r3.Vec{X: -4}, Max: r3.Vec{Z: 9}})
	assert.Equal(t, r3.Vec{X: -4, Y: -2, Z: 0}, u.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 5, Z: 9}, u.Max)
}

func TestRecorder(t *testing.T) {
	var R Recorder
	pos := []r3.Vec{{X: 1}, {Y: 1}}
	require.NoError(t, R.SetPoints(pos, []color.RGBA{red, blue}))
	pos[0].X = 100 //the recorder must have its own copy.
	p, c := R.Last()
	assert.Equal(t, 1, R.Calls())
	assert.Equal(t, []r3.Vec{{X: 1}, {Y: 1}}, p)
	assert.Equal(t, []color.RGBA{red, blue}, c)

	err := R.SetPoints(pos, []color.RGBA{red})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Equal(t, 1, R.Calls())
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	L := &Log{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	require.NoError(t, L.SetPoints([]r3.Vec{{X: 1, Y: 2, Z: 3}}, []color.RGBA{red}))
	require.NoError(t, L.SetPoints(nil, nil))
	out := buf.String()
	assert.Contains(t, out, "points=1")
	assert.Contains(t, out, "points=0")
	assert.Contains(t, out, "n=2")
}

func TestPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	P, err := NewPNG(dir)
	require.NoError(t, err)
	P.Size = 200
	P.Title = "test"

	require.NoError(t, P.SetPoints([]r3.Vec{{X: 0, Y: 0}, {X: 1, Y: 2}}, []color.RGBA{red, blue}))
	require.NoError(t, P.SetPoints([]r3.Vec{{X: 3, Y: 3, Z: 1}}, []color.RGBA{red}))
	require.NoError(t, P.SetPoints(nil, nil))
	assert.Equal(t, 3, P.Written())

	for _, n := range []string{"frame_000000.png", "frame_000001.png", "frame_000002.png"} {
		f, err := os.Open(filepath.Join(dir, n))
		require.NoError(t, err, n)
		_, err = png.Decode(f)
		f.Close()
		assert.NoError(t, err, n)
	}
	assert.Equal(t, r3.Vec{X: 3, Y: 3, Z: 1}, P.seen.Max)

	assert.ErrorIs(t, P.SetPoints([]r3.Vec{{}}, nil), ErrLengthMismatch)
	assert.Equal(t, 3, P.Written())
}

func TestPlane(t *testing.T) {
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	x, y := XZ.project(v)
	assert.Equal(t, []float64{1, 3}, []float64{x, y})
	x, y = YZ.project(v)
	assert.Equal(t, []float64{2, 3}, []float64{x, y})
	a, b := XY.labels()
	assert.Equal(t, "x", a)
	assert.Equal(t, "y", b)
}
