package colormap

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/partview/traj/part"
)

func TestNormalize(t *testing.T) {
	types := []uint32{0, 5, 10}
	lo, hi := Range(types)
	assert.Equal(t, []float64{0, 0.5, 1}, Normalize(types, lo, hi))

	same := []uint32{7, 7, 7}
	lo, hi = Range(same)
	assert.Equal(t, 7.0, lo)
	assert.Equal(t, 7.0, hi)
	assert.Equal(t, []float64{0, 0, 0}, Normalize(same, lo, hi))

	assert.Empty(t, Normalize(nil, 0, 1))
	assert.Equal(t, []float64{0, 1}, Normalize([]uint32{1, 30}, 2, 20), "out of window values are clamped")
}

func TestRangeEmpty(t *testing.T) {
	lo, hi := Range(nil)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestColorsPerFrame(t *testing.T) {
	M, err := New("")
	require.NoError(t, err)
	assert.Equal(t, PerFrame, M.Normalization())

	c := M.Colors([]uint32{0, 5, 10})
	require.Len(t, c, 3)
	for _, v := range c {
		assert.Equal(t, uint8(255), v.A)
	}
	assert.NotEqual(t, c[0], c[2])

	//identical types: one colour, the one of the bottom of the palette.
	same := M.Colors([]uint32{7, 7, 7})
	assert.Equal(t, c[0], same[0])
	assert.Equal(t, same[0], same[1])
	assert.Equal(t, same[1], same[2])

	assert.Empty(t, M.Colors(nil))
}

//The documented quirk of per-frame normalization: type 2 is the top of the range in
//one frame and the bottom in the other.
func TestPerFrameInstability(t *testing.T) {
	M, err := New("kindlmann")
	require.NoError(t, err)
	a := M.Colors([]uint32{0, 2})
	b := M.Colors([]uint32{2, 8})
	assert.NotEqual(t, a[1], b[0])

	M.SetRange(0, 8)
	a = M.Colors([]uint32{0, 2})
	b = M.Colors([]uint32{2, 8})
	assert.Equal(t, a[1], b[0])
	assert.Equal(t, Global, M.Normalization())

	M.SetPerFrame()
	assert.Equal(t, []float64{0, 1}, M.Values([]uint32{2, 8}))
}

func TestGlobalWithoutRange(t *testing.T) {
	M, err := New("blackbody")
	require.NoError(t, err)
	M.SetGlobal()
	assert.Equal(t, []float64{0, 0.5, 1}, M.Values([]uint32{4, 6, 8}))
	_, _, ok := M.Range()
	assert.False(t, ok)
}

func TestPalettes(t *testing.T) {
	for name := range palettes {
		M, err := New(name)
		require.NoError(t, err, name)
		c := M.Colors([]uint32{0, 1, 2, 3})
		assert.Len(t, c, 4, name)
	}
	_, err := PaletteByName("viridis-ish")
	assert.Error(t, err)
}

func TestGlobalRange(t *testing.T) {
	dir := t.TempDir()
	names := []string{"f0.bin", "f1.bin", "f2.bin", "f3.bin"}
	require.NoError(t, part.WriteFile(filepath.Join(dir, names[0]), part.NewFrame(0, []part.Record{{Type: 3}, {Type: 4}})))
	require.NoError(t, part.WriteFile(filepath.Join(dir, names[1]), part.NewFrame(1, []part.Record{{Type: 2}, {Type: 9}})))
	require.NoError(t, part.WriteFile(filepath.Join(dir, names[2]), part.NewFrame(2, nil)))
	files := make([]string, len(names))
	for i, n := range names {
		files[i] = filepath.Join(dir, n)
	}
	//f3.bin does not exist and must be skipped.
	lo, hi, ok := GlobalRange(files, part.Decoder{})
	require.True(t, ok)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 9.0, hi)

	_, _, ok = GlobalRange(files[2:], part.Decoder{})
	assert.False(t, ok)
}

func TestParseNormalization(t *testing.T) {
	n, err := ParseNormalization("global")
	require.NoError(t, err)
	assert.Equal(t, Global, n)
	assert.Equal(t, "global", n.String())
	_, err = ParseNormalization("local")
	assert.Error(t, err)
}

func TestNewWithColorMap(t *testing.T) {
	cm, err := PaletteByName("extended-kindlmann")
	require.NoError(t, err)
	cm.SetMin(-4)
	cm.SetMax(40)
	M := NewWithColorMap(cm)
	assert.Equal(t, 0.0, cm.Min())
	assert.Equal(t, 1.0, cm.Max())
	assert.IsType(t, color.RGBA{}, M.Colors([]uint32{1})[0])
}

func TestClone(t *testing.T) {
	M, err := New("")
	require.NoError(t, err)
	M.SetGlobal()
	C := M.Clone()
	C.SetRange(0, 8)

	_, _, ok := M.Range()
	assert.False(t, ok, "the original keeps no range")
	assert.Equal(t, Global, M.Normalization())
	lo, hi, ok := C.Range()
	require.True(t, ok)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 8.0, hi)
	assert.Equal(t, M.Colors([]uint32{0, 8}), C.Colors([]uint32{0, 8}))
	assert.NotEqual(t, M.Colors([]uint32{2, 8})[0], C.Colors([]uint32{2, 8})[0])
}
