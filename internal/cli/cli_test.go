package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/partview/traj/part"
)

func writeFrames(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		F := part.NewFrame(uint64(i*10), []part.Record{
			{X: float32(i), Y: 1, Z: 2, Type: 0, ID: 1, State: part.Alive},
			{X: 3, Y: float32(i), Z: 4, Type: 2, ID: 2, State: part.Dead},
			{X: 5, Y: 6, Z: float32(i), Type: 2, ID: 3, State: part.Alive},
		})
		require.NoError(t, part.WriteFile(filepath.Join(dir, part.FileName("comet", uint64(i*10))), F))
	}
}

func run(args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestRootCommands(t *testing.T) {
	cmd := NewRootCommand()
	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"play", "inspect", "pack"} {
		assert.True(t, names[n], "missing command %s", n)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	err := WrapExitError(ExitCommandError, "bad", errors.New("flag"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "bad: flag", err.Error())
}

func TestPlayFrames(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 2)
	png := filepath.Join(t.TempDir(), "png")

	_, stderr, err := run("play", dir, "--interval", "1ms", "--frames", "3", "--output", png)
	require.NoError(t, err)
	assert.Contains(t, stderr, "presented=3")
	assert.Contains(t, stderr, "loops=1")

	for i := 0; i < 3; i++ {
		assert.FileExists(t, filepath.Join(png, fmt.Sprintf("frame_%06d.png", i)))
	}
}

func TestPlayLogRenderer(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 1)
	_, stderr, err := run("play", dir, "--interval", "1ms", "--frames", "2", "--normalization", "global")
	require.NoError(t, err)
	assert.Contains(t, stderr, "point cloud")
}

func TestPlayMissingDirectory(t *testing.T) {
	_, _, err := run("play", filepath.Join(t.TempDir(), "nothere"), "--frames", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPlayInvalidFlags(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run("play", dir, "--normalization", "sometimes", "--frames", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPlayConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 2)
	cfg := filepath.Join(t.TempDir(), "partview.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("dir: "+dir+"\ninterval: 1ms\norder: step\n"), 0644))

	_, stderr, err := run("play", "--config", cfg, "--frames", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "presented=2")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 2)
	name := filepath.Join(dir, "comet_00010.bin")

	out, _, err := run("inspect", name)
	require.NoError(t, err)
	assert.Contains(t, out, "step 10 count 3")
	assert.Contains(t, out, "type 0: 1")
	assert.Contains(t, out, "type 2: 2")
	assert.Contains(t, out, "state alive: 2")
	assert.Contains(t, out, "state dead: 1")

	out, _, err = run("inspect", "--header", name)
	require.NoError(t, err)
	assert.Contains(t, out, "version 1")
	assert.NotContains(t, out, "type 0")
}

func TestInspectBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 1)
	bad := filepath.Join(dir, "bad.bin")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not a frame"), 0644))

	out, _, err := run("inspect", filepath.Join(dir, "comet_00000.bin"), bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "step 0 count 3")
	assert.Contains(t, out, "invalid magic")
}

func TestPack(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 3)

	_, stderr, err := run("pack", dir, "--codec", "gz")
	require.NoError(t, err)
	assert.Contains(t, stderr, "frames=3")

	for _, step := range []uint64{0, 10, 20} {
		raw := filepath.Join(dir, part.FileName("comet", step))
		want, err := part.ReadFile(raw)
		require.NoError(t, err)
		got, err := part.ReadFile(raw + ".gz")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPackThenPlayCompressed(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 3)
	_, _, err := run("pack", dir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "comet_00010.bin.zst"))

	//one tick per frame, not one per file.
	_, stderr, err := run("play", dir, "--compressed", "--interval", "1ms", "--frames", "3")
	require.NoError(t, err)
	assert.Contains(t, stderr, "frames=3")
	assert.Contains(t, stderr, "presented=3")
	assert.Contains(t, stderr, "loops=1")
}

func TestPackBadCodec(t *testing.T) {
	_, _, err := run("pack", t.TempDir(), "--codec", "bin")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
