package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/septop/internal/config"
	"github.com/rmera/septop/top"
)

const butane = "../../top/testdata/butane.itp"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

// copies the test topology to dir/name, compressed if name says so.
func install(t *testing.T, dir, name string) string {
	t.Helper()
	src, err := top.TopInMemFromFile(butane)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, src.WriteToFile(path))
	return path
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	b := install(t, dir, "b.itp")
	a := install(t, dir, "sub/a.top.gz")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	install(t, dir, "b.ff.itp")
	single := install(t, t.TempDir(), "single.whatever")

	files, err := Collect([]string{dir, single}, ".ff.itp", ".mol.itp")
	require.NoError(t, err)
	assert.Equal(t, []string{b, a, single}, files)

	_, err = Collect([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestIsTopology(t *testing.T) {
	assert.True(t, IsTopology("a.itp"))
	assert.True(t, IsTopology("a.TOP"))
	assert.True(t, IsTopology("a.itp.gz"))
	assert.True(t, IsTopology("a.top.zst"))
	assert.False(t, IsTopology("a.gz"))
	assert.False(t, IsTopology("a.gro"))
}

func TestOutputNames(t *testing.T) {
	cfg := testConfig(t)
	ff, mol := OutputNames("/data/butane.itp.gz", cfg)
	assert.Equal(t, "/data/butane.ff.itp", ff)
	assert.Equal(t, "/data/butane.mol.itp", mol)

	cfg.Output.Dir = "out"
	cfg.Output.FFSuffix = ".ff.itp.zst"
	ff, _ = OutputNames("/data/butane.itp", cfg)
	assert.Equal(t, filepath.Join("out", "butane.ff.itp.zst"), ff)
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	path := install(t, dir, "butane.itp")
	cfg := testConfig(t)
	cfg.Output.Dir = filepath.Join(dir, "out")

	r := Process(context.Background(), path, cfg)
	require.NoError(t, r.Err)
	assert.Equal(t, 6, r.Atoms)
	assert.Equal(t, 5, r.Bonds)
	assert.Equal(t, 2, r.UBonds)
	assert.Equal(t, 3, r.Dihed)
	assert.Equal(t, 2, r.UDihed)
	assert.InDelta(t, -0.1, r.Charge.Total, 1e-9)

	ff, err := top.TopInMemFromFile(r.FFPath)
	require.NoError(t, err)
	assert.Equal(t, "[ atomtypes ]", ff.Lines()[0])
	mol, err := top.TopInMemFromFile(r.MolPath)
	require.NoError(t, err)
	assert.Contains(t, mol.Lines(), "     1     2     1 ; CT CT")
}

func TestProcessSubstitution(t *testing.T) {
	path := install(t, t.TempDir(), "butane.itp")
	cfg := testConfig(t)
	cfg.Substitutions = []config.Substitution{{
		Types:  []string{"X", "CT", "CT", "X"},
		Funct:  3,
		Params: []float64{0.6276, 1.8828, 0, -2.5104, 0, 0},
	}}
	r := Stats(context.Background(), path, cfg)
	require.NoError(t, r.Err)
	assert.Equal(t, 5, r.Replaced)
	//same RB parameters, but CT CT CT CT and HC CT CT CT are still different.
	assert.Equal(t, 2, r.UDihed)
	assert.Empty(t, r.FFPath)
}

func TestProcessErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.itp")
	require.NoError(t, os.WriteFile(bad, []byte("[ atoms ]\n[ bonds ]\n[ angles ]\n"), 0o644))
	cfg := testConfig(t)

	r := Process(context.Background(), bad, cfg)
	require.Error(t, r.Err)
	assert.ErrorIs(t, r.Err, top.ErrMissingDirective)
	assert.Empty(t, r.FFPath)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r = Process(ctx, install(t, dir, "ok.itp"), cfg)
	assert.ErrorIs(t, r.Err, context.Canceled)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	good := install(t, dir, "good.itp")
	bad := filepath.Join(dir, "bad.itp")
	require.NoError(t, os.WriteFile(bad, []byte("[ atoms ]\n1 CT\n[ bonds ]\n[ angles ]\n[ dihedrals ]\n"), 0o644))
	zst := install(t, dir, "good2.itp.zst")
	cfg := testConfig(t)
	cfg.Jobs = 2

	results := Run(context.Background(), []string{good, bad, zst}, cfg)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.FileExists(t, filepath.Join(dir, "good2.mol.itp"))

	err := Failed(results)
	require.Error(t, err)
	assert.ErrorIs(t, err, top.ErrMalformedRecord)
	assert.NoError(t, Failed(results[:1]))
}

func TestRunWithLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jobs = 2
	var running, peak atomic.Int32
	paths := []string{"a", "b", "c", "d", "e"}
	results := RunWith(context.Background(), paths, cfg, func(ctx context.Context, p string, c *config.Config) Result {
		n := running.Add(1)
		defer running.Add(-1)
		for old := peak.Load(); n > old && !peak.CompareAndSwap(old, n); old = peak.Load() {
		}
		time.Sleep(10 * time.Millisecond)
		return Result{Path: p}
	})
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
