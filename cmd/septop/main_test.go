package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/septop/internal/config"
	"github.com/rmera/septop/top"
)

const butane = "../../top/testdata/butane.itp"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStats(t *testing.T) {
	out, err := execute(t, "stats", butane)
	require.NoError(t, err)
	assert.Contains(t, out, "butane.itp")
	assert.Contains(t, out, "2/5")
	assert.Contains(t, out, "-0.10000")

	out, err = execute(t, "stats", "-D", "FLEXIBLE", butane)
	require.NoError(t, err)
	assert.Contains(t, out, "3/4")
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "split", "-o", dir, "--inline", "--redistribute", butane)
	require.NoError(t, err)
	mol, err := top.TopInMemFromFile(filepath.Join(dir, "butane.mol.itp"))
	require.NoError(t, err)
	assert.Contains(t, mol.Lines(), "     1     2     1    0.153  224262.400 ; CT CT")
	assert.FileExists(t, filepath.Join(dir, "butane.ff.itp"))

	_, err = execute(t, "split", "-o", dir, "-j", "0", butane)
	assert.Error(t, err)
}

func TestSplitMissingFile(t *testing.T) {
	_, err := execute(t, "split", filepath.Join(t.TempDir(), "none.itp"))
	assert.Error(t, err)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	src, err := top.TopInMemFromFile(butane)
	require.NoError(t, err)
	path := filepath.Join(dir, "butane.itp")
	require.NoError(t, src.WriteToFile(path))
	cfg, err := config.Load("")
	require.NoError(t, err)

	w, err := newWatcher([]string{dir}, []string{path}, cfg)
	require.NoError(t, err)
	defer w.Close()
	assert.True(t, w.wanted(path))
	assert.True(t, w.wanted(filepath.Join(dir, "other.top")))
	assert.False(t, w.wanted(filepath.Join(dir, "butane.ff.itp")))
	assert.False(t, w.wanted(filepath.Join(dir, "notes.txt")))
	assert.False(t, w.wanted(filepath.Join(t.TempDir(), "else.itp")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- w.run(ctx) }()
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(src.Lines(), "\n")+"\n"), 0o644))
	mol := filepath.Join(dir, "butane.mol.itp")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(mol)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
