package top

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Represents a topology stored in memory, as opposed to in a file.
// Each element is one line, without the final '\n'.
type TopInMem struct {
	t []string
	i int
}

// Returns a new TopInMem, with the topology
// represented by the given slice of strings (each
// string must correspond to one line of the file).
func NewTopInMem(t []string) *TopInMem {
	return &TopInMem{t: t, i: 0}
}

// Compression returns the compression format implied by the extension
// of fname: "gz", "zst" or "" for none.
func Compression(fname string) string {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".gz":
		return "gz"
	case ".zst", ".zstd":
		return "zst"
	}
	return ""
}

// TopInMemFromFile reads the file fname into a TopInMem. Files
// ending in .gz are decompressed with gzip, and files ending in .zst
// or .zstd, with zstd.
func TopInMemFromFile(fname string) (*TopInMem, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var src io.Reader = f
	switch Compression(fname) {
	case "gz":
		gz, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("top/TopInMemFromFile: %s: %w", fname, err)
		}
		defer gz.Close()
		src = gz
	case "zst":
		zs, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("top/TopInMemFromFile: %s: %w", fname, err)
		}
		defer zs.Close()
		src = zs
	}
	T := new(TopInMem)
	T.t = make([]string, 0, 100)
	re := bufio.NewReader(src)
	var l string
	for l, err = re.ReadString('\n'); err == nil; l, err = re.ReadString('\n') {
		T.t = append(T.t, strings.TrimRight(l, "\r\n"))
	}
	if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("top/TopInMemFromFile: %s: %w", fname, err)
	}
	if l != "" {
		T.t = append(T.t, strings.TrimRight(l, "\r\n"))
	}
	return T, nil
}

// Returns a deep copy of the topology
func (t *TopInMem) Copy() *TopInMem {
	s := make([]string, len(t.t))
	copy(s, t.t)
	return NewTopInMem(s)
}

// Returns the number of lines in the topology.
func (t *TopInMem) Len() int {
	return len(t.t)
}

// Lines returns the lines of the topology. The slice is not a copy.
func (t *TopInMem) Lines() []string {
	return t.t
}

// Adds a string to the topology. The string is split in lines, and a final
// '\n' does not produce an empty line.
func (t *TopInMem) WriteString(s string) (int, error) {
	t.t = append(t.t, strings.Split(strings.TrimSuffix(s, "\n"), "\n")...)
	return len(s), nil
}

// Returns the next line in the topology. Note that the byte argument is
// not used, you can't choose how much you want to read, it's always the
// full next line (unlike in the bufio.Reader ReadString method).
func (t *TopInMem) ReadString(byte) (string, error) {
	if t.i >= len(t.t) {
		t.i = 0 //you can re-start reading it.
		return "", io.EOF
	}
	t.i++
	return t.t[t.i-1] + "\n", nil
}

// WriteToFile writes the topology to the file name, compressing it
// if the name ends in .gz or .zst/.zstd.
func (t *TopInMem) WriteToFile(name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("top/TopInMem.WriteToFile: %w", err)
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = fmt.Errorf("top/TopInMem.WriteToFile: %w", e)
		}
	}()
	var w io.WriteCloser
	switch Compression(name) {
	case "gz":
		w = gzip.NewWriter(f)
	case "zst":
		w, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("top/TopInMem.WriteToFile: %w", err)
		}
	}
	var out io.Writer = f
	if w != nil {
		out = w
	}
	bw := bufio.NewWriter(out)
	for i, v := range t.t {
		_, err = bw.WriteString(v + "\n")
		if err != nil {
			return fmt.Errorf("top/TopInMem.WriteToFile: Couldn't write %d-th line to file: %w", i+1, err)
		}
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("top/TopInMem.WriteToFile: %w", err)
	}
	if w != nil {
		if err = w.Close(); err != nil {
			return fmt.Errorf("top/TopInMem.WriteToFile: %w", err)
		}
	}
	return nil
}
