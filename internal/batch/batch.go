// Package batch runs the septop pipeline (read, canonicalize, substitute,
// write) over many topology files.
package batch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/rmera/septop/internal/config"
	"github.com/rmera/septop/internal/logger"
	"github.com/rmera/septop/top"
)

// Extensions of the files picked by Collect when walking a directory.
var Extensions = []string{".itp", ".top"}

// Result is the outcome of processing one file.
type Result struct {
	Path     string
	FFPath   string // empty if nothing was written
	MolPath  string
	Atoms    int
	Bonds    int
	UBonds   int
	Angles   int
	UAngles  int
	Dihed    int
	UDihed   int
	Replaced int
	Charge   top.Charge
	Err      error
}

// IsTopology returns true if name is a topology file, maybe compressed.
func IsTopology(name string) bool {
	if c := top.Compression(name); c != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// Collect expands paths into the list of files to process. Files are taken
// as given, and directories are walked recursively for topology files whose
// names don't end in any of the skip suffixes (usually, the outputs of a
// previous run). The directory contents are returned in lexical order.
func Collect(paths []string, skip ...string) ([]string, error) {
	var ret []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot use %s", p)
		}
		if !info.IsDir() {
			ret = append(ret, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsTopology(d.Name()) && !Skipped(d.Name(), skip...) {
				ret = append(ret, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", p)
		}
	}
	return ret, nil
}

// Skipped returns true if name ends in one of the suffixes.
func Skipped(name string, suffixes ...string) bool {
	for _, v := range suffixes {
		if v != "" && strings.HasSuffix(name, v) {
			return true
		}
	}
	return false
}

// OutputNames returns the names of the force-field and molecule files
// written for the input path.
func OutputNames(path string, cfg *config.Config) (string, string) {
	dir, base := filepath.Split(path)
	if c := top.Compression(base); c != "" {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if cfg.Output.Dir != "" {
		dir = cfg.Output.Dir
	}
	return filepath.Join(dir, base+cfg.Output.FFSuffix), filepath.Join(dir, base+cfg.Output.MolSuffix)
}

// Read parses and canonicalizes path, and applies the configured substitutions.
// It returns the topology and the number of dihedrals replaced.
func Read(path string, cfg *config.Config) (*top.FF, int, error) {
	F, err := top.FFFromFile(path, cfg.TopOptions())
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to read %s", path)
	}
	replaced := 0
	for _, s := range cfg.Substitutions {
		n, err := F.SubstituteDihedral(s.Pattern(), s.Funct, s.Params)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "%s: substitution %s", path, s)
		}
		replaced += n
	}
	if replaced > 0 {
		F.Canonicalize()
	}
	return F, replaced, nil
}

func write(name string, lines []string) error {
	if err := top.NewTopInMem(lines).WriteToFile(name); err != nil {
		return errors.Wrapf(err, "failed to write %s", name)
	}
	return nil
}

// Process runs the whole pipeline on path and writes the force-field and
// molecule files. Errors are returned in the Result.
func Process(ctx context.Context, path string, cfg *config.Config) Result {
	r := Result{Path: path}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}
	F, replaced, err := Read(path, cfg)
	if err != nil {
		r.Err = err
		return r
	}
	r.fill(F)
	r.Replaced = replaced
	ff, mol := OutputNames(path, cfg)
	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			r.Err = errors.Wrapf(err, "failed to create %s", cfg.Output.Dir)
			return r
		}
	}
	if err := write(ff, F.FFLines()); err != nil {
		r.Err = err
		return r
	}
	if err := write(mol, F.MolLines(cfg.MolOptions())); err != nil {
		r.Err = err
		return r
	}
	r.FFPath, r.MolPath = ff, mol
	return r
}

// Stats reads path and fills a Result without writing anything.
func Stats(ctx context.Context, path string, cfg *config.Config) Result {
	r := Result{Path: path}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}
	F, replaced, err := Read(path, cfg)
	if err != nil {
		r.Err = err
		return r
	}
	r.fill(F)
	r.Replaced = replaced
	return r
}

func (r *Result) fill(F *top.FF) {
	r.Atoms = F.Atoms.Len()
	r.Bonds, r.UBonds = len(F.Bonds), len(F.UBonds)
	r.Angles, r.UAngles = len(F.Angles), len(F.UAngles)
	r.Dihed, r.UDihed = len(F.Dihedrals), len(F.UDihedrals)
	r.Charge = F.Charge
}

// Log writes r to the global logger.
func (r Result) Log() {
	if r.Err != nil {
		logger.Logger.Errorw("failed", "file", r.Path, "error", r.Err)
		return
	}
	logger.Logger.Infow("processed",
		"file", r.Path,
		"atoms", r.Atoms,
		"bonds", r.Bonds, "unique_bonds", r.UBonds,
		"angles", r.Angles, "unique_angles", r.UAngles,
		"dihedrals", r.Dihed, "unique_dihedrals", r.UDihed,
		"replaced", r.Replaced,
		"charge", r.Charge.Total,
		"correction", r.Charge.Correction,
		"final_charge", r.Charge.Final)
	if r.FFPath != "" {
		logger.Logger.Debugw("written", "ff", r.FFPath, "mol", r.MolPath)
	}
}

// Func processes one file.
type Func func(ctx context.Context, path string, cfg *config.Config) Result

// Run processes every file in paths, at most cfg.Jobs files at a time.
// A failed file doesn't stop the others. The results are in the order of paths.
func Run(ctx context.Context, paths []string, cfg *config.Config) []Result {
	return RunWith(ctx, paths, cfg, Process)
}

// RunWith is like Run, but processes each file with f.
func RunWith(ctx context.Context, paths []string, cfg *config.Config, f Func) []Result {
	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Jobs, 1))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			results[i] = f(ctx, p, cfg)
			results[i].Log()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed returns the results with errors, joined in a single error, or nil.
func Failed(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.WithHintf(errors.Join(errs...), "%d of %d files failed", len(errs), len(results))
}
