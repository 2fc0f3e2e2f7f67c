// Command septop splits Gromacs molecule topologies into a force-field file,
// with one entry per unique bonded term, and a molecule file that refers to it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/rmera/septop/internal/config"
	"github.com/rmera/septop/internal/logger"
)

var (
	configFlag       string
	jsonLogFlag      bool
	outFlag          string
	jobsFlag         int
	definesFlag      []string
	redistributeFlag bool
	targetFlag       float64
	inlineFlag       bool
)

var rootCmd = &cobra.Command{
	Use:   "septop",
	Short: "Split Gromacs topologies into force-field and molecule files",
	Long: `septop reads Gromacs molecule topologies (.itp/.top, optionally .gz or .zst
compressed) and writes, for each of them, a force-field file with the unique
bonded parameters and a molecule file that uses them.

Examples:
  septop split butane.itp              # writes butane.ff.itp and butane.mol.itp
  septop split -o out --jobs 8 mols/   # every topology under mols/
  septop stats -D FLEXIBLE butane.itp  # counts and charge, nothing written
  septop watch mols/                   # split again whenever a file changes`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(jsonLogFlag, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.CountP("verbose", "v", "Increase output verbosity")
	pf.StringVarP(&configFlag, "config", "c", "", "TOML configuration file")
	pf.BoolVar(&jsonLogFlag, "json-log", false, "Log in JSON")
	pf.StringVarP(&outFlag, "out", "o", "", "Output directory (default: next to each input)")
	pf.IntVarP(&jobsFlag, "jobs", "j", 4, "Files processed at the same time")
	pf.StringSliceVarP(&definesFlag, "define", "D", nil, "Symbols defined for #ifdef blocks")
	pf.BoolVar(&redistributeFlag, "redistribute", false, "Spread the charge excess over all atoms")
	pf.Float64Var(&targetFlag, "target", 0, "Total charge after redistribution")
	pf.BoolVar(&inlineFlag, "inline", false, "Write the parameters in the molecule file too")

	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads the configuration and applies the flags set in cmd on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	f := cmd.Flags()
	if f.Changed("out") {
		cfg.Output.Dir = outFlag
	}
	if f.Changed("jobs") {
		cfg.Jobs = jobsFlag
	}
	if f.Changed("define") {
		cfg.Defines = append(cfg.Defines, definesFlag...)
	}
	if f.Changed("redistribute") {
		cfg.Charge.Redistribute = redistributeFlag
	}
	if f.Changed("target") {
		cfg.Charge.Target = targetFlag
	}
	if f.Changed("inline") {
		cfg.Molecule.InlineParams = inlineFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Logger.Debugw("configuration", "config", configFlag, "jobs", cfg.Jobs, "defines", cfg.Defines, "substitutions", len(cfg.Substitutions))
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()
	if err != nil {
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", h)
		}
		os.Exit(1)
	}
}
