package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmera/septop/internal/batch"
)

var statsCmd = &cobra.Command{
	Use:   "stats [paths...]",
	Short: "Print the number of bonded terms and the charge of each topology",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		files, err := batch.Collect(args, cfg.Output.FFSuffix, cfg.Output.MolSuffix)
		if err != nil {
			return err
		}
		results := batch.RunWith(cmd.Context(), files, cfg, batch.Stats)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "file\tatoms\tbonds\tangles\tdihedrals\tcharge\tcorrection")
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(w, "%s\terror\t\t\t\t\t\n", r.Path)
				continue
			}
			fmt.Fprintf(w, "%s\t%d\t%d/%d\t%d/%d\t%d/%d\t%.5f\t%.5f\n", r.Path, r.Atoms,
				r.UBonds, r.Bonds, r.UAngles, r.Angles, r.UDihed, r.Dihed, r.Charge.Total, r.Charge.Correction)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return batch.Failed(results)
	},
}
