package main

import (
	"github.com/spf13/cobra"

	"github.com/rmera/septop/internal/batch"
)

var splitCmd = &cobra.Command{
	Use:   "split [paths...]",
	Short: "Write the force-field and molecule files for each topology",
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
		return batch.Failed(batch.Run(cmd.Context(), files, cfg))
	},
}
