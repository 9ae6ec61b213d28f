package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yacchi/omocfg/merge"
	"github.com/yacchi/omocfg/record"
)

func newMergeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "merge BASE OVERLAY",
		Short: "Deep-merge OVERLAY over BASE and print the result",
		Long: `Objects are merged recursively. Any other value in OVERLAY, including
arrays and null, replaces the value in BASE. Keys only in BASE are kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := flags.outputFormat()
			if err != nil {
				return err
			}
			base, err := flags.loadDocument(cmd, args[0], false)
			if err != nil {
				return err
			}
			overlay, err := flags.loadDocument(cmd, args[1], false)
			if err != nil {
				return err
			}

			merged := record.CloneMap(base)
			merge.Merge(merged, overlay)
			return writeRecord(cmd, out, merged)
		},
	}
}
