package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yacchi/omocfg"
)

func newRenderCommand(flags *globalFlags) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "render GLOBAL [PROFILE]",
		Short: "Render the effective configuration document",
		Long: `Imports GLOBAL as a hand-edited configuration document, applies the
agents of PROFILE when given, and prints the combined document. A missing
GLOBAL renders as an empty configuration.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := flags.outputFormat()
			if err != nil {
				return err
			}

			doc, err := flags.loadDocument(cmd, args[0], true)
			if err != nil {
				return err
			}
			global := omocfg.ImportGlobal(doc)

			var profile *omocfg.ProfileConfigContent
			if len(args) == 2 {
				pdoc, err := flags.loadDocument(cmd, args[1], false)
				if err != nil {
					return err
				}
				profileName := name
				if profileName == "" {
					profileName = baseName(args[1])
				}
				p := omocfg.ImportProfile(profileName, pdoc)
				profile = &p
			}

			rendered, err := omocfg.Render(global, profile)
			if err != nil {
				return err
			}
			return writeRecord(cmd, out, rendered)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "profile name (defaults to the PROFILE file name)")
	return cmd
}
