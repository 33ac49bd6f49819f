package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cloudposse/capnp-import/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var format string

	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the CLI version",
		Long:    `This command prints the CLI version`,
		Example: "capnp-import version",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			return printFormatted(cmd.OutOrStdout(), format, info, func(w io.Writer) error {
				_, err := io.WriteString(w, info.String()+"\n")
				return err
			})
		},
	}

	versionCmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return versionCmd
}
