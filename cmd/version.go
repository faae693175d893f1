package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EmundoT/p4-plumbing/internal/version"
)

func newVersionCmd(o *rootOptions) *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the p4x version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if short {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "p4x %s\n", info)
				return err
			}
			if err := checkFormat(o.format); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o.format, info)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print a single line")
	return cmd
}
