package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/EmundoT/p4-plumbing/pkg/p4"
)

func newClientsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List client workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Clients(ctx)
			})
		},
	}
}

func newLabelsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Labels(ctx)
			})
		},
	}
}

func newBranchesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "branches",
		Short: "List branch specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Branches(ctx)
			})
		},
	}
}

func newChangeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "change number",
		Short: "Show a changelist spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			change, err := changeNumber(args[0])
			if err != nil {
				return err
			}
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.GetChange(ctx, change)
			})
		},
	}
}

func newClientCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "client name",
		Short: "Show a client spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				form, err := p.GetClient(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return form.Map(), nil
			})
		},
	}
}

// newRawCmd passes arguments straight to p4 and reports the unparsed
// result, for commands without a grammar.
func newRawCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "raw -- p4-command [arg...]",
		Short: "Run any p4 command and report its raw output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Run(ctx, args...)
			})
		},
	}
}
