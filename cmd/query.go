package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/EmundoT/p4-plumbing/pkg/p4"
)

// query connects, runs fn and renders its result.
func (o *rootOptions) query(cmd *cobra.Command, fn func(ctx context.Context, p *p4.P4) (any, error)) error {
	p, err := o.connect()
	if err != nil {
		return err
	}
	v, err := fn(cmd.Context(), p)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), o.format, v)
}

func changeNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, &p4.InvalidArgumentError{Name: "change number", Value: arg, Err: p4.ErrInvalidValue}
	}
	return n, nil
}

func newOpenedCmd(o *rootOptions) *cobra.Command {
	var opts p4.OpenedOpts
	cmd := &cobra.Command{
		Use:   "opened [file...]",
		Short: "List files opened for edit, add, delete",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Opened(ctx, opts)
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.AllClients, "all", "a", false, "List files opened in all clients")
	cmd.Flags().IntVar(&opts.Change, "change", 0, "Only files in this pending changelist")
	return cmd
}

func newWhereCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "where [file...]",
		Short: "Show depot, client and local paths of files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Where(ctx, args...)
			})
		},
	}
}

func newHaveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "have [file...]",
		Short: "List the revisions synced to the client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Have(ctx, args...)
			})
		},
	}
}

func newFilesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "files file...",
		Short: "List depot files and their head revisions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Files(ctx, args...)
			})
		},
	}
}

func newFilelogCmd(o *rootOptions) *cobra.Command {
	var opts p4.FilelogOpts
	cmd := &cobra.Command{
		Use:   "filelog file...",
		Short: "List the revision history of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Filelog(ctx, opts, args...)
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.FollowIntegrations, "follow", "i", false, "Follow branches and integrations")
	cmd.Flags().BoolVarP(&opts.LongOutput, "long", "l", false, "Include full change descriptions")
	cmd.Flags().IntVarP(&opts.MaxRevs, "max", "m", 0, "Show at most this many revisions")
	return cmd
}

func newFstatCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fstat file...",
		Short: "Show detailed file state",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Fstat(ctx, args...)
			})
		},
	}
}

func newChangesCmd(o *rootOptions) *cobra.Command {
	var opts p4.ChangesOpts
	cmd := &cobra.Command{
		Use:   "changes [file...]",
		Short: "List pending and submitted changelists",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Changes(ctx, opts)
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.FollowIntegrations, "follow", "i", false, "Include changes integrated into the files")
	cmd.Flags().BoolVarP(&opts.LongOutput, "long", "l", false, "Include full descriptions")
	cmd.Flags().IntVarP(&opts.Max, "max", "m", 0, "Show at most this many changes")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Only pending or submitted changes")
	return cmd
}

func newDescribeCmd(o *rootOptions) *cobra.Command {
	var opts p4.DescribeOpts
	cmd := &cobra.Command{
		Use:   "describe change",
		Short: "Describe a changelist and its diffs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			change, err := changeNumber(args[0])
			if err != nil {
				return err
			}
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Describe(ctx, change, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "diff-format", "d", "", "Diff format: n, c, s or u")
	cmd.Flags().BoolVarP(&opts.ShortForm, "short", "s", false, "Omit the diffs")
	return cmd
}

func newDiffCmd(o *rootOptions) *cobra.Command {
	var opts p4.DiffOpts
	cmd := &cobra.Command{
		Use:   "diff [file...]",
		Short: "Diff client files against their depot revisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Diff(ctx, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "diff-format", "d", "", "Diff format: n, c, s or u")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Diff every file, opened or not")
	cmd.Flags().StringVarP(&opts.Satisfying, "satisfying", "s", "", "Only list files satisfying a, d, e or r")
	cmd.Flags().BoolVarP(&opts.Text, "text", "t", false, "Diff binary files as text")
	return cmd
}

func newDiff2Cmd(o *rootOptions) *cobra.Command {
	var opts p4.Diff2Opts
	cmd := &cobra.Command{
		Use:   "diff2 file1 file2",
		Short: "Diff two depot file revisions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Diff2(ctx, opts, args[0], args[1])
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "diff-format", "d", "", "Diff format: n, c, s or u")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Also report identical files")
	cmd.Flags().BoolVarP(&opts.Text, "text", "t", false, "Diff binary files as text")
	return cmd
}

func newPrintCmd(o *rootOptions) *cobra.Command {
	var opts p4.PrintOpts
	cmd := &cobra.Command{
		Use:   "print file...",
		Short: "Print depot file contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.query(cmd, func(ctx context.Context, p *p4.P4) (any, error) {
				return p.Print(ctx, opts, args...)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.LocalFile, "output", "o", "", "Write the contents to this local file")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Omit file headers")
	return cmd
}
