package catalog

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mwantia/tagster/pkg/tagster"
)

func NewFileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage files",
		Long:  "Register files of the managed directory and attach or detach their tags.",
	}

	cmd.AddCommand(newFileAddCommand())
	cmd.AddCommand(newFileShowCommand())
	cmd.AddCommand(newFileListCommand())
	cmd.AddCommand(newFileRemoveCommand())
	cmd.AddCommand(newFileTagCommand())
	cmd.AddCommand(newFileUntagCommand())

	return cmd
}

func newFileAddCommand() *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Register a file",
		Long:  "Register a file and attach the given tags, creating missing tags.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				tags, err := resolveTags(ctx, m, names)
				if err != nil {
					return err
				}

				file, err := m.Files().Add(ctx, args[0], tags...)
				if err != nil {
					return err
				}
				return printFile(cmd.OutOrStdout(), file)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&names, "tag", "t", nil, "tag to attach, may be repeated")

	return cmd
}

func newFileShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Show a file and its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				file, err := m.Files().GetByPath(ctx, args[0])
				if err != nil {
					return err
				}
				return printFile(cmd.OutOrStdout(), file)
			})
		},
	}
}

func newFileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List all registered files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				files, err := m.Files().List(ctx)
				if err != nil {
					return err
				}
				return printFiles(cmd.OutOrStdout(), files)
			})
		},
	}
}

func newFileRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Unregister a file",
		Long:  "Remove a file and its tag links from the database. The file on disk is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				file, err := m.Files().GetByPath(ctx, args[0])
				if err != nil {
					return err
				}
				return m.Files().Remove(ctx, file.ID)
			})
		},
	}
}

func newFileTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <path> <tag>...",
		Short: "Attach tags to a file",
		Long:  "Attach tags to a file, creating missing tags. The file is renamed when filename tags are enabled.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				file, err := m.Files().GetByPath(ctx, args[0])
				if err != nil {
					return err
				}

				tags, err := resolveTags(ctx, m, args[1:])
				if err != nil {
					return err
				}

				for _, tag := range tags {
					if file, err = m.Relations().AttachTag(ctx, file, tag); err != nil {
						return err
					}
				}
				return printFile(cmd.OutOrStdout(), file)
			})
		},
	}
}

func newFileUntagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "untag <path> <tag>...",
		Short: "Detach tags from a file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				file, err := m.Files().GetByPath(ctx, args[0])
				if err != nil {
					return err
				}

				for _, name := range args[1:] {
					tag, err := m.Tags().GetByName(ctx, name)
					if err != nil {
						return err
					}
					if file, err = m.Relations().DetachTag(ctx, file, tag); err != nil {
						return err
					}
				}
				return printFile(cmd.OutOrStdout(), file)
			})
		},
	}
}

func resolveTags(ctx context.Context, m *tagster.Manager, names []string) ([]*tagster.Tag, error) {
	tags := make([]*tagster.Tag, 0, len(names))
	for _, name := range names {
		tag, err := m.Tags().GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
