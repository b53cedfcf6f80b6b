package catalog

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwantia/tagster/internal/app"
	"github.com/mwantia/tagster/internal/config"
	"github.com/mwantia/tagster/pkg/tagster"
)

// run loads the configuration and hands a connected manager to fn
func run(cmd *cobra.Command, fn func(context.Context, *tagster.Manager) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return app.NewApp(cfg, cmd.ErrOrStderr()).Run(cmd.Context(), fn)
}

func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long:  "Create, list, search, edit and delete tags of the managed directory.",
	}

	cmd.AddCommand(newTagCreateCommand())
	cmd.AddCommand(newTagListCommand())
	cmd.AddCommand(newTagFindCommand())
	cmd.AddCommand(newTagEditCommand())
	cmd.AddCommand(newTagRemoveCommand())
	cmd.AddCommand(newTagFilesCommand())

	return cmd
}

func newTagCreateCommand() *cobra.Command {
	var colour string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				tag, err := m.Tags().Create(ctx, args[0], colour)
				if err != nil {
					return err
				}
				return printTags(cmd.OutOrStdout(), []tagster.Tag{*tag})
			})
		},
	}

	cmd.Flags().StringVar(&colour, "colour", "", "display colour of the tag")

	return cmd
}

func newTagListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List all tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				tags, err := m.Tags().List(ctx)
				if err != nil {
					return err
				}
				return printTags(cmd.OutOrStdout(), tags)
			})
		},
	}
}

func newTagFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <substring>",
		Short: "Find tags whose name contains substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				tags, err := m.Tags().FindSimilar(ctx, args[0])
				if err != nil {
					return err
				}
				return printTags(cmd.OutOrStdout(), tags)
			})
		},
	}
}

func newTagEditCommand() *cobra.Command {
	var name string
	var colour string

	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Rename a tag or change its colour",
		Long:  "Rename a tag or change its colour. Files carrying the tag are renamed when filename tags are enabled.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				tag, err := m.Tags().GetByName(ctx, args[0])
				if err != nil {
					return err
				}

				update := tag.Update()
				if cmd.Flags().Changed("name") {
					update.Name = name
				}
				if cmd.Flags().Changed("colour") {
					update.Colour = colour
				}

				edited, err := m.Tags().Edit(ctx, update)
				if err != nil {
					return err
				}
				return printTags(cmd.OutOrStdout(), []tagster.Tag{*edited})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name of the tag")
	cmd.Flags().StringVar(&colour, "colour", "", "new display colour of the tag")

	return cmd
}

func newTagRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a tag",
		Long:  "Delete a tag and detach it from every file. Files are renamed when filename tags are enabled.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				tag, err := m.Tags().GetByName(ctx, args[0])
				if err != nil {
					return err
				}
				return m.Tags().Delete(ctx, tag.ID)
			})
		},
	}
}

func newTagFilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "files <name>",
		Short: "List the files carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, m *tagster.Manager) error {
				tag, err := m.Tags().GetByName(ctx, args[0])
				if err != nil {
					return err
				}

				files, err := m.Relations().FilesForTag(ctx, tag.ID)
				if err != nil {
					return err
				}
				return printFiles(cmd.OutOrStdout(), files)
			})
		},
	}
}
