package system

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwantia/tagster/internal/app"
	"github.com/mwantia/tagster/internal/config"
	"github.com/mwantia/tagster/pkg/tagster"
)

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the managed directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			return app.NewApp(cfg, cmd.ErrOrStderr()).Run(cmd.Context(), func(ctx context.Context, m *tagster.Manager) error {
				status, err := m.Status(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "Root:\t%s\n", status.Root)
				fmt.Fprintf(w, "Database:\t%s\n", status.Database)
				fmt.Fprintf(w, "ID:\t%s\n", status.Settings.ID)
				fmt.Fprintf(w, "Delimiter:\t%s\n", status.Settings.Delimiter)
				fmt.Fprintf(w, "Filename tags:\t%t\n", status.Settings.FilenameTags)
				fmt.Fprintf(w, "Files:\t%d\n", status.Files)
				fmt.Fprintf(w, "Tags:\t%d\n", status.Tags)
				for _, migration := range status.Migrations {
					fmt.Fprintf(w, "Schema v%d:\t%s (applied: %t)\n", migration.Version, migration.Description, migration.Applied)
				}
				return w.Flush()
			})
		},
	}
}
