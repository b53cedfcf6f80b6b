package system

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwantia/tagster/internal/app"
	"github.com/mwantia/tagster/internal/config"
)

func NewInitCommand() *cobra.Command {
	var existing bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialise a managed directory",
		Long: `Creates the marker file and database in the managed directory and imports
every file below it. Tags already encoded in file names are attached.

With --existing the database is rebuilt for a directory that still carries its
marker file, for example after the database was lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			report, err := app.NewApp(cfg, cmd.ErrOrStderr()).Initialise(cmd.Context(), existing)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialised %s: %d imported, %d failed\n",
				cfg.Directory, len(report.Imported), len(report.Failures))
			return nil
		},
	}

	cmd.Flags().BoolVar(&existing, "existing", false, "rebuild the database of a directory with tagged file names")
	cmd.Flags().String("delimiter", "&", "delimiter between tags inside file names")
	cmd.Flags().Bool("filename-tags", true, "encode tags into file names")

	viper.BindPFlag("workspace.delimiter", cmd.Flags().Lookup("delimiter"))
	viper.BindPFlag("workspace.filename_tags", cmd.Flags().Lookup("filename-tags"))

	return cmd
}

func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import files added since initialisation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			report, err := app.NewApp(cfg, cmd.ErrOrStderr()).Import(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d imported, %d already known, %d failed\n",
				len(report.Imported), len(report.Skipped), len(report.Failures))
			return nil
		},
	}
}
