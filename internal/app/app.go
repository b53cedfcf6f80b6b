package app

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/tagster/internal/config"
	"github.com/mwantia/tagster/pkg/log"
	"github.com/mwantia/tagster/pkg/tagster"
)

// TagsterApp wires configuration, logging and the management system for a single CLI invocation
type TagsterApp struct {
	cfg *config.BaseConfig
	sc  *container.ServiceContainer
	log log.LoggerService

	services services
}

type services struct {
	Workspace log.LoggerService `fabric:"logger:workspace"`
}

func NewApp(cfg *config.BaseConfig, out io.Writer) *TagsterApp {
	return &TagsterApp{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerServiceWithWriter("tagster", cfg.Log, out),
	}
}

func (ta *TagsterApp) setupServices(ctx context.Context) error {
	errs := container.Errors{}

	ta.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](ta.sc,
		container.With[log.LoggerService](),
		container.WithInstance(ta.log)))

	if err := errs.Errors(); err != nil {
		return err
	}

	return ta.inject(ctx, &ta.services)
}

// inject fills every field of target tagged for the logger processor
func (ta *TagsterApp) inject(ctx context.Context, target any) error {
	processor := log.NewLoggerTagProcessor()

	value := reflect.ValueOf(target).Elem()
	for i := 0; i < value.NumField(); i++ {
		field := value.Type().Field(i)

		tag, ok := field.Tag.Lookup("fabric")
		if !ok || !processor.CanProcess(tag) {
			continue
		}

		resolved, err := processor.Process(ctx, ta.sc, field, tag)
		if err != nil {
			return err
		}
		value.Field(i).Set(reflect.ValueOf(resolved))
	}

	return nil
}

// Logger returns the base logger
func (ta *TagsterApp) Logger() log.LoggerService {
	return ta.log
}

func (ta *TagsterApp) options() []tagster.Option {
	return []tagster.Option{
		tagster.WithDelimiter(ta.cfg.Workspace.Delimiter),
		tagster.WithFilenameTags(ta.cfg.Workspace.FilenameTags),
		tagster.WithDatabaseLogLevel(ta.cfg.Database.GormLogLevel()),
	}
}

// Initialise creates a management system in the configured directory and logs the import result
func (ta *TagsterApp) Initialise(ctx context.Context, existing bool) (*tagster.ImportReport, error) {
	if err := ta.setupServices(ctx); err != nil {
		return nil, err
	}
	defer ta.cleanup(ctx)

	initialise := tagster.InitialiseNew
	if existing {
		initialise = tagster.InitialiseExisting
	}

	ta.services.Workspace.Info("Initialising '%s'...", ta.cfg.Directory)
	m, report, err := initialise(ctx, ta.cfg.Directory, ta.options()...)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	ta.logReport(report)
	return report, nil
}

// Run connects to the configured directory, runs fn and closes the connection again
func (ta *TagsterApp) Run(ctx context.Context, fn func(context.Context, *tagster.Manager) error) error {
	if err := ta.setupServices(ctx); err != nil {
		return err
	}
	defer ta.cleanup(ctx)

	m, err := tagster.Connect(ctx, ta.cfg.Directory, ta.options()...)
	if err != nil {
		return err
	}
	defer m.Close()

	ta.services.Workspace.Debug("Connected to '%s'", m.Root())
	return fn(ctx, m)
}

// Import re-walks the configured directory and logs the result
func (ta *TagsterApp) Import(ctx context.Context) (*tagster.ImportReport, error) {
	var report *tagster.ImportReport
	err := ta.Run(ctx, func(ctx context.Context, m *tagster.Manager) error {
		var err error
		if report, err = m.Import(ctx); err != nil {
			return err
		}

		ta.logReport(report)
		return nil
	})
	return report, err
}

func (ta *TagsterApp) logReport(report *tagster.ImportReport) {
	ta.services.Workspace.Info("Imported %d files, skipped %d", len(report.Imported), len(report.Skipped))
	for _, failure := range report.Failures {
		ta.services.Workspace.Warn("Unable to import '%s': %v", failure.Path, failure.Err)
	}
}

func (ta *TagsterApp) cleanup(ctx context.Context) {
	if err := ta.sc.Cleanup(ctx); err != nil {
		ta.log.Error("%v", fmt.Errorf("failed to complete service container cleanup: %w", err))
	}

	if closer, ok := ta.log.(io.Closer); ok {
		_ = closer.Close()
	}
}
