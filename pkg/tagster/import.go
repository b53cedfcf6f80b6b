package tagster

import (
	"context"
	"errors"

	"github.com/samber/lo"
)

// ImportFailure records a file that could not be imported
type ImportFailure struct {
	Path string
	Err  error
}

// ImportReport summarises a directory import
type ImportReport struct {
	Imported []File
	Skipped  []string
	Failures []ImportFailure
}

// Err joins all failures, nil when every file was imported
func (r *ImportReport) Err() error {
	return errors.Join(lo.Map(r.Failures, func(f ImportFailure, _ int) error {
		return f.Err
	})...)
}

// Import walks the root directory and registers every file not known yet.
// With filename tagging enabled the tags embedded in each name are attached,
// creating missing tags on the way. Imported files keep their names. A failing
// file is recorded in the report and the walk continues.
func (m *Manager) Import(ctx context.Context) (*ImportReport, error) {
	report := &ImportReport{}

	for path, err := range Discover(m.fs, m.root) {
		if err != nil {
			report.Failures = append(report.Failures, ImportFailure{Path: path, Err: err})
			continue
		}

		if _, err := m.Files().GetByPath(ctx, path); err == nil {
			report.Skipped = append(report.Skipped, path)
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return report, err
		}

		file, err := m.Files().Add(ctx, path)
		if err != nil {
			report.Failures = append(report.Failures, ImportFailure{Path: path, Err: err})
			continue
		}

		report.Imported = append(report.Imported, *file)
	}

	return report, nil
}
