// Package updater runs one full definition update: prepare the database directory,
// rotate backups, fetch every target and summarise.
package updater

import (
	"context"

	"CWU/internal/backup"
	"CWU/internal/downloader/core"
	apperrors "CWU/internal/errors"
	"CWU/internal/errors/logging"
	"CWU/internal/logger"
	"CWU/internal/system"
)

const moduleName = "updater"

// Presenter renders the user-facing parts of a run.
type Presenter interface {
	Section(title string)
	DownloadHeader(source, destination string)
	FetchStarted(target core.Target)
	FetchFinished(result core.Result)
	Success(format string, args ...interface{})
	Failure(format string, args ...interface{})
	Summary(summary Summary)
}

// Fetcher downloads one target to a destination path.
type Fetcher interface {
	Fetch(ctx context.Context, target core.Target, destination string) core.Result
}

// Report is everything a run produced.
type Report struct {
	Rotation *backup.Report
	Summary  Summary
}

// ExitCode maps the report to the process exit status.
func (r *Report) ExitCode() int {
	if r == nil {
		return 1
	}
	return r.Summary.ExitCode()
}

// Updater sequences Prepare -> [Backup] -> Fetch per target -> Summarize.
type Updater struct {
	targets   []core.Target
	source    string
	fetcher   Fetcher
	rotator   *backup.Rotator
	fs        core.FileSystem
	logger    logger.Logger
	presenter Presenter
}

// Option customises an Updater.
type Option func(*Updater)

// WithFileSystem overrides the filesystem used to prepare the database directory.
func WithFileSystem(fs core.FileSystem) Option {
	return func(u *Updater) {
		u.fs = fs
	}
}

// WithRotator overrides the backup rotator.
func WithRotator(r *backup.Rotator) Option {
	return func(u *Updater) {
		u.rotator = r
	}
}

// WithSource sets the label shown as the download source.
func WithSource(source string) Option {
	return func(u *Updater) {
		u.source = source
	}
}

// New builds an Updater for the given ordered targets.
func New(targets []core.Target, fetcher Fetcher, log logger.Logger, presenter Presenter, opts ...Option) *Updater {
	u := &Updater{
		targets:   append([]core.Target(nil), targets...),
		fetcher:   fetcher,
		logger:    log,
		presenter: presenter,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.fs == nil {
		u.fs = core.OSFileSystem{}
	}
	if u.rotator == nil {
		u.rotator = backup.NewRotator(u.fs, log)
	}
	return u
}

// Run performs one update pass. The returned error is non-nil only when the database
// directory could not be established; every other failure is reported in the Report.
func (u *Updater) Run(ctx context.Context, cfg *system.Config) (*Report, error) {
	ctx = logger.NewRunContext(ctx)
	u.logger.DebugContext(ctx, "update run started",
		logger.String("db_dir", cfg.DBDir),
		logger.Any("backup", cfg.Backup),
		logger.Int("targets", len(u.targets)))

	if err := u.Prepare(cfg.DBDir); err != nil {
		logging.Error(ctx, u.logger, "database directory unavailable", err)
		return nil, err
	}

	report := &Report{}

	if cfg.Backup {
		u.presenter.Section("Backing up existing database files")
		rotation, err := u.rotator.Rotate(ctx, cfg.DBDir, cfg.GetBackupDir(), core.TargetNames(u.targets))
		if err != nil {
			u.logger.DebugContext(ctx, "continuing without backups", logger.Error(err))
		}
		report.Rotation = rotation
	}

	u.presenter.Section("Downloading virus definition files")
	u.presenter.DownloadHeader(u.source, cfg.DBDir)

	results := make([]core.Result, 0, len(u.targets))
	for _, target := range u.targets {
		u.presenter.FetchStarted(target)
		result := u.fetcher.Fetch(ctx, target, cfg.GetTargetPath(target.Name))
		u.presenter.FetchFinished(result)
		results = append(results, result)
	}

	report.Summary = Summarize(results)
	u.presenter.Summary(report.Summary)

	u.logger.DebugContext(ctx, "update run finished",
		logger.Int("succeeded", report.Summary.Succeeded),
		logger.Int("total", report.Summary.Total),
		logger.String("outcome", report.Summary.Outcome().String()))

	return report, nil
}

// Prepare makes sure dir exists, creating it recursively when absent. An existing path
// is accepted as-is, whatever its type.
func (u *Updater) Prepare(dir string) *apperrors.AppError {
	if core.Exists(u.fs, dir) {
		return nil
	}

	u.logger.Warn("Database directory does not exist: %s", dir)
	u.logger.Info("Creating directory...")

	if err := u.fs.MkdirAll(dir, 0o755); err != nil {
		u.presenter.Failure("Could not create directory: %v", err)
		return apperrors.SystemError(apperrors.CodeDirectoryPrepare, "failed to create database directory", err).
			WithModule(moduleName).
			WithOperation("Prepare").
			WithField("path", dir)
	}

	u.presenter.Success("Created directory: %s", dir)
	return nil
}
