// Package backup keeps a single previous copy of each definition file in a
// backup directory next to the live files.
package backup

import (
	"context"
	"path/filepath"

	"CWU/internal/downloader/core"
	apperrors "CWU/internal/errors"
	"CWU/internal/errors/logging"
	"CWU/internal/logger"
)

const moduleName = "backup"

// Failure records a file that could not be rotated.
type Failure struct {
	Name string
	Err  *apperrors.AppError
}

// Report describes what a rotation pass did.
type Report struct {
	BackupDir  string
	DirCreated bool
	Rotated    []string
	Failed     []Failure
}

// Empty reports whether there was nothing to back up.
func (r *Report) Empty() bool {
	return len(r.Rotated) == 0 && len(r.Failed) == 0
}

// Rotator moves existing definition files into the backup slot before they are overwritten.
type Rotator struct {
	fs     core.FileSystem
	logger logger.Logger
}

// NewRotator returns a Rotator; a nil fs selects the OS filesystem.
func NewRotator(fs core.FileSystem, log logger.Logger) *Rotator {
	if fs == nil {
		fs = core.OSFileSystem{}
	}
	return &Rotator{fs: fs, logger: log}
}

// Rotate moves every existing dbDir/<name> to backupDir/<name>, replacing any earlier
// backup of the same name. Per-file failures are logged and recorded in the report;
// the returned error is non-nil only when backupDir could not be created.
func (r *Rotator) Rotate(ctx context.Context, dbDir, backupDir string, names []string) (*Report, error) {
	report := &Report{BackupDir: backupDir}

	var existing []string
	for _, name := range names {
		if core.Exists(r.fs, filepath.Join(dbDir, name)) {
			existing = append(existing, name)
		}
	}

	if len(existing) == 0 {
		r.logger.Info("No existing database files to backup")
		return report, nil
	}

	if !core.Exists(r.fs, backupDir) {
		if err := r.fs.MkdirAll(backupDir, 0o755); err != nil {
			appErr := apperrors.SystemError(apperrors.CodeBackupDirectory, "failed to create backup directory", err).
				WithModule(moduleName).
				WithOperation("Rotate").
				WithField("path", backupDir)
			r.logger.Warn("Could not backup existing files: %v", err)
			logging.Debug(ctx, r.logger, "backup directory unavailable", appErr)
			return report, appErr
		}
		report.DirCreated = true
		r.logger.Info("Created backup directory: %s", backupDir)
	}

	for _, name := range existing {
		if appErr := r.rotateOne(dbDir, backupDir, name); appErr != nil {
			report.Failed = append(report.Failed, Failure{Name: name, Err: appErr})
			r.logger.Warn("Could not backup %s: %v", name, appErr.Cause())
			logging.Debug(logger.WithTarget(ctx, name), r.logger, "backup rotation failed", appErr)
			continue
		}
		report.Rotated = append(report.Rotated, name)
		r.logger.Info("Backed up %s to backup directory", name)
	}

	return report, nil
}

func (r *Rotator) rotateOne(dbDir, backupDir, name string) *apperrors.AppError {
	current := filepath.Join(dbDir, name)
	previous := filepath.Join(backupDir, name)

	if core.Exists(r.fs, previous) {
		if err := r.fs.Remove(previous); err != nil {
			return apperrors.SystemError(apperrors.CodeBackupRotate, "failed to remove previous backup", err).
				WithModule(moduleName).
				WithOperation("rotateOne").
				WithField("backup", previous)
		}
	}

	if err := r.fs.Rename(current, previous); err != nil {
		return apperrors.SystemError(apperrors.CodeBackupRotate, "failed to move file into backup", err).
			WithModule(moduleName).
			WithOperation("rotateOne").
			WithFields(apperrors.Metadata{"path": current, "backup": previous})
	}
	return nil
}
