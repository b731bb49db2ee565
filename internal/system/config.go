package system

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// BackupDirName is the fixed name of the single-slot backup directory inside the db directory.
const BackupDirName = "backup"

// Config captures the externally configurable inputs of an update run.
type Config struct {
	DBDir  string `json:"db_dir"`
	Backup bool   `json:"backup"`
}

// LoadConfig builds a Config from the command-line inputs, falling back to the
// platform default when dbDir is empty. Any other value is kept as supplied apart
// from lexical cleaning; surrounding spaces are legal path characters.
func LoadConfig(dbDir string, backup bool) (*Config, error) {
	dir := dbDir
	if dir == "" {
		dir = DefaultDBDir()
	}
	if strings.ContainsRune(dir, 0) {
		return nil, errors.Errorf("invalid database directory %q", dbDir)
	}

	return &Config{
		DBDir:  filepath.Clean(dir),
		Backup: backup,
	}, nil
}

// GetBackupDir returns the directory holding the previous copy of each definition file.
func (c *Config) GetBackupDir() string {
	return filepath.Join(c.DBDir, BackupDirName)
}

// GetTargetPath returns the destination path of a definition file.
func (c *Config) GetTargetPath(name string) string {
	return filepath.Join(c.DBDir, name)
}
