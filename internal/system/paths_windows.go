//go:build windows

package system

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

const fallbackDBDir = `C:\ProgramData\.clamwin\db`

// DefaultDBDir returns the ClamWin database directory under %ProgramData%.
func DefaultDBDir() string {
	base, err := windows.KnownFolderPath(windows.FOLDERID_ProgramData, 0)
	if err != nil || base == "" {
		return fallbackDBDir
	}
	return filepath.Join(base, ".clamwin", "db")
}
