//go:build !windows

package system

// DefaultDBDir returns the conventional ClamAV database directory.
func DefaultDBDir() string {
	return "/var/lib/clamav"
}
