// Package paths resolves user-level directories for vaultmd.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigHome returns the base directory for user configuration files,
// following the XDG Base Directory specification.
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns the vaultmd configuration directory.
func AppConfigDir(appName string) string {
	return filepath.Join(ConfigHome(), appName)
}

// ExpandHome expands a leading ~ in the given path to the user's home
// directory. Paths without a leading ~ are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" || len(path) >= 2 && path[0] == '~' && os.IsPathSeparator(path[1]) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
