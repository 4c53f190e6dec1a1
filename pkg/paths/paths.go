// Package paths provides centralized path handling for upstack: the
// stack roots named by UPSTACK_PATH and the XDG base directories used for
// configuration, caches, state and per-user tag data.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/upstack-sh/upstack/pkg/pathlist"
	"golang.org/x/sys/unix"
)

// Environment variable names
const (
	// EnvUpstackPath lists the stack roots, colon separated, in lookup
	// precedence order.
	EnvUpstackPath = "UPSTACK_PATH"

	// EnvConfigDir overrides the XDG config directory for upstack
	EnvConfigDir = "UPSTACK_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for upstack
	EnvCacheDir = "UPSTACK_CACHE_DIR"

	// EnvStateDir overrides the XDG state directory for upstack
	EnvStateDir = "UPSTACK_STATE_DIR"

	// EnvUserTagDir overrides where per-user tag data is persisted
	EnvUserTagDir = "UPSTACK_USER_TAG_DIR"
)

// DBDirName is the database directory under each stack root.
const DBDirName = "ups_db"

const appDirName = "upstack"

// StackRoots parses a raw UPSTACK_PATH value into its roots, dropping
// empty segments and duplicates.
func StackRoots(raw string) []string {
	return pathlist.Split(raw)
}

// StackRootsFromEnv returns the stack roots named by UPSTACK_PATH.
func StackRootsFromEnv() []string {
	return StackRoots(os.Getenv(EnvUpstackPath))
}

// DBDir returns the database directory under a stack root.
func DBDir(root string) string {
	return filepath.Join(root, DBDirName)
}

// FindWritableDB returns the first stack root whose database directory
// the current user can write to, or "" when none qualifies. Declaring
// products, setting global tags and updating caches all require a
// writable database.
func FindWritableDB(roots []string) string {
	for _, root := range roots {
		db := DBDir(root)
		if isWritableDir(db) {
			return root
		}
	}
	return ""
}

// isWritableDir reports whether path is an existing directory the current
// user can read and write. A non-existent directory is not writable.
func isWritableDir(path string) bool {
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		return false
	}
	return unix.Access(path, unix.R_OK|unix.W_OK) == nil
}

// ConfigDir returns the directory holding the user's upstack.toml.
func ConfigDir() string {
	return override(EnvConfigDir, xdg.ConfigHome)
}

// CacheDir returns the directory for flavor cache files when a stack has
// no cache directory of its own.
func CacheDir() string {
	return override(EnvCacheDir, xdg.CacheHome)
}

// StateDir returns the directory for the log file.
func StateDir() string {
	return override(EnvStateDir, xdg.StateHome)
}

// UserTagDir returns the directory for per-user tag assignments.
func UserTagDir() string {
	if dir := os.Getenv(EnvUserTagDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, appDirName, "tags")
}

func override(env, xdgBase string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	return filepath.Join(xdgBase, appDirName)
}
