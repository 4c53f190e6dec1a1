package commands

import (
	"os"

	"github.com/upstack-sh/upstack/pkg/config"
	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/flavor"
	"github.com/upstack-sh/upstack/pkg/paths"
	"github.com/upstack-sh/upstack/pkg/stack"
)

// resolveWritableDB picks the stack database directory for a command that
// writes to it. An explicit root always wins; otherwise the first root in
// UPSTACK_PATH with a writable database is used.
func resolveWritableDB(root string) (string, error) {
	if root == "" {
		root = paths.FindWritableDB(paths.StackRootsFromEnv())
		if root == "" {
			return "", errors.New(errors.ErrStackNotFound, MsgErrNoWritableRoot)
		}
	}
	return paths.DBDir(root), nil
}

// resolveReadableDB picks the stack database directory for a read-only
// command: the explicit root, or the first root in UPSTACK_PATH whose
// database directory exists.
func resolveReadableDB(root string) (string, error) {
	if root != "" {
		return paths.DBDir(root), nil
	}
	for _, r := range paths.StackRootsFromEnv() {
		db := paths.DBDir(r)
		if st, err := os.Stat(db); err == nil && st.IsDir() {
			return db, nil
		}
	}
	return "", errors.New(errors.ErrStackNotFound, MsgErrNoRoot)
}

// openStack loads the given flavors of a stack database. The per-user tag
// directory is created on demand so user tags always have a home.
func openStack(db string, flavors []string, cfg *config.Config) (*stack.Stack, error) {
	userTagDir := paths.UserTagDir()
	if err := os.MkdirAll(userTagDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate,
			"cannot create user tag directory %s", userTagDir)
	}
	return stack.FromCache(db, flavors, stack.Options{
		UserTagDir: userTagDir,
		Autosave:   cfg.Stack.Autosave,
	})
}

// flavorOrCurrent returns the --flavor value, falling back to the flavor
// detected from the running platform.
func flavorOrCurrent(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	return flavor.Current()
}

// loadFlavors decides which flavors of a database to load: the explicit
// one, or every flavor with a cache file.
func loadFlavors(db, flavorFlag string) ([]string, error) {
	if flavorFlag != "" {
		return []string{flavorFlag}, nil
	}
	return stack.CachedFlavors(db)
}
