package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upstack-sh/upstack/cmd/upstack/commands"
	"github.com/upstack-sh/upstack/pkg/flavor"
	"github.com/upstack-sh/upstack/pkg/paths"
)

// testEnv isolates a test from the host: XDG-style directories point into
// a temp tree, the flavor is pinned and UPSTACK_PATH names one stack root
// with an existing database directory. The root is returned.
func testEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()

	for env, sub := range map[string]string{
		paths.EnvConfigDir:  "config",
		paths.EnvStateDir:   "state",
		paths.EnvUserTagDir: "tags",
	} {
		dir := filepath.Join(tmp, sub)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		t.Setenv(env, dir)
	}
	t.Setenv(flavor.EnvFlavor, "Linux64")

	root := filepath.Join(tmp, "stack")
	require.NoError(t, os.MkdirAll(paths.DBDir(root), 0o755))
	t.Setenv(paths.EnvUpstackPath, root)
	return root
}

func runCmd(args ...string) (string, error) {
	cmd := commands.NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMksetupWritesAllThreeScripts(t *testing.T) {
	testEnv(t)
	installDir := t.TempDir()

	out, err := runCmd("mksetup", installDir, "/usr/bin:/bin:/usr/bin")
	require.NoError(t, err)

	binDir := filepath.Join(installDir, "bin")
	for _, name := range []string{"setups.csh", "setups.sh", "setups.zsh"} {
		path := filepath.Join(installDir, name)
		assert.Contains(t, out, path, "progress line for %s", name)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), binDir+":/usr/bin:/bin",
			"%s embeds the deduplicated path", name)
	}
}

func TestMksetupKeepsExistingBinEntryInPlace(t *testing.T) {
	testEnv(t)
	installDir := t.TempDir()
	binDir := filepath.Join(installDir, "bin")

	_, err := runCmd("mksetup", installDir, "/usr/bin:"+binDir+":/bin")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(installDir, "setups.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "/usr/bin:"+binDir+":/bin",
		"an already present bin entry is not moved to the front")
	assert.Equal(t, 1, strings.Count(string(content), binDir+":"),
		"bin entry appears exactly once in the path")
}

func TestMksetupCustomAliasPair(t *testing.T) {
	testEnv(t)
	installDir := t.TempDir()

	_, err := runCmd("mksetup", installDir, "/usr/bin", "load:unload")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(installDir, "setups.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "load()")
	assert.Contains(t, string(content), "unload()")
	assert.NotContains(t, string(content), "\nsetup()")
}

func TestMksetupRejectsMalformedAliasPair(t *testing.T) {
	testEnv(t)

	for _, pair := range []string{"loadonly", "load:", ":unload", "a:b:c"} {
		_, err := runCmd("mksetup", t.TempDir(), "/usr/bin", pair)
		assert.Error(t, err, "pair %q", pair)
	}
}

func TestMksetupRequiresTwoArguments(t *testing.T) {
	testEnv(t)

	_, err := runCmd("mksetup", "/only/one")
	assert.Error(t, err)
}

func TestMksetupFailsOnMissingInstallDir(t *testing.T) {
	testEnv(t)

	_, err := runCmd("mksetup", filepath.Join(t.TempDir(), "does-not-exist"), "/usr/bin")
	assert.Error(t, err)
}

func TestDeclareListRoundTrip(t *testing.T) {
	root := testEnv(t)

	out, err := runCmd("declare", "python", "3.11.4", "--dir", "/opt/python", "--tag", "stable")
	require.NoError(t, err)
	assert.Contains(t, out, "declared python 3.11.4 for flavor Linux64")

	cache := filepath.Join(paths.DBDir(root), "Linux64.products.toml")
	assert.FileExists(t, cache)

	out, err = runCmd("list")
	require.NoError(t, err)
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "3.11.4")
	assert.Contains(t, out, "stable")
}

func TestListFiltersByProduct(t *testing.T) {
	testEnv(t)

	_, err := runCmd("declare", "python", "3.11.4")
	require.NoError(t, err)
	_, err = runCmd("declare", "numpy", "1.26.0")
	require.NoError(t, err)

	out, err := runCmd("list", "numpy")
	require.NoError(t, err)
	assert.Contains(t, out, "numpy")
	assert.NotContains(t, out, "python")
}

func TestListEmptyStack(t *testing.T) {
	testEnv(t)

	out, err := runCmd("list")
	require.NoError(t, err)
	assert.Contains(t, out, "no products declared")
}

func TestUndeclareRemovesProduct(t *testing.T) {
	testEnv(t)

	_, err := runCmd("declare", "python", "3.11.4")
	require.NoError(t, err)

	out, err := runCmd("undeclare", "python", "3.11.4")
	require.NoError(t, err)
	assert.Contains(t, out, "undeclared python 3.11.4")

	out, err = runCmd("list")
	require.NoError(t, err)
	assert.Contains(t, out, "no products declared")
}

func TestUndeclareUnknownProductFails(t *testing.T) {
	testEnv(t)

	_, err := runCmd("undeclare", "python", "9.9.9")
	assert.Error(t, err)
}

func TestDeclareWithoutWritableRootFails(t *testing.T) {
	testEnv(t)
	t.Setenv(paths.EnvUpstackPath, "")

	_, err := runCmd("declare", "python", "3.11.4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no writable stack database")
}

func TestTagLifecycle(t *testing.T) {
	testEnv(t)

	_, err := runCmd("declare", "python", "3.11.4")
	require.NoError(t, err)

	out, err := runCmd("tag", "current", "python", "3.11.4")
	require.NoError(t, err)
	assert.Contains(t, out, "tagged python 3.11.4 as current")

	out, err = runCmd("tags")
	require.NoError(t, err)
	assert.Contains(t, out, "current")

	out, err = runCmd("untag", "current", "python")
	require.NoError(t, err)
	assert.Contains(t, out, "removed tag current from python")

	out, err = runCmd("tags")
	require.NoError(t, err)
	assert.Contains(t, out, "no tags assigned")
}

func TestUntagUnassignedTagFails(t *testing.T) {
	testEnv(t)

	_, err := runCmd("declare", "python", "3.11.4")
	require.NoError(t, err)

	_, err = runCmd("untag", "current", "python")
	assert.Error(t, err)
}

func TestUserTagPersistsToUserTagDir(t *testing.T) {
	testEnv(t)

	_, err := runCmd("declare", "python", "3.11.4")
	require.NoError(t, err)
	_, err = runCmd("tag", "user.beta", "python", "3.11.4")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(os.Getenv(paths.EnvUserTagDir), "Linux64_user.beta.tags.yaml"))
}

func TestFlavorsShowsNativeAndFallbacks(t *testing.T) {
	testEnv(t)

	out, err := runCmd("flavors")
	require.NoError(t, err)
	assert.Contains(t, out, "Linux64")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "Generic")
}

func TestVersionCommand(t *testing.T) {
	testEnv(t)

	out, err := runCmd("version")
	require.NoError(t, err)
	assert.Contains(t, out, "upstack")
}

func TestNoCommandShowsHelpAndFails(t *testing.T) {
	testEnv(t)

	_, err := runCmd()
	assert.Error(t, err)
}
