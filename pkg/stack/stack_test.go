// pkg/stack/stack_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Real filesystem (temp dirs)
// PURPOSE: Test product registry operations and cache persistence

package stack_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/product"
	"github.com/upstack-sh/upstack/pkg/stack"
)

func pythonProduct(version string, tags ...string) *product.Product {
	return &product.Product{
		Name:      "python",
		Version:   version,
		Flavor:    "Linux64",
		Dir:       "/opt/stack/python/" + version,
		TableFile: "python.table",
		Tags:      tags,
	}
}

func TestNewRequiresExistingDB(t *testing.T) {
	_, err := stack.New("", stack.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = stack.New(filepath.Join(t.TempDir(), "missing"), stack.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrStackNotFound))
}

func TestAddProductRejectsUnderSpecified(t *testing.T) {
	s, err := stack.New(t.TempDir(), stack.Options{})
	require.NoError(t, err)

	err = s.AddProduct(&product.Product{Name: "python", Version: "3.12.1"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnderSpecified))
}

func TestRegistryLookups(t *testing.T) {
	s, err := stack.New(t.TempDir(), stack.Options{})
	require.NoError(t, err)

	require.NoError(t, s.AddProduct(pythonProduct("3.11.9")))
	require.NoError(t, s.AddProduct(pythonProduct("3.12.1", "current")))
	require.NoError(t, s.AddProduct(&product.Product{
		Name: "numpy", Version: "2.1.0", Flavor: "Generic",
	}))

	assert.Equal(t, []string{"Generic", "Linux64"}, s.Flavors())
	assert.Equal(t, []string{"numpy", "python"}, s.ProductNames(""))
	assert.Equal(t, []string{"python"}, s.ProductNames("Linux64"))
	assert.Equal(t, []string{"3.11.9", "3.12.1"}, s.Versions("python", "Linux64"))
	assert.Equal(t, []string{"current"}, s.Tags(""))

	assert.True(t, s.HasProduct("python", "", ""))
	assert.True(t, s.HasProduct("python", "Linux64", "3.12.1"))
	assert.False(t, s.HasProduct("python", "Generic", ""))
	assert.False(t, s.HasProduct("python", "Linux64", "0.0.0"))

	p, err := s.Product("python", "3.12.1", "Linux64")
	require.NoError(t, err)
	assert.Equal(t, s.DBPath(), p.DB)
	assert.Equal(t, []string{"current"}, p.Tags)

	_, err = s.Product("ruby", "3.0.0", "Linux64")
	assert.True(t, errors.IsErrorCode(err, errors.ErrProductNotFound))

	tagged, ok := s.TaggedProduct("python", "Linux64", "current")
	require.True(t, ok)
	assert.Equal(t, "3.12.1", tagged.Version)
}

func TestRemoveProductDropsEmptyFamily(t *testing.T) {
	s, err := stack.New(t.TempDir(), stack.Options{})
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(pythonProduct("3.12.1")))

	removed, err := s.RemoveProduct("python", "Linux64", "3.12.1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, s.ProductNames("Linux64"))

	removed, err = s.RemoveProduct("python", "Linux64", "3.12.1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	db := t.TempDir()

	s, err := stack.New(db, stack.Options{Autosave: true})
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(pythonProduct("3.12.1", "current")))

	assert.FileExists(t, filepath.Join(db, stack.CacheFilename("Linux64")))
	assert.False(t, s.SaveNeeded(), "autosave leaves nothing pending")

	reloaded, err := stack.FromCache(db, []string{"Linux64"}, stack.Options{})
	require.NoError(t, err)

	p, err := reloaded.Product("python", "3.12.1", "Linux64")
	require.NoError(t, err)
	assert.Equal(t, "/opt/stack/python/3.12.1", p.Dir)
	assert.Equal(t, "python.table", p.TableFile)
	assert.Equal(t, []string{"current"}, p.Tags)
}

func TestSaveNeededTracksDirtyFlavors(t *testing.T) {
	s, err := stack.New(t.TempDir(), stack.Options{})
	require.NoError(t, err)

	assert.False(t, s.SaveNeeded())
	require.NoError(t, s.AddProduct(pythonProduct("3.12.1")))
	assert.True(t, s.SaveNeeded())
	assert.True(t, s.SaveNeeded("Linux64"))
	assert.False(t, s.SaveNeeded("Darwin"))

	require.NoError(t, s.Save())
	assert.False(t, s.SaveNeeded())
}

func TestSaveRefusesOutOfSyncCache(t *testing.T) {
	db := t.TempDir()

	s, err := stack.New(db, stack.Options{})
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(pythonProduct("3.11.9")))
	require.NoError(t, s.Save())

	// Another process rewrites the cache file after we loaded it.
	file := filepath.Join(db, stack.CacheFilename("Linux64"))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, future, future))

	require.NoError(t, s.AddProduct(pythonProduct("3.12.1")))
	err = s.Save()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStackOutOfSync))
}

func TestFromCacheRegistersMissingFlavorsEmpty(t *testing.T) {
	s, err := stack.FromCache(t.TempDir(), []string{"Linux64", "Generic"}, stack.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Generic", "Linux64"}, s.Flavors())
	assert.Empty(t, s.ProductNames(""))

	_, err = stack.FromCache(t.TempDir(), nil, stack.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCachedFlavors(t *testing.T) {
	db := t.TempDir()

	s, err := stack.New(db, stack.Options{Autosave: true})
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(pythonProduct("3.12.1")))
	require.NoError(t, s.AddProduct(&product.Product{Name: "numpy", Version: "2.1.0", Flavor: "Generic"}))
	require.NoError(t, os.WriteFile(filepath.Join(db, "notes.txt"), []byte("not a cache"), 0o644))

	flavors, err := stack.CachedFlavors(db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Linux64", "Generic"}, flavors)
}

func TestClearCache(t *testing.T) {
	db := t.TempDir()

	s, err := stack.New(db, stack.Options{Autosave: true})
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(pythonProduct("3.12.1")))

	file := filepath.Join(db, stack.CacheFilename("Linux64"))
	assert.FileExists(t, file)
	require.NoError(t, s.ClearCache())
	assert.NoFileExists(t, file)
}

func TestUserTagsPersistToUserDir(t *testing.T) {
	db := t.TempDir()
	tagDir := t.TempDir()
	opts := stack.Options{UserTagDir: tagDir, Autosave: true}

	s, err := stack.New(db, opts)
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(pythonProduct("3.12.1")))
	require.NoError(t, s.AssignTag("user.beta", "python", "3.12.1"))

	tagFile := filepath.Join(tagDir, "Linux64_user.beta.tags.yaml")
	assert.FileExists(t, tagFile)

	// The global cache does not carry the user tag; a reload reapplies it
	// from the user tag directory.
	reloaded, err := stack.FromCache(db, []string{"Linux64"}, opts)
	require.NoError(t, err)

	p, ok := reloaded.TaggedProduct("python", "Linux64", "user.beta")
	require.True(t, ok)
	assert.Equal(t, "3.12.1", p.Version)

	// A stack opened without a user tag dir never sees it.
	global, err := stack.FromCache(db, []string{"Linux64"}, stack.Options{})
	require.NoError(t, err)
	_, ok = global.TaggedProduct("python", "Linux64", "user.beta")
	assert.False(t, ok)
}

func TestAssignGlobalTag(t *testing.T) {
	db := t.TempDir()

	s, err := stack.New(db, stack.Options{Autosave: true})
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(pythonProduct("3.12.1")))
	require.NoError(t, s.AssignTag("stable", "python", "3.12.1"))

	err = s.AssignTag("stable", "ruby", "3.0.0")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProductNotFound))

	reloaded, err := stack.FromCache(db, []string{"Linux64"}, stack.Options{})
	require.NoError(t, err)
	_, ok := reloaded.TaggedProduct("python", "Linux64", "stable")
	assert.True(t, ok, "global tags persist with the flavor cache")

	removed, err := s.UnassignTag("stable", "python")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.UnassignTag("stable", "python")
	require.NoError(t, err)
	assert.False(t, removed)
}
