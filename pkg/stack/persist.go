package stack

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/product"
	"gopkg.in/yaml.v3"
)

// cacheFormat versions the on-disk cache layout.
const cacheFormat = "1"

const (
	cacheFileSuffix = ".products.toml"
	userTagSuffix   = ".tags.yaml"
)

var (
	cacheFileRe   = regexp.MustCompile(`^(\w\S*)\.products\.toml$`)
	userTagFileRe = regexp.MustCompile(`^(\w[^_\s]*)_(\S+)\.tags\.yaml$`)
)

// flavorCache is the persisted form of one flavor's products.
type flavorCache struct {
	Format   string                     `toml:"format"`
	Products map[string]*product.Family `toml:"products"`
}

// CacheFilename returns the cache file name used for a flavor.
func CacheFilename(flavor string) string {
	return flavor + cacheFileSuffix
}

// CachedFlavors returns the flavors with a cache file in dir.
func CachedFlavors(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot scan cache directory %s", dir)
	}
	var flavors []string
	for _, e := range entries {
		if m := cacheFileRe.FindStringSubmatch(e.Name()); m != nil {
			flavors = append(flavors, m[1])
		}
	}
	return flavors, nil
}

func (s *Stack) persistDir() string {
	if s.cacheDir != "" {
		return s.cacheDir
	}
	return s.dbPath
}

func (s *Stack) cachePath(flavor, dir string) string {
	if dir == "" {
		dir = s.persistDir()
	}
	return filepath.Join(dir, CacheFilename(flavor))
}

// Save persists product data for the given flavors, or for every flavor
// with unsaved changes when none are given. A cache file that changed on
// disk since it was loaded is left alone and reported; other flavors are
// still saved.
func (s *Stack) Save(flavors ...string) error {
	if len(flavors) == 0 {
		if len(s.updated) == 0 {
			return nil
		}
		flavors = append([]string(nil), s.updated...)
	}

	var outOfSync []string
	for _, flavor := range flavors {
		file := s.cachePath(flavor, "")
		if recorded, ok := s.modtimes[file]; ok {
			if st, err := os.Stat(file); err == nil && st.ModTime().UnixNano() > recorded {
				outOfSync = append(outOfSync, file)
				continue
			}
		}

		if err := s.persist(flavor, file); err != nil {
			return err
		}
		s.clearUpdated(flavor)
	}

	if len(outOfSync) > 0 {
		return errors.Newf(errors.ErrStackOutOfSync,
			"in-memory stack appears out of sync with cache files: %v", outOfSync).
			WithDetail("files", outOfSync)
	}
	return nil
}

// persist writes one flavor's cache file, holding its lock for the
// duration of the write.
func (s *Stack) persist(flavor, file string) error {
	s.AddFlavor(flavor)

	lock := flock.New(lockPath(file))
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, errors.ErrStackLock, "cannot lock cache file %s", file)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := toml.Marshal(flavorCache{
		Format:   cacheFormat,
		Products: s.lookup[flavor],
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot encode cache for flavor %s", flavor)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write cache file %s", file)
	}

	st, err := os.Stat(file)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat cache file %s", file)
	}
	s.modtimes[file] = st.ModTime().UnixNano()

	s.logger.Debug().Str("flavor", flavor).Str("file", file).Msg("flavor cache saved")
	return nil
}

// Reload replaces in-memory product data with the cache file contents,
// for the given flavors or every cached flavor when none are given. User
// tag assignments found in the user tag directory are reapplied on top.
func (s *Stack) Reload(flavors ...string) error {
	if len(flavors) == 0 {
		var err error
		flavors, err = CachedFlavors(s.persistDir())
		if err != nil {
			return err
		}
	}

	for _, flavor := range flavors {
		file := s.cachePath(flavor, "")

		lock := flock.New(lockPath(file))
		if err := lock.Lock(); err != nil {
			return errors.Wrapf(err, errors.ErrStackLock, "cannot lock cache file %s", file)
		}

		st, err := os.Stat(file)
		if err != nil {
			_ = lock.Unlock()
			return errors.Wrapf(err, errors.ErrFileNotFound, "no cache for flavor %s", flavor)
		}
		data, err := os.ReadFile(file)
		_ = lock.Unlock()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read cache file %s", file)
		}

		var cache flavorCache
		if err := toml.Unmarshal(data, &cache); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "cannot decode cache file %s", file)
		}
		if cache.Products == nil {
			cache.Products = make(map[string]*product.Family)
		}

		s.modtimes[file] = st.ModTime().UnixNano()
		s.lookup[flavor] = cache.Products

		if err := s.loadUserTags(flavor); err != nil {
			return err
		}
	}
	return nil
}

// ClearCache removes the cache files for the given flavors, or for every
// registered flavor when none are given.
func (s *Stack) ClearCache(flavors ...string) error {
	if len(flavors) == 0 {
		flavors = s.Flavors()
	}
	for _, flavor := range flavors {
		file := s.cachePath(flavor, "")
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove cache file %s", file)
		}
		delete(s.modtimes, file)
	}
	return nil
}

// saveUserTag persists one user tag's assignments for the given flavors.
func (s *Stack) saveUserTag(tag string, flavors []string) error {
	if s.userTagDir == "" {
		return nil
	}

	for _, flavor := range flavors {
		assignments, ok := s.userTags[flavor][tag]
		if !ok {
			continue
		}
		file := filepath.Join(s.userTagDir, userTagFilename(flavor, tag))

		lock := flock.New(lockPath(file))
		if err := lock.Lock(); err != nil {
			return errors.Wrapf(err, errors.ErrStackLock, "cannot lock tag file %s", file)
		}

		data, err := yaml.Marshal(assignments)
		if err == nil {
			err = os.WriteFile(file, data, 0o644)
		}
		_ = lock.Unlock()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot write tag file %s", file)
		}

		s.logger.Debug().Str("flavor", flavor).Str("tag", tag).Str("file", file).Msg("user tag saved")
	}
	return nil
}

// loadUserTags reapplies persisted user tag assignments for a flavor onto
// the in-memory families. Assignments pointing at versions no longer
// declared are skipped.
func (s *Stack) loadUserTags(flavor string) error {
	if s.userTagDir == "" {
		return nil
	}
	entries, err := os.ReadDir(s.userTagDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot scan user tag directory %s", s.userTagDir)
	}

	for _, e := range entries {
		m := userTagFileRe.FindStringSubmatch(e.Name())
		if m == nil || m[1] != flavor {
			continue
		}
		tag := m[2]

		data, err := os.ReadFile(filepath.Join(s.userTagDir, e.Name()))
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read tag file %s", e.Name())
		}
		var assignments map[string]string
		if err := yaml.Unmarshal(data, &assignments); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "cannot decode tag file %s", e.Name())
		}

		for name, version := range assignments {
			fam, ok := s.lookup[flavor][name]
			if !ok || !fam.HasVersion(version) {
				continue
			}
			if err := fam.AssignTag(tag, version); err != nil {
				continue
			}
			s.setUserTag(flavor, tag, name, version)
		}
	}
	return nil
}

func (s *Stack) clearUpdated(flavor string) {
	kept := s.updated[:0]
	for _, u := range s.updated {
		if u != flavor {
			kept = append(kept, u)
		}
	}
	s.updated = kept
}

func userTagFilename(flavor, tag string) string {
	return fmt.Sprintf("%s_%s%s", flavor, tag, userTagSuffix)
}

func lockPath(file string) string {
	return file + ".lock"
}
