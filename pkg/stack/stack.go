// Package stack maintains the registry of products declared into a
// software stack. Products are organized by platform flavor and product
// name, and the registry persists one cache file per flavor so that a
// stack can be reloaded without rescanning declarations.
//
// Tags come in two kinds: global tags live with the product data in the
// stack database, while tags prefixed with "user." are persisted to a
// per-user directory so a shared stack stays writable only by its owner.
package stack

import (
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/logging"
	"github.com/upstack-sh/upstack/pkg/product"
)

// UserTagPrefix marks a tag as user-specific. Anything else is global.
const UserTagPrefix = "user."

// Options configures persistence behavior for a Stack.
type Options struct {
	// CacheDir is where per-flavor cache files are written. Defaults to
	// the stack database directory.
	CacheDir string

	// UserTagDir is where user tag assignments are persisted. Empty
	// disables user tag persistence.
	UserTagDir string

	// Autosave writes every update to disk as it happens.
	Autosave bool
}

// Stack is a lookup of products declared into a stack database.
type Stack struct {
	dbPath     string
	cacheDir   string
	userTagDir string
	autosave   bool

	// flavor -> product name -> family
	lookup map[string]map[string]*product.Family

	// flavors with changes not yet written to disk
	updated []string

	// cache file modification times recorded at load, so a file another
	// process rewrote underneath us is never clobbered
	modtimes map[string]int64

	// flavor -> tag -> product name -> version
	userTags map[string]map[string]map[string]string

	logger zerolog.Logger
}

// New creates a stack over the given database directory.
func New(dbPath string, opts Options) (*Stack, error) {
	if dbPath == "" {
		return nil, errors.New(errors.ErrInvalidInput, "empty stack database path")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStackNotFound, "stack database directory not found: %s", dbPath)
	}
	if opts.CacheDir != "" && opts.Autosave {
		if _, err := os.Stat(opts.CacheDir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "cache directory not found: %s", opts.CacheDir)
		}
	}
	if opts.UserTagDir != "" && opts.Autosave {
		if _, err := os.Stat(opts.UserTagDir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "user tag directory not found: %s", opts.UserTagDir)
		}
	}

	return &Stack{
		dbPath:     dbPath,
		cacheDir:   opts.CacheDir,
		userTagDir: opts.UserTagDir,
		autosave:   opts.Autosave,
		lookup:     make(map[string]map[string]*product.Family),
		modtimes:   make(map[string]int64),
		userTags:   make(map[string]map[string]map[string]string),
		logger:     logging.GetLogger("stack"),
	}, nil
}

// FromCache creates a stack and loads any existing cache files for the
// requested flavors. Flavors without a cache are registered empty.
func FromCache(dbPath string, flavors []string, opts Options) (*Stack, error) {
	if len(flavors) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "at least one flavor is needed")
	}

	s, err := New(dbPath, opts)
	if err != nil {
		return nil, err
	}

	var cached []string
	for _, f := range flavors {
		if _, err := os.Stat(s.cachePath(f, "")); err == nil {
			cached = append(cached, f)
		} else {
			s.AddFlavor(f)
		}
	}
	if len(cached) > 0 {
		if err := s.Reload(cached...); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DBPath returns the stack database directory.
func (s *Stack) DBPath() string {
	return s.dbPath
}

// Flavors returns the flavors registered on this stack, sorted.
func (s *Stack) Flavors() []string {
	out := make([]string, 0, len(s.lookup))
	for f := range s.lookup {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// AddFlavor registers a flavor without products, so that an empty flavor
// caches and reports like any other.
func (s *Stack) AddFlavor(flavor string) {
	if _, ok := s.lookup[flavor]; !ok {
		s.lookup[flavor] = make(map[string]*product.Family)
	}
}

// ProductNames returns the names of all declared products. A non-empty
// flavor restricts the answer to that flavor.
func (s *Stack) ProductNames(flavor string) []string {
	if flavor != "" {
		return sortedKeys(s.lookup[flavor])
	}
	set := make(map[string]struct{})
	for _, families := range s.lookup {
		for name := range families {
			set[name] = struct{}{}
		}
	}
	return sortedSet(set)
}

// Versions returns the declared versions of a product, across all flavors
// unless one is given.
func (s *Stack) Versions(name, flavor string) []string {
	if flavor != "" {
		if fam, ok := s.lookup[flavor][name]; ok {
			return fam.Versions()
		}
		return nil
	}
	set := make(map[string]struct{})
	for _, families := range s.lookup {
		if fam, ok := families[name]; ok {
			for _, v := range fam.Versions() {
				set[v] = struct{}{}
			}
		}
	}
	return sortedSet(set)
}

// Tags returns every tag assigned on this stack, across all flavors
// unless one is given.
func (s *Stack) Tags(flavor string) []string {
	set := make(map[string]struct{})
	collect := func(families map[string]*product.Family) {
		for _, fam := range families {
			for _, t := range fam.Tags() {
				set[t] = struct{}{}
			}
		}
	}
	if flavor != "" {
		collect(s.lookup[flavor])
	} else {
		for _, families := range s.lookup {
			collect(families)
		}
	}
	return sortedSet(set)
}

// HasProduct reports whether a product is registered. An empty flavor or
// version matches any.
func (s *Stack) HasProduct(name, flavor, version string) bool {
	if flavor == "" {
		for f := range s.lookup {
			if s.HasProduct(name, f, version) {
				return true
			}
		}
		return false
	}

	fam, ok := s.lookup[flavor][name]
	if !ok {
		return false
	}
	if version == "" {
		return true
	}
	return fam.HasVersion(version)
}

// Product looks up a fully specified product.
func (s *Stack) Product(name, version, flavor string) (*product.Product, error) {
	fam, ok := s.lookup[flavor][name]
	if !ok {
		return nil, errors.Newf(errors.ErrProductNotFound,
			"product %s %s not found for flavor %s", name, version, flavor)
	}
	return fam.Product(version, s.dbPath, flavor)
}

// TaggedProduct returns the version of a product carrying the given tag,
// or false if no version is so tagged.
func (s *Stack) TaggedProduct(name, flavor, tag string) (*product.Product, bool) {
	fam, ok := s.lookup[flavor][name]
	if !ok {
		return nil, false
	}
	return fam.TaggedProduct(tag, s.dbPath, flavor)
}

// AddProduct registers a product under its flavor. An existing declaration
// of the same version is overwritten.
func (s *Stack) AddProduct(p *product.Product) error {
	if !p.IsFullySpecified() {
		return errors.Newf(errors.ErrUnderSpecified,
			"product not fully specified: %q %q %q", p.Name, p.Version, p.Flavor)
	}

	s.AddFlavor(p.Flavor)
	fam, ok := s.lookup[p.Flavor][p.Name]
	if !ok {
		fam = product.NewFamily(p.Name)
		s.lookup[p.Flavor][p.Name] = fam
	}
	fam.AddVersion(p.Version, product.VersionInfo{Dir: p.Dir, TableFile: p.TableFile})
	for _, tag := range p.Tags {
		if err := fam.AssignTag(tag, p.Version); err != nil {
			return err
		}
	}

	s.markUpdated(p.Flavor)
	s.logger.Debug().
		Str("product", p.Name).
		Str("version", p.Version).
		Str("flavor", p.Flavor).
		Msg("product declared")

	if s.autosave {
		return s.Save(p.Flavor)
	}
	return nil
}

// RemoveProduct unregisters a version of a product, returning false if it
// was not declared. Removing the last version drops the family.
func (s *Stack) RemoveProduct(name, flavor, version string) (bool, error) {
	fam, ok := s.lookup[flavor][name]
	if !ok || !fam.RemoveVersion(version) {
		return false, nil
	}
	if len(fam.Members) == 0 {
		delete(s.lookup[flavor], name)
	}

	s.markUpdated(flavor)
	if s.autosave {
		return true, s.Save(flavor)
	}
	return true, nil
}

// AssignTag assigns a tag to a version of a product. With no flavors
// given, every flavor declaring the product is tagged. Tags with the
// "user." prefix are persisted to the user tag directory.
func (s *Stack) AssignTag(tag, name, version string, flavors ...string) error {
	if len(flavors) == 0 {
		flavors = s.Flavors()
	}

	found := false
	for _, f := range flavors {
		fam, ok := s.lookup[f][name]
		if !ok {
			continue
		}
		if err := fam.AssignTag(tag, version); err != nil {
			continue
		}
		found = true
		if isUserTag(tag) {
			s.setUserTag(f, tag, name, version)
		}
	}
	if !found {
		return errors.Newf(errors.ErrProductNotFound,
			"product %s %s not found in %s", name, version, s.dbPath)
	}

	s.markUpdated(flavors...)
	if s.autosave {
		if isUserTag(tag) {
			return s.saveUserTag(tag, flavors)
		}
		return s.Save(flavors...)
	}
	return nil
}

// UnassignTag removes a tag from a product. It returns false when the tag
// was not assigned under any of the flavors.
func (s *Stack) UnassignTag(tag, name string, flavors ...string) (bool, error) {
	if len(flavors) == 0 {
		flavors = s.Flavors()
	}

	updated := false
	for _, f := range flavors {
		fam, ok := s.lookup[f][name]
		if !ok || !fam.UnassignTag(tag) {
			continue
		}
		updated = true
		s.markUpdated(f)
		if isUserTag(tag) {
			s.unsetUserTag(f, tag, name)
		}
	}

	if updated && s.autosave {
		if isUserTag(tag) {
			return true, s.saveUserTag(tag, flavors)
		}
		return true, s.Save(flavors...)
	}
	return updated, nil
}

// SaveNeeded reports whether there are unsaved updates, optionally
// restricted to the given flavors.
func (s *Stack) SaveNeeded(flavors ...string) bool {
	if len(flavors) == 0 {
		return len(s.updated) > 0
	}
	for _, f := range flavors {
		for _, u := range s.updated {
			if u == f {
				return true
			}
		}
	}
	return false
}

func (s *Stack) markUpdated(flavors ...string) {
	for _, f := range flavors {
		seen := false
		for _, u := range s.updated {
			if u == f {
				seen = true
				break
			}
		}
		if !seen {
			s.updated = append(s.updated, f)
		}
	}
}

func (s *Stack) setUserTag(flavor, tag, name, version string) {
	if s.userTags[flavor] == nil {
		s.userTags[flavor] = make(map[string]map[string]string)
	}
	if s.userTags[flavor][tag] == nil {
		s.userTags[flavor][tag] = make(map[string]string)
	}
	s.userTags[flavor][tag][name] = version
}

func (s *Stack) unsetUserTag(flavor, tag, name string) {
	if tags, ok := s.userTags[flavor]; ok {
		delete(tags[tag], name)
	}
}

func isUserTag(tag string) bool {
	return len(tag) > len(UserTagPrefix) && tag[:len(UserTagPrefix)] == UserTagPrefix
}

func sortedKeys(families map[string]*product.Family) []string {
	out := make([]string, 0, len(families))
	for name := range families {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
