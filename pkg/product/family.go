package product

import (
	"sort"

	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/vercmp"
)

// VersionInfo holds the per-version declaration data of a family member.
type VersionInfo struct {
	Dir       string `toml:"dir,omitempty" yaml:"dir,omitempty"`
	TableFile string `toml:"table,omitempty" yaml:"table,omitempty"`
}

// Family collects every declared version of one product under a single
// flavor, along with the tag assignments pointing into those versions.
type Family struct {
	Name     string                 `toml:"name" yaml:"name"`
	Members  map[string]VersionInfo `toml:"versions" yaml:"versions"`
	Assigned map[string]string      `toml:"tags,omitempty" yaml:"tags,omitempty"`
}

// NewFamily creates an empty family for the named product.
func NewFamily(name string) *Family {
	return &Family{
		Name:     name,
		Members:  make(map[string]VersionInfo),
		Assigned: make(map[string]string),
	}
}

// AddVersion declares a version, overwriting any existing declaration.
func (f *Family) AddVersion(version string, info VersionInfo) {
	if f.Members == nil {
		f.Members = make(map[string]VersionInfo)
	}
	f.Members[version] = info
}

// HasVersion reports whether the version is declared.
func (f *Family) HasVersion(version string) bool {
	_, ok := f.Members[version]
	return ok
}

// RemoveVersion undeclares a version, dropping any tags assigned to it.
// It returns false if the version was not declared.
func (f *Family) RemoveVersion(version string) bool {
	if _, ok := f.Members[version]; !ok {
		return false
	}
	delete(f.Members, version)
	for tag, v := range f.Assigned {
		if v == version {
			delete(f.Assigned, tag)
		}
	}
	return true
}

// Versions returns the declared versions in version order.
func (f *Family) Versions() []string {
	out := make([]string, 0, len(f.Members))
	for v := range f.Members {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return vercmp.Compare(out[i], out[j]) < 0
	})
	return out
}

// Tags returns the assigned tag names, sorted.
func (f *Family) Tags() []string {
	out := make([]string, 0, len(f.Assigned))
	for t := range f.Assigned {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// AssignTag points a tag at a declared version.
func (f *Family) AssignTag(tag, version string) error {
	if !f.HasVersion(version) {
		return errors.Newf(errors.ErrProductNotFound, "%s %s is not declared", f.Name, version)
	}
	if f.Assigned == nil {
		f.Assigned = make(map[string]string)
	}
	f.Assigned[tag] = version
	return nil
}

// UnassignTag removes a tag assignment, reporting whether it existed.
func (f *Family) UnassignTag(tag string) bool {
	if _, ok := f.Assigned[tag]; !ok {
		return false
	}
	delete(f.Assigned, tag)
	return true
}

// Product materializes the Product for a declared version. db and flavor
// identify where the family lives; they are stamped onto the result.
func (f *Family) Product(version, db, flavor string) (*Product, error) {
	info, ok := f.Members[version]
	if !ok {
		return nil, errors.Newf(errors.ErrProductNotFound,
			"product %s %s not found for flavor %s", f.Name, version, flavor)
	}

	var tags []string
	for _, tag := range f.Tags() {
		if f.Assigned[tag] == version {
			tags = append(tags, tag)
		}
	}

	return &Product{
		Name:      f.Name,
		Version:   version,
		Flavor:    flavor,
		Dir:       info.Dir,
		TableFile: info.TableFile,
		Tags:      tags,
		DB:        db,
	}, nil
}

// TaggedProduct returns the product a tag points at, or false if the tag
// is not assigned.
func (f *Family) TaggedProduct(tag, db, flavor string) (*Product, bool) {
	version, ok := f.Assigned[tag]
	if !ok {
		return nil, false
	}
	p, err := f.Product(version, db, flavor)
	if err != nil {
		return nil, false
	}
	return p, true
}
