// Package product defines the products tracked by a stack database: a
// product is one version of a named piece of software declared for a
// platform flavor.
package product

// Placeholder table-file names accepted by declarations that have no real
// table file.
const (
	PlaceholderNone    = "none"
	PlaceholderUnknown = "???"
)

// Product describes one declared version of a product.
type Product struct {
	Name      string   `toml:"name" yaml:"name"`
	Version   string   `toml:"version" yaml:"version"`
	Flavor    string   `toml:"flavor" yaml:"flavor"`
	Dir       string   `toml:"dir,omitempty" yaml:"dir,omitempty"`
	TableFile string   `toml:"table,omitempty" yaml:"table,omitempty"`
	Tags      []string `toml:"tags,omitempty" yaml:"tags,omitempty"`

	// DB is the stack database the product was looked up in. Set on
	// products returned from a stack, empty on fresh declarations.
	DB string `toml:"-" yaml:"-"`
}

// IsFullySpecified reports whether the product carries the name, version
// and flavor that registration requires.
func (p *Product) IsFullySpecified() bool {
	return p != nil && p.Name != "" && p.Version != "" && p.Flavor != ""
}

// HasTag reports whether the product carries the given tag.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsRealFilename reports whether name names an actual file rather than a
// placeholder. The file need not exist.
func IsRealFilename(name string) bool {
	switch name {
	case "", PlaceholderNone, PlaceholderUnknown:
		return false
	}
	return true
}
