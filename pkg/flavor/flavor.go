// Package flavor identifies the platform flavor a product stack is built
// for and resolves the fallback flavors consulted when a product has not
// been declared for the native one.
package flavor

import (
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/upstack-sh/upstack/pkg/errors"
)

// EnvFlavor overrides platform detection entirely.
const EnvFlavor = "UPSTACK_FLAVOR"

// Well-known flavors.
const (
	Linux     = "Linux"
	Linux64   = "Linux64"
	Darwin    = "Darwin"
	DarwinX86 = "DarwinX86"

	// Null and Generic are the default fallbacks consulted for any
	// flavor without a product of its own.
	Null    = "NULL"
	Generic = "Generic"
)

// Current returns the native flavor. The UPSTACK_FLAVOR environment
// variable wins over platform detection.
func Current() (string, error) {
	if f := os.Getenv(EnvFlavor); f != "" {
		return f, nil
	}
	return FromPlatform(runtime.GOOS, runtime.GOARCH)
}

// FromPlatform maps an OS and architecture pair to a flavor name.
func FromPlatform(goos, goarch string) (string, error) {
	switch goos {
	case "linux":
		if strings.HasSuffix(goarch, "64") {
			return Linux64, nil
		}
		return Linux, nil
	case "darwin":
		if goarch == "386" || goarch == "amd64" {
			return DarwinX86, nil
		}
		return Darwin, nil
	}
	return "", errors.Newf(errors.ErrFlavorUnknown, "unknown flavor: (%s, %s)", goos, goarch)
}

var (
	fallbackMu sync.RWMutex
	fallbacks  = map[string][]string{
		// The empty key holds the defaults used for any flavor without
		// an explicit fallback list.
		"": {Null, Generic},
	}
)

// SetFallbacks registers the list of flavors to try when a product cannot
// be found under the given flavor. An empty flavor sets the defaults.
func SetFallbacks(flavor string, list []string) {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	fallbacks[flavor] = append([]string(nil), list...)
}

// Fallbacks returns the alternative flavors to consult for the given
// flavor. With includeSelf set, the flavor itself leads the list.
func Fallbacks(flavor string, includeSelf bool) []string {
	fallbackMu.RLock()
	list, ok := fallbacks[flavor]
	if !ok {
		list = fallbacks[""]
	}
	out := make([]string, 0, len(list)+1)
	if flavor != "" && includeSelf {
		out = append(out, flavor)
	}
	out = append(out, list...)
	fallbackMu.RUnlock()
	return out
}
