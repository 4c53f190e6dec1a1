// Package pathlist normalizes colon-separated search paths.
//
// A search path is an ordered list of directories where earlier entries win.
// This package deduplicates entries (first occurrence kept) and guarantees
// that a required directory is present, prepending it only when missing so
// that an existing placement chosen by the user is respected.
package pathlist

import "strings"

// Separator joins and splits search-path entries.
const Separator = ":"

// Split breaks a raw search path into its entries, dropping empty and
// whitespace-only segments and later duplicates. The relative order of
// first occurrences is preserved.
func Split(rawPath string) []string {
	segments := strings.Split(rawPath, Separator)
	seen := make(map[string]struct{}, len(segments))
	entries := make([]string, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		if _, ok := seen[seg]; ok {
			continue
		}
		seen[seg] = struct{}{}
		entries = append(entries, seg)
	}
	return entries
}

// Build normalizes rawPath via Split and guarantees that required is
// present. A missing required entry is prepended; an entry that already
// occurs keeps its position.
func Build(rawPath, required string) []string {
	entries := Split(rawPath)
	if required == "" {
		return entries
	}
	for _, e := range entries {
		if e == required {
			return entries
		}
	}
	return append([]string{required}, entries...)
}

// Join renders entries back into a single search-path string.
func Join(entries []string) string {
	return strings.Join(entries, Separator)
}
