// Package vercmp orders product version strings.
//
// Versions take the form VVV[-EEE][+FFF]: a primary part with optional
// pre-release ("-") and patch ("+") suffixes. The shorthand VVVm# and VVVp#
// is accepted for the "-" and "+" forms. Primary parts are compared
// component-wise on "." and "_" boundaries, numerically where both
// components are numeric (a shared non-digit prefix such as "rc" is
// stripped first). A version carrying a "-" suffix sorts before the bare
// version; a "+" suffix sorts after it. Otherwise-equal versions with more
// components sort later.
package vercmp

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	partsRe  = regexp.MustCompile(`^([^-+]+)(?:-([^-+]+))?(?:\+([^-+]+))?`)
	mpRe     = regexp.MustCompile(`(m(\d+)|p(\d+))$`)
	prefixRe = regexp.MustCompile(`^([^0-9]+)`)
	numSufRe = regexp.MustCompile(`^([^\d]+)(\d+)$`)
	splitRe  = regexp.MustCompile(`[._]`)
)

// Compare orders two version strings, returning -1, 0 or +1.
func Compare(a, b string) int {
	return compare(a, b, false)
}

// compare does the work; suffix is true when comparing the EEE/FFF parts,
// which skips the leading-prefix reconciliation.
func compare(v1, v2 string, suffix bool) int {
	prim1, sec1, ter1 := splitVersion(v1)
	prim2, sec2, ter2 := splitVersion(v2)

	if prim1 == prim2 {
		if sec1 == "" && sec2 == "" && ter1 == "" && ter2 == "" {
			return 0
		}
		if sec1 != "" || sec2 != "" {
			if sec1 == "" {
				return 1
			}
			if sec2 == "" {
				return -1
			}
			if ret := compare(sec1, sec2, true); ret != 0 {
				return ret
			}
		}
		return compare(ter1, ter2, true)
	}

	c1 := splitRe.Split(prim1, -1)
	c2 := splitRe.Split(prim2, -1)

	// Leading non-numeric parts must agree; the shorter prefix decides.
	if !suffix {
		prefix1 := leadingNonDigits(c1[0])
		prefix2 := leadingNonDigits(c2[0])

		if len(prefix1) > len(prefix2) {
			if !strings.HasPrefix(c1[0], prefix2) {
				return 1
			}
			c1[0] = strings.TrimPrefix(c1[0], prefix2)
			c2[0] = strings.TrimPrefix(c2[0], prefix2)
		} else {
			if !strings.HasPrefix(c2[0], prefix1) {
				return -1
			}
			c1[0] = strings.TrimPrefix(c1[0], prefix1)
			c2[0] = strings.TrimPrefix(c2[0], prefix1)
		}
	}

	n := len(c1)
	if len(c2) < n {
		n = len(c2)
	}
	for i := 0; i < n; i++ {
		if d := compareComponent(c1[i], c2[i]); d != 0 {
			return d
		}
	}

	// Identical so far; the longer version sorts later.
	return cmpInt(len(c1), len(c2))
}

// splitVersion breaks a version into primary, "-" and "+" parts.
func splitVersion(v string) (prim, sec, ter string) {
	if v == "" {
		return "", "", ""
	}
	if strings.Count(v, "-") >= 2 {
		// A version such as rel-0-8-2 with more than one hyphen is
		// treated as a single primary part.
		return v, "", ""
	}

	if m := partsRe.FindStringSubmatch(v); m != nil {
		prim, sec, ter = m[1], m[2], m[3]
	} else {
		prim = v
	}

	// Maybe they used VVVm# or VVVp#.
	if sec == "" && ter == "" {
		if m := mpRe.FindStringSubmatch(v); m != nil {
			if strings.HasPrefix(m[1], "m") {
				sec = m[2]
			} else {
				ter = m[3]
			}
			prim = strings.TrimSuffix(v, m[1])
		}
	}
	return prim, sec, ter
}

// compareComponent compares two primary-part components numerically when
// both are numeric, after stripping a shared non-digit prefix (rc2 vs
// rc10), and lexically otherwise.
func compareComponent(a, b string) int {
	if m := numSufRe.FindStringSubmatch(a); m != nil {
		if rest := strings.TrimPrefix(b, m[1]); rest != b && rest != "" {
			if bn, err := strconv.Atoi(rest); err == nil {
				an, _ := strconv.Atoi(m[2])
				return cmpInt(an, bn)
			}
		}
	}

	if an, err := strconv.Atoi(a); err == nil {
		if bn, err := strconv.Atoi(b); err == nil {
			return cmpInt(an, bn)
		}
	}
	return strings.Compare(a, b)
}

func leadingNonDigits(s string) string {
	if m := prefixRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
