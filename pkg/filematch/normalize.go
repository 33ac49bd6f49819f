package filematch

import (
	"path/filepath"
	"strings"
)

// NormalizePath keeps only the plain name components of p, in order, joined with "/".
// Volume names, the root, "." and ".." are dropped, so "./schemas/../a.capnp" becomes
// "schemas/a.capnp" and "/" becomes "". The result is what patterns are matched against
// and what module names are derived from.
//
// NormalizePath is idempotent.
func NormalizePath(p string) string {
	p = p[len(filepath.VolumeName(p)):]

	parts := strings.FieldsFunc(p, isSeparator)
	kept := parts[:0]
	for _, part := range parts {
		if part == "." || part == ".." {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "/")
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
