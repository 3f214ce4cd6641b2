package adapters

import (
	"path/filepath"
	"strings"
)

func safeLine(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// cleanPath normalizes tool-reported paths (leading /, ./, ../ noise) so
// identities stay stable no matter where the scan ran.
func cleanPath(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
