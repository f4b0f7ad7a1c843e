// Package lutgendir resolves the one user-configurable directory the spec
// names: $LUTGEN_DIR, or else the OS config directory's "lutgen"
// subdirectory. Both the config loader (internal/config) and the custom
// palette loader (internal/catalog) read from it.
package lutgendir

import (
	"os"
	"path/filepath"
)

// Dir returns the directory lutgen reads user overrides from: $LUTGEN_DIR
// if set, otherwise os.UserConfigDir()/lutgen. It does not create the
// directory; callers that write to it (none do today) are responsible for
// that themselves.
func Dir() (string, error) {
	if v := os.Getenv("LUTGEN_DIR"); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "lutgen"), nil
}

// CacheDir returns the platform cache directory's "lutgen" subdirectory,
// used by internal/cache (C9).
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "lutgen"), nil
}
