package blob

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrNotFound = errors.New("blob not found")
	// ErrNoSignedURL is returned by backends that cannot hand out direct links.
	ErrNoSignedURL = errors.New("signed urls are not supported by this backend")
	ErrInvalidKey  = errors.New("invalid blob key")
)

// cleanKey accepts slash separated relative keys without dot segments.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}

	return path.Clean(key), nil
}
