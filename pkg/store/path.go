package store

import (
	"fmt"
	"strings"
)

// ValidatePath checks an entry or folder path for structural validity.
// A path is valid iff it is non-empty, does not start with '/', does not
// end with '/', and contains no '..' segment. Pure function, no I/O.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidPath)
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q starts with '/'", ErrInvalidPath, path)
	}
	if strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: %q ends with '/'", ErrInvalidPath, path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q contains '..'", ErrInvalidPath, path)
		}
	}
	return nil
}
