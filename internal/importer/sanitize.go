// internal/importer/sanitize.go
package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// illegal reports characters not allowed in file names on common filesystems.
func illegal(r rune) bool {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return r < 0x20
}

// SanitizeFilename makes name safe to use as a single path element.
// Illegal characters become spaces, runs of dots and spaces collapse, and
// leading or trailing dots and spaces are trimmed.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.Map(func(r rune) rune {
		if illegal(r) {
			return ' '
		}
		return r
	}, name)

	var b strings.Builder
	var prev rune
	for _, r := range name {
		if (r == ' ' || r == '.') && r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	return strings.Trim(strings.Join(strings.Fields(b.String()), " "), " .")
}

// ValidateName checks a replacement file name typed by the user.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// ValidatePath ensures the path is within the expected root directory.
// Returns ErrPathTraversal if the path would escape the root.
func ValidatePath(path, root string) error {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrPathTraversal
	}
	return nil
}
