// internal/importer/files.go
package importer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// FindAllFiles returns every regular file below root, sorted by path.
// The caller owns the returned slice.
func FindAllFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
