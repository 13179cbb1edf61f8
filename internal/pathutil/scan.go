package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nvandessel/fits-pipeline/internal/models"
)

// FileEntry is an image file discovered in a data directory.
type FileEntry struct {
	// Path is dir joined with Name.
	Path string
	Name string
	Size int64
}

// ListFITS returns the *.fits regular files directly inside dir, sorted by
// name. A missing directory yields an empty list and no error.
func ListFITS(dir string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var files []FileEntry
	for _, e := range entries {
		if e.IsDir() || !models.IsFITSName(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileEntry{
			Path: path,
			Name: e.Name(),
			Size: info.Size(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// CountFITS returns the number of image files ListFITS would return.
func CountFITS(dir string) (int, error) {
	files, err := ListFITS(dir)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}
