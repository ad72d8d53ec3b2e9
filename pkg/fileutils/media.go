package fileutils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FindMediaFiles lists the regular files directly inside dir whose name
// contains code and whose extension is one of exts, ignoring case for the
// extension. Results are sorted by name.
func FindMediaFiles(dir, code string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if code != "" && !strings.Contains(name, code) {
			continue
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}
