package rules

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Discover walks root recursively and returns the directories containing a
// rule-set file, in lexical walk order. At least one governed folder must
// exist; none is a fatal condition for the run.
func Discover(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absRoot)
	}

	var dirs []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && d.Name() == FileName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", absRoot, err)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no %s found under %s", FileName, absRoot)
	}
	return dirs, nil
}
