// Package workspace discovers markdown files under a root directory; the
// resulting path list feeds the server's index builds and the watcher.
package workspace

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// defaultIgnoredDirs lists directory names always skipped during
// discovery, beyond any dotdirs and the caller-supplied ignore list.
var defaultIgnoredDirs = map[string]bool{
	".git":         true,
	".obsidian":    true,
	"node_modules": true,
}

func ignoredSet(extraIgnored []string) map[string]bool {
	ignored := make(map[string]bool, len(defaultIgnoredDirs)+len(extraIgnored))
	for name := range defaultIgnoredDirs {
		ignored[name] = true
	}
	for _, name := range extraIgnored {
		ignored[name] = true
	}
	return ignored
}

// Discover walks root and returns the absolute path of every markdown
// file found, skipping dotdirs and defaultIgnoredDirs. extraIgnored adds
// caller-supplied directory names (e.g. from config) to the skip list.
func Discover(root string, extraIgnored []string) ([]string, error) {
	ignored := ignoredSet(extraIgnored)

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name != "." && (strings.HasPrefix(name, ".") || ignored[name]) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(path), ".md") {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		out = append(out, abs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WalkDirs visits every non-ignored directory under root (root included),
// calling fn with each directory's path. It is used by the watcher to
// register a recursive fsnotify watch.
func WalkDirs(root string, fn func(dir string) error) error {
	ignored := ignoredSet(nil)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name != "." && (strings.HasPrefix(name, ".") || ignored[name]) {
			return fs.SkipDir
		}
		return fn(path)
	})
}
