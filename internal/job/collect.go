// Package job finds the files to process and runs each of them through a container.
package job

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the file extension given to encrypted files.
const Ext = ".xrc"

var ErrNotContainer = errors.New("file does not have the " + Ext + " extension")

// Collect expands paths into the list of files to process.
// Files named directly are always included. Files found in a directory are included only if they match the operation,
// so encrypting skips files that already have the Ext extension, and decrypting skips files that don't.
// Subdirectories are only searched when recursive is true. Paths that can't be read are reported in the returned error,
// but don't prevent the rest from being collected.
func Collect(paths []string, recursive, encrypt bool) ([]string, error) {
	var (
		files []string
		seen  = map[string]bool{}
		errs  []error
	)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		files = append(files, abs)
	}
	matches := func(path string) bool {
		return strings.HasSuffix(path, Ext) != encrypt
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("unable to read '%s': %w", path, err))
			continue
		}
		if info.Mode().IsRegular() {
			add(path)
			continue
		}
		if !info.IsDir() {
			continue
		}
		if !recursive {
			entries, err := os.ReadDir(path)
			if err != nil {
				errs = append(errs, fmt.Errorf("unable to read directory '%s': %w", path, err))
				continue
			}
			for _, entry := range entries {
				if entry.Type().IsRegular() && matches(entry.Name()) {
					add(filepath.Join(path, entry.Name()))
				}
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				errs = append(errs, fmt.Errorf("unable to read '%s': %w", p, err))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && matches(d.Name()) {
				add(p)
			}
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return files, errors.Join(errs...)
}

// DestPath returns the path that the result of processing path is written to.
// Encrypting appends Ext, and decrypting removes it.
func DestPath(path string, encrypt bool) (string, error) {
	if encrypt {
		return path + Ext, nil
	}
	dest, ok := strings.CutSuffix(path, Ext)
	if !ok || dest == "" || strings.HasSuffix(dest, string(filepath.Separator)) {
		return "", fmt.Errorf("%w: '%s'", ErrNotContainer, path)
	}
	return dest, nil
}
