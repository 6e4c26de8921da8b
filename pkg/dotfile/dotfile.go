// Package dotfile reads and writes the `.lamctl` file: a single line
// holding the default function name for a directory tree.
package dotfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lamtools/lamctl/lamapi"
)

// Name is the dotfile's filename.
const Name = ".lamctl"

// Find looks for a dotfile on the filesystem and returns the path of the
// first one found, searching directories upward.
//
// It searches from `join(basisPath,searchPath)` up to `basisPath`
// (in other words, it won't search above basisPath).
// Invoking it with an empty string for `basisPath` and cwd for `searchPath`
// is typical.
//
// If no dotfile is found, it returns an empty path and nil error.
//
// An fsys handle is required, but is typically `os.DirFS("/")` outside of
// tests.
//
// Errors:
//
//    - lamctl-error-io -- when an unexpected error occurs traversing the search path
func Find(fsys fs.FS, basisPath, searchPath string) (path string, err error) {
	searchAt := searchPath
	for {
		candidate := filepath.Join(basisPath, searchAt, Name)
		f, err := fsys.Open(candidate)
		if f != nil {
			f.Close()
		}
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			searchAt = filepath.Dir(searchAt)
			if searchAt == "/" || searchAt == "." {
				return "", nil
			}
			continue
		}
		return "", lamapi.ErrorIo("searching for dotfile", candidate, err)
	}
}

// Read parses the dotfile at path.  The content must be exactly one
// function name, optionally followed by a trailing newline.
//
// Errors:
//
//    - lamctl-error-missing -- when no file exists at path
//    - lamctl-error-io -- when the file cannot be read
//    - lamctl-error-parse -- when the content is not a single function name
func Read(fsys fs.FS, path string) (lamapi.FunctionName, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", lamapi.ErrorFileMissing(path)
		}
		return "", lamapi.ErrorIo("reading dotfile", path, err)
	}
	content := strings.TrimSuffix(string(data), "\n")
	if content == "" || strings.ContainsAny(content, "\n\r \t") {
		return "", lamapi.ErrorParse("reading dotfile",
			fmt.Errorf("%s must contain a single function name", path))
	}
	return lamapi.FunctionName(content), nil
}

// Write records fn as the default function for dir.  An existing dotfile
// is only replaced when force is set.
//
// Errors:
//
//    - lamctl-error-already-exists -- when a dotfile exists and force is not set
//    - lamctl-error-io -- when the file cannot be written
func Write(dir string, fn lamapi.FunctionName, force bool) error {
	path := filepath.Join(dir, Name)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return lamapi.ErrorFileAlreadyExists(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return lamapi.ErrorIo("checking for dotfile", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(string(fn)+"\n"), 0644); err != nil {
		return lamapi.ErrorIo("writing dotfile", path, err)
	}
	return nil
}
