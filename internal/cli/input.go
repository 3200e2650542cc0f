package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CLI-level error codes. Transformer codes (E001, E002, E010, E1xx) come
// from the query, interchange and validate packages.
const (
	ErrCodeGeneric     = "E020" // Generic/unknown error
	ErrCodeNotFound    = "E021" // Path not found
	ErrCodeReadFailed  = "E022" // Input could not be read
	ErrCodeConfig      = "E023" // Invalid configuration
	ErrCodeCasesFailed = "E_CASES_FAILED"
)

// StdinPath names standard input as a command argument.
const StdinPath = "-"

// LoadError represents an error that occurred while reading command input.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// readInput reads a whole document from path, or from stdin when path is
// empty or "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading stdin: %v", err)}
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "file not found", Path: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: err.Error(), Path: path}
	}
	return data, nil
}

// findCaseFiles finds all YAML case files under dir, optionally filtered by
// a glob matched against the file name without extension.
func findCaseFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Golden snapshots live beside the cases and are not suites.
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}
