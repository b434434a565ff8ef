package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-cardgen/internal/fileutil"
)

// FilesystemLoader reads files from a single directory on the filesystem.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks in base path for consistent comparisons.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// BasePath returns the resolved absolute directory the loader reads from.
func (f *FilesystemLoader) BasePath() string {
	return f.basePath
}

// Read returns the content of {basePath}/{name}.
// Returns ErrInvalidAssetName for names that are not bare file names,
// ErrPathTraversal when the resolved path leaves basePath, ErrAssetNotFound
// when nothing readable exists there, and ErrAssetRead for other I/O errors.
func (f *FilesystemLoader) Read(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return f.read(name)
}

// ReadPath is Read for a relative path below basePath, e.g.
// "marcas/loja.png". Names are validated with ValidateAssetPath.
func (f *FilesystemLoader) ReadPath(name string) ([]byte, error) {
	if err := ValidateAssetPath(name); err != nil {
		return nil, err
	}
	return f.read(name)
}

func (f *FilesystemLoader) read(name string) ([]byte, error) {
	filePath := filepath.Join(f.basePath, filepath.FromSlash(name))
	if !fileutil.Within(f.basePath, filePath) {
		return nil, fmt.Errorf("%w: %q escapes base directory", ErrPathTraversal, name)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %q is a directory", ErrAssetNotFound, name)
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return content, nil
}
