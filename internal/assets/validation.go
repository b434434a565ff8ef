package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-cardgen/internal/fileutil"
)

// ValidateAssetName checks that an asset name is a bare file name.
// Returns ErrInvalidAssetName if the name is empty or contains path
// separators, NUL bytes, or is one of the "." and ".." entries.
func ValidateAssetName(name string) error {
	if err := fileutil.ValidateBaseName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAssetName, err)
	}
	return nil
}

// ValidateAssetPath checks that name is a relative, slash-separated path
// such as "marcas/loja.png". Returns ErrInvalidAssetName for empty or
// absolute paths, backslashes, NUL bytes, and "." or ".." segments.
func ValidateAssetPath(name string) error {
	if name == "" || strings.ContainsAny(name, "\\\x00") ||
		strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	for _, segment := range strings.Split(name, "/") {
		if err := fileutil.ValidateBaseName(segment); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidAssetName, name, err)
		}
	}
	return nil
}
