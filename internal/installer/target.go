package installer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
)

var (
	ErrMissingTarget = errors.New("please specify your addons directory")
	ErrWrongRoot     = errors.New("target path does not end in the add-on root")
	ErrNotDirectory  = errors.New("target is not an existing directory")
)

// ValidateTarget checks the user-supplied addons path and returns it in
// absolute form. The suffix check is purely textual, so a wrong path is
// rejected before the filesystem is consulted.
func ValidateTarget(fs afero.Fs, raw, root string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrMissingTarget
	}

	trimmed := strings.TrimRight(raw, `/\`)
	if trimmed == "" || filepath.Base(filepath.FromSlash(trimmed)) != root {
		return "", fmt.Errorf("%w: expected %q to end in %q", ErrWrongRoot, raw, root)
	}

	expanded, err := homedir.Expand(trimmed)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", raw, err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", raw, err)
	}

	info, err := fs.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	return abs, nil
}
