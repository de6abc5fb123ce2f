package installer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// copyFile copies src to dst, creating parent directories.
func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) (int64, error) {
	in, err := fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return n, out.Close()
}

// backup is a configuration file saved outside the add-on tree
type backup struct {
	fs     afero.Fs
	path   string // temporary copy
	target string // where it goes back to
	perm   os.FileMode
}

// backupConfig copies the configuration file, if present, to a temporary
// location. A nil backup means there was nothing to keep.
func (in *Installer) backupConfig(target string) (*backup, error) {
	if in.opts.ConfigFile == "" {
		return nil, nil
	}

	configPath := filepath.Join(target, in.opts.ConfigFile)
	info, err := in.fs.Stat(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", configPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("configuration path %s is a directory", configPath)
	}

	tmp, err := afero.TempFile(in.fs, "", "awesometts-config-*.bak")
	if err != nil {
		return nil, fmt.Errorf("failed to create configuration backup: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if _, err := copyFile(in.fs, configPath, tmpPath, 0600); err != nil {
		in.fs.Remove(tmpPath)
		return nil, fmt.Errorf("failed to back up configuration: %w", err)
	}

	in.log.WithField("backup", tmpPath).Info("configuration backed up")

	return &backup{fs: in.fs, path: tmpPath, target: configPath, perm: info.Mode().Perm()}, nil
}

// restore puts the configuration back through a sibling temp file and a
// rename. On failure the backup is left where it is and named in the error.
func (b *backup) restore() error {
	staging := b.target + ".restore"

	if _, err := copyFile(b.fs, b.path, staging, b.perm); err != nil {
		b.fs.Remove(staging)
		return fmt.Errorf("failed to restore configuration, a copy is kept at %s: %w", b.path, err)
	}
	if err := b.fs.Rename(staging, b.target); err != nil {
		b.fs.Remove(staging)
		return fmt.Errorf("failed to restore configuration, a copy is kept at %s: %w", b.path, err)
	}

	return b.fs.Remove(b.path)
}
