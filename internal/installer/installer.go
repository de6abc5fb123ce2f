// Package installer places the add-on files into a host application's
// addons directory while keeping the user's configuration file.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options describes the add-on layout
type Options struct {
	// AddonRoot is the directory name the target path must end with
	AddonRoot string
	// Source holds the files to install
	Source string
	// Files are source-relative files or directories copied on install
	Files []string
	// Remove are target-relative glob patterns deleted before copying
	Remove []string
	// Exclude are base-name glob patterns never copied
	Exclude []string
	// ConfigFile is the target-relative path preserved across installs
	ConfigFile string
}

// Result summarises one install or uninstall
type Result struct {
	Target          string
	Removed         []string
	FilesCopied     int
	BytesCopied     int64
	ConfigPreserved bool
}

func (r Result) String() string {
	return fmt.Sprintf("%d files (%s) into %s", r.FilesCopied, humanize.Bytes(uint64(r.BytesCopied)), r.Target)
}

// Installer copies the add-on into an addons directory
type Installer struct {
	fs   afero.Fs
	opts Options
	log  *logrus.Entry
}

func New(fs afero.Fs, opts Options) *Installer {
	return &Installer{
		fs:   fs,
		opts: opts,
		log:  logrus.WithField("component", "installer"),
	}
}

// Install validates target, removes any previous installation and copies
// the add-on files, keeping an existing configuration file byte-for-byte.
func (in *Installer) Install(ctx context.Context, rawTarget string) (result Result, err error) {
	target, err := ValidateTarget(in.fs, rawTarget, in.opts.AddonRoot)
	if err != nil {
		return Result{}, err
	}
	if err := in.checkSource(); err != nil {
		return Result{}, err
	}

	result.Target = target
	log := in.log.WithField("target", target)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	saved, err := in.backupConfig(target)
	if err != nil {
		return result, err
	}
	if saved != nil {
		defer func() {
			restoreErr := saved.restore()
			if restoreErr == nil {
				result.ConfigPreserved = true
			}
			err = errors.Join(err, restoreErr)
		}()
	}

	result.Removed, err = in.removeInstalled(target)
	if err != nil {
		return result, err
	}

	for _, entry := range in.opts.Files {
		files, bytes, err := in.copyTree(ctx, filepath.Join(in.opts.Source, entry), filepath.Join(target, entry))
		result.FilesCopied += files
		result.BytesCopied += bytes
		if err != nil {
			return result, err
		}
	}

	log.WithFields(logrus.Fields{
		"files": result.FilesCopied,
		"bytes": result.BytesCopied,
	}).Info("add-on installed")

	return result, nil
}

// Uninstall removes the installed files. Unless purge is set the
// configuration file is put back in place afterwards.
func (in *Installer) Uninstall(ctx context.Context, rawTarget string, purge bool) (result Result, err error) {
	target, err := ValidateTarget(in.fs, rawTarget, in.opts.AddonRoot)
	if err != nil {
		return Result{}, err
	}
	result.Target = target

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if !purge {
		saved, backupErr := in.backupConfig(target)
		if backupErr != nil {
			return result, backupErr
		}
		if saved != nil {
			defer func() {
				restoreErr := saved.restore()
				if restoreErr == nil {
					result.ConfigPreserved = true
				}
				err = errors.Join(err, restoreErr)
			}()
		}
	}

	result.Removed, err = in.removeInstalled(target)
	if err != nil {
		return result, err
	}

	in.log.WithFields(logrus.Fields{
		"target":  target,
		"removed": len(result.Removed),
		"purge":   purge,
	}).Info("add-on uninstalled")

	return result, nil
}

// checkSource confirms every file to install exists before anything in
// the target is touched.
func (in *Installer) checkSource() error {
	if len(in.opts.Files) == 0 {
		return errors.New("no add-on files configured")
	}
	for _, entry := range in.opts.Files {
		path := filepath.Join(in.opts.Source, entry)
		if _, err := in.fs.Stat(path); err != nil {
			return fmt.Errorf("missing add-on source %s: %w", path, err)
		}
	}
	return nil
}

func (in *Installer) removeInstalled(target string) ([]string, error) {
	var removed []string

	for _, pattern := range in.opts.Remove {
		matches, err := afero.Glob(in.fs, filepath.Join(target, pattern))
		if err != nil {
			return removed, fmt.Errorf("bad remove pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if err := in.fs.RemoveAll(match); err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", match, err)
			}
			in.log.WithField("path", match).Debug("removed")
			removed = append(removed, match)
		}
	}

	return removed, nil
}

func (in *Installer) excluded(name string) bool {
	for _, pattern := range in.opts.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// copyTree copies src (file or directory) to dst.
func (in *Installer) copyTree(ctx context.Context, src, dst string) (int, int64, error) {
	var files int
	var total int64

	err := afero.Walk(in.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if path != src && in.excluded(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)

		if info.IsDir() {
			return in.fs.MkdirAll(out, 0755)
		}

		n, err := copyFile(in.fs, path, out, info.Mode().Perm())
		if err != nil {
			return err
		}
		files++
		total += n
		in.log.WithField("path", out).Debug("copied")
		return nil
	})

	return files, total, err
}
