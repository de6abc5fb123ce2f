package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

// spyFs counts every call that reaches the filesystem
type spyFs struct {
	afero.Fs
	calls int
}

func (s *spyFs) Stat(name string) (os.FileInfo, error) { s.calls++; return s.Fs.Stat(name) }
func (s *spyFs) Open(name string) (afero.File, error)   { s.calls++; return s.Fs.Open(name) }
func (s *spyFs) Create(name string) (afero.File, error) { s.calls++; return s.Fs.Create(name) }
func (s *spyFs) Remove(name string) error               { s.calls++; return s.Fs.Remove(name) }
func (s *spyFs) RemoveAll(path string) error            { s.calls++; return s.Fs.RemoveAll(path) }
func (s *spyFs) Mkdir(name string, perm os.FileMode) error {
	s.calls++
	return s.Fs.Mkdir(name, perm)
}
func (s *spyFs) MkdirAll(path string, perm os.FileMode) error {
	s.calls++
	return s.Fs.MkdirAll(path, perm)
}
func (s *spyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	s.calls++
	return s.Fs.OpenFile(name, flag, perm)
}
func (s *spyFs) Rename(oldname, newname string) error {
	s.calls++
	return s.Fs.Rename(oldname, newname)
}

const (
	source = "/src/awesometts-release"
	target = "/home/anki/Anki/addons"
)

func testOptions() Options {
	return Options{
		AddonRoot:  "addons",
		Source:     source,
		Files:      []string{"AwesomeTTS.py", "awesometts"},
		Remove:     []string{"AwesomeTTS.py*", "awesometts"},
		Exclude:    []string{"*.pyc", "__pycache__"},
		ConfigFile: "awesometts/config.db",
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func exists(fs afero.Fs, path string) bool {
	ok, _ := afero.Exists(fs, path)
	return ok
}

// newFixture lays out a release tree and an addons directory holding an
// older installation.
func newFixture(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()

	writeFile(t, fs, source+"/AwesomeTTS.py", "from awesometts import *\n")
	writeFile(t, fs, source+"/awesometts/__init__.py", "VERSION = '1.0'\n")
	writeFile(t, fs, source+"/awesometts/service/sapi5.js", "// gateway\n")
	writeFile(t, fs, source+"/awesometts/service/__init__.pyc", "bytecode")
	writeFile(t, fs, source+"/awesometts/__pycache__/router.cpython.pyc", "bytecode")

	writeFile(t, fs, target+"/AwesomeTTS.py", "old entry point\n")
	writeFile(t, fs, target+"/AwesomeTTS.pyc", "old bytecode")
	writeFile(t, fs, target+"/awesometts/obsolete.py", "stale\n")
	writeFile(t, fs, target+"/other_addon.py", "not ours\n")

	return fs
}

func TestInstallPreservesConfig(t *testing.T) {
	fs := newFixture(t)
	config := "SQLite format 3\x00\x01\x02binary-config"
	writeFile(t, fs, target+"/awesometts/config.db", config)

	result, err := New(fs, testOptions()).Install(context.Background(), target+"/")
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if got := readFile(t, fs, target+"/awesometts/config.db"); got != config {
		t.Errorf("config.db = %q, want %q", got, config)
	}
	if !result.ConfigPreserved {
		t.Error("ConfigPreserved = false")
	}
	if result.Target != target {
		t.Errorf("Target = %q, want %q", result.Target, target)
	}
	if result.FilesCopied != 3 {
		t.Errorf("FilesCopied = %d, want 3", result.FilesCopied)
	}

	if got := readFile(t, fs, target+"/AwesomeTTS.py"); got != "from awesometts import *\n" {
		t.Errorf("AwesomeTTS.py = %q", got)
	}
	if !exists(fs, target+"/awesometts/service/sapi5.js") {
		t.Error("nested file not copied")
	}
	for _, gone := range []string{
		target + "/AwesomeTTS.pyc",
		target + "/awesometts/obsolete.py",
		target + "/awesometts/service/__init__.pyc",
		target + "/awesometts/__pycache__",
	} {
		if exists(fs, gone) {
			t.Errorf("%s should not exist", gone)
		}
	}
	if !exists(fs, target+"/other_addon.py") {
		t.Error("unrelated add-on was removed")
	}

	// No backup left in the temp directory
	leftovers, _ := afero.Glob(fs, filepath.Join(os.TempDir(), "awesometts-config-*"))
	if len(leftovers) != 0 {
		t.Errorf("backup files left behind: %v", leftovers)
	}
}

func TestInstallWithoutConfig(t *testing.T) {
	fs := newFixture(t)

	result, err := New(fs, testOptions()).Install(context.Background(), target)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if result.ConfigPreserved {
		t.Error("ConfigPreserved = true without a config file")
	}
	if exists(fs, target+"/awesometts/config.db") {
		t.Error("config.db appeared from nowhere")
	}

	sort.Strings(result.Removed)
	want := []string{target + "/AwesomeTTS.py", target + "/AwesomeTTS.pyc", target + "/awesometts"}
	if len(result.Removed) != len(want) {
		t.Fatalf("Removed = %v, want %v", result.Removed, want)
	}
	for i := range want {
		if result.Removed[i] != want[i] {
			t.Errorf("Removed[%d] = %q, want %q", i, result.Removed[i], want[i])
		}
	}
}

func TestInstallWrongRootTouchesNothing(t *testing.T) {
	for _, raw := range []string{"", "   ", "/home/anki/Anki", "/home/anki/addons-old", "/home/anki/Anki/addons/awesometts"} {
		t.Run(raw, func(t *testing.T) {
			spy := &spyFs{Fs: newFixture(t)}

			_, err := New(spy, testOptions()).Install(context.Background(), raw)
			if !errors.Is(err, ErrWrongRoot) && !errors.Is(err, ErrMissingTarget) {
				t.Fatalf("Install(%q) error = %v", raw, err)
			}
			if spy.calls != 0 {
				t.Errorf("filesystem touched %d times", spy.calls)
			}
		})
	}
}

func TestInstallPreconditionsDoNotMutate(t *testing.T) {
	t.Run("target missing", func(t *testing.T) {
		fs := newFixture(t)
		_, err := New(fs, testOptions()).Install(context.Background(), "/nowhere/addons")
		if !errors.Is(err, ErrNotDirectory) {
			t.Fatalf("Install() error = %v, want ErrNotDirectory", err)
		}
	})

	t.Run("target is a file", func(t *testing.T) {
		fs := newFixture(t)
		writeFile(t, fs, "/tmp/file/addons", "x")
		_, err := New(fs, testOptions()).Install(context.Background(), "/tmp/file/addons")
		if !errors.Is(err, ErrNotDirectory) {
			t.Fatalf("Install() error = %v, want ErrNotDirectory", err)
		}
	})

	t.Run("source incomplete", func(t *testing.T) {
		fs := newFixture(t)
		if err := fs.Remove(source + "/AwesomeTTS.py"); err != nil {
			t.Fatal(err)
		}

		if _, err := New(fs, testOptions()).Install(context.Background(), target); err == nil {
			t.Fatal("Install() succeeded with a missing source file")
		}
		if got := readFile(t, fs, target+"/AwesomeTTS.py"); got != "old entry point\n" {
			t.Error("old installation was modified")
		}
	})
}

// cancelAfter reports cancellation once Err has been called n times
type cancelAfter struct {
	context.Context
	n int
}

func (c *cancelAfter) Err() error {
	if c.n <= 0 {
		return context.Canceled
	}
	c.n--
	return nil
}

func TestInstallCancelledBeforeStartTouchesNothing(t *testing.T) {
	fs := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(fs, testOptions()).Install(ctx, target); !errors.Is(err, context.Canceled) {
		t.Fatalf("Install() error = %v, want context.Canceled", err)
	}
	if got := readFile(t, fs, target+"/AwesomeTTS.py"); got != "old entry point\n" {
		t.Error("old installation was modified")
	}
}

func TestInstallCancelledStillRestoresConfig(t *testing.T) {
	fs := newFixture(t)
	writeFile(t, fs, target+"/awesometts/config.db", "keep me")

	// Interrupted once copying has begun
	ctx := &cancelAfter{Context: context.Background(), n: 2}

	result, err := New(fs, testOptions()).Install(ctx, target)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Install() error = %v, want context.Canceled", err)
	}
	if got := readFile(t, fs, target+"/awesometts/config.db"); got != "keep me" {
		t.Errorf("config.db = %q after cancellation", got)
	}
	if !result.ConfigPreserved {
		t.Error("ConfigPreserved = false after restore")
	}
}

func TestUninstall(t *testing.T) {
	t.Run("keeps config", func(t *testing.T) {
		fs := newFixture(t)
		writeFile(t, fs, target+"/awesometts/config.db", "settings")

		result, err := New(fs, testOptions()).Uninstall(context.Background(), target, false)
		if err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if exists(fs, target+"/AwesomeTTS.py") || exists(fs, target+"/awesometts/obsolete.py") {
			t.Error("installed files survived uninstall")
		}
		if got := readFile(t, fs, target+"/awesometts/config.db"); got != "settings" {
			t.Errorf("config.db = %q", got)
		}
		if !result.ConfigPreserved {
			t.Error("ConfigPreserved = false")
		}
	})

	t.Run("purge", func(t *testing.T) {
		fs := newFixture(t)
		writeFile(t, fs, target+"/awesometts/config.db", "settings")

		result, err := New(fs, testOptions()).Uninstall(context.Background(), target, true)
		if err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if exists(fs, target+"/awesometts") {
			t.Error("purge left the add-on directory behind")
		}
		if result.ConfigPreserved {
			t.Error("ConfigPreserved = true on purge")
		}
	})
}

func TestResultString(t *testing.T) {
	r := Result{Target: target, FilesCopied: 12, BytesCopied: 34000}
	if got := r.String(); got != "12 files (34 kB) into "+target {
		t.Errorf("String() = %q", got)
	}
}
