// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"installbuilder-cli/pkg/datafile"

	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

// ErrSymlinkUnsupported is returned when the staging filesystem cannot create links.
var ErrSymlinkUnsupported = errors.New("filesystem does not support symlinks")

type (
	// Options configures a Stager.
	Options struct {
		// BaseDir is the root that Files base locations are resolved against.
		BaseDir string
		// StagingDir is the root of the staging tree.
		StagingDir string
		// Clean removes StagingDir before staging.
		Clean bool
		// Exclude holds gitignore-style patterns matched against base locations.
		Exclude []string
		// Fs defaults to the OS filesystem.
		Fs afero.Fs
		// Logger defaults to a discarding logger.
		Logger *log.Logger
	}

	// Stager copies an evaluated manifest into a staging tree.
	Stager struct {
		opts    Options
		fs      afero.Fs
		logger  *log.Logger
		exclude *ignore.GitIgnore
	}

	// Result counts the staged entries.
	Result struct {
		Directories int
		Files       int
		Links       int
		// Excluded lists the base locations skipped by exclude patterns.
		Excluded []string
	}

	// EntryError reports the manifest entry that failed to stage.
	EntryError struct {
		Kind   string
		Staged string
		Err    error
	}
)

// New returns a Stager for opts. BaseDir and StagingDir are required.
func New(opts Options) (*Stager, error) {
	if opts.BaseDir == "" {
		return nil, errors.New("staging: base directory is required")
	}
	if opts.StagingDir == "" {
		return nil, errors.New("staging: staging directory is required")
	}

	s := &Stager{opts: opts, fs: opts.Fs, logger: opts.Logger}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if len(opts.Exclude) > 0 {
		s.exclude = ignore.CompileIgnoreLines(opts.Exclude...)
	}
	return s, nil
}

// Stage creates the staging tree for m. Directories are created first, then
// files are copied, then links are created. The first failure aborts staging.
func (s *Stager) Stage(ctx context.Context, m *datafile.Manifest) (*Result, error) {
	if s.opts.Clean {
		s.logger.Debug("cleaning staging directory", "dir", s.opts.StagingDir)
		if err := s.fs.RemoveAll(s.opts.StagingDir); err != nil {
			return nil, fmt.Errorf("clean staging directory: %w", err)
		}
	}
	if err := s.fs.MkdirAll(s.opts.StagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	res := &Result{}

	for _, d := range m.Directories {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.fs.MkdirAll(s.stagedPath(d.StagedLocation), 0o755); err != nil {
			return res, &EntryError{Kind: "directory", Staged: d.StagedLocation, Err: err}
		}
		res.Directories++
	}

	for _, f := range m.Files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if s.excluded(f.BaseLocation) {
			s.logger.Info("excluded", "file", f.BaseLocation)
			res.Excluded = append(res.Excluded, f.BaseLocation)
			continue
		}
		if err := s.copyFile(s.basePath(f.BaseLocation), s.stagedPath(f.StagedLocation)); err != nil {
			return res, &EntryError{Kind: "file", Staged: f.StagedLocation, Err: err}
		}
		s.logger.Debug("staged file", "src", f.BaseLocation, "dst", f.StagedLocation)
		res.Files++
	}

	for _, l := range m.Links {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.link(l.BaseLocation, s.stagedPath(l.StagedLocation)); err != nil {
			return res, &EntryError{Kind: "link", Staged: l.StagedLocation, Err: err}
		}
		res.Links++
	}

	s.logger.Info("staging complete", "directories", res.Directories, "files", res.Files, "links", res.Links)
	return res, nil
}

// stagedPath maps a staged location such as /opt/app/bin onto the staging tree.
func (s *Stager) stagedPath(staged string) string {
	return filepath.Join(s.opts.StagingDir, filepath.FromSlash(staged))
}

func (s *Stager) basePath(base string) string {
	base = filepath.FromSlash(base)
	if filepath.IsAbs(base) {
		return base
	}
	return filepath.Join(s.opts.BaseDir, base)
}

func (s *Stager) excluded(base string) bool {
	return s.exclude != nil && s.exclude.MatchesPath(filepath.ToSlash(base))
}

// copyFile copies src to dst with src's permission bits and modification time.
// Missing parent directories of dst are created.
func (s *Stager) copyFile(src, dst string) error {
	info, err := s.fs.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	if err := s.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := s.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// OpenFile is subject to the umask.
	if err := s.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return s.fs.Chtimes(dst, info.ModTime(), info.ModTime())
}

// link creates dst pointing at target, replacing a link left by a previous run.
func (s *Stager) link(target, dst string) error {
	linker, ok := s.fs.(afero.Linker)
	if !ok {
		return ErrSymlinkUnsupported
	}
	if err := s.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if lstater, ok := s.fs.(afero.Lstater); ok {
		if info, _, err := lstater.LstatIfPossible(dst); err == nil {
			if info.Mode()&os.ModeSymlink == 0 {
				return fmt.Errorf("%s exists and is not a symlink", dst)
			}
			if err := s.fs.Remove(dst); err != nil {
				return err
			}
		}
	}
	return linker.SymlinkIfPossible(target, dst)
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	return fmt.Sprintf("stage %s %s: %v", e.Kind, e.Staged, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *EntryError) Unwrap() error { return e.Err }
