package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ErrCopy is matched by every error returned from CopyFiltered.
var ErrCopy = errors.New("copy failed")

// CopyError records the path that broke a filtered copy.
type CopyError struct {
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s: %v", e.Path, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCopy) match any copy failure.
func (e *CopyError) Is(target error) bool { return target == ErrCopy }

// CopyOptions configures a filtered copy.
type CopyOptions struct {
	Category Category    // Which extensions to copy
	Exclude  []glob.Glob // Base-name patterns (lower-case) to skip
}

// CopyStats summarises a finished copy.
type CopyStats struct {
	Files int
	Bytes int64
}

// CompileExcludes compiles exclusion globs. Patterns are lower-cased so they
// match case-insensitively against lower-cased file names.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// CopyFiltered copies every regular file under src whose extension passes the
// category into the same relative location under dst. Directories are only
// created when a file is copied into them. The first I/O error stops the copy;
// files copied before it are left in place.
func CopyFiltered(src, dst string, opts CopyOptions) (CopyStats, error) {
	var stats CopyStats

	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &CopyError{Path: p, Err: err}
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if !opts.accepts(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return &CopyError{Path: p, Err: err}
		}
		target := filepath.Join(dst, rel)

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return &CopyError{Path: target, Err: err}
		}

		n, err := copyFile(p, target)
		if err != nil {
			return &CopyError{Path: p, Err: err}
		}

		stats.Files++
		stats.Bytes += n
		return nil
	})

	return stats, err
}

// accepts checks a base name against the category and exclusion patterns.
func (o CopyOptions) accepts(name string) bool {
	ext, ok := Extension(name)
	if !ok || !o.Category.Allows(ext) {
		return false
	}

	lower := strings.ToLower(name)
	for _, g := range o.Exclude {
		if g.Match(lower) {
			return false
		}
	}
	return true
}

// copyFile copies src over dst, truncating any existing file and keeping the
// source permission bits.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, err
	}

	return n, os.Chmod(dst, info.Mode().Perm())
}
