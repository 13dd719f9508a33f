package media

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative path -> contents) and empty dirs under root.
func writeTree(t *testing.T, root string, files map[string]string, dirs ...string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}
}

// listTree returns every regular file under root, relative, with contents.
func listTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func sampleSource(t *testing.T) string {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"Movie.1999.mkv":           "video",
		"Movie.1999.EN.srt":        "subs",
		"Subs/Movie.1999.FR.SRT":   "subs-fr",
		"Extras/Featurette.MP4":    "extra",
		"movie.nfo":                "info",
		"README":                   "no extension",
		".hidden":                  "dotfile",
		"Sample/movie-sample.mkv":  "sample",
		"Artwork/poster.jpg":       "jpg",
		"Artwork/nested/empty.txt": "txt",
	}, "Empty", "Empty/Deeper")
	return src
}

func TestCopyFilteredByCategory(t *testing.T) {
	tests := []struct {
		category Category
		want     []string
	}{
		{CategoryVideo, []string{"Movie.1999.mkv", "Extras/Featurette.MP4", "Sample/movie-sample.mkv"}},
		{CategorySubtitles, []string{"Movie.1999.EN.srt", "Subs/Movie.1999.FR.SRT"}},
		{CategoryBoth, []string{
			"Movie.1999.mkv", "Extras/Featurette.MP4", "Sample/movie-sample.mkv",
			"Movie.1999.EN.srt", "Subs/Movie.1999.FR.SRT",
		}},
		{CategoryAny, []string{
			"Movie.1999.mkv", "Extras/Featurette.MP4", "Sample/movie-sample.mkv",
			"Movie.1999.EN.srt", "Subs/Movie.1999.FR.SRT",
			"movie.nfo", "Artwork/poster.jpg", "Artwork/nested/empty.txt",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			src := sampleSource(t)
			dst := filepath.Join(t.TempDir(), "Movie")

			stats, err := CopyFiltered(src, dst, CopyOptions{Category: tt.category})
			require.NoError(t, err)

			got := listTree(t, dst)
			keys := make([]string, 0, len(got))
			for k := range got {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.want, keys)
			assert.Equal(t, len(tt.want), stats.Files)

			// Extensionless files never appear
			assert.NotContains(t, got, "README")
			assert.NotContains(t, got, ".hidden")
		})
	}
}

func TestCopyFilteredOnlyCreatesNeededDirs(t *testing.T) {
	src := sampleSource(t)
	dst := filepath.Join(t.TempDir(), "out")

	_, err := CopyFiltered(src, dst, CopyOptions{Category: CategorySubtitles})
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(dst, "Subs"))
	assert.NoDirExists(t, filepath.Join(dst, "Empty"))
	assert.NoDirExists(t, filepath.Join(dst, "Extras"))
	assert.NoDirExists(t, filepath.Join(dst, "Artwork"))
}

func TestCopyFilteredNothingMatches(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"notes.txt": "x"})
	dst := filepath.Join(t.TempDir(), "out")

	stats, err := CopyFiltered(src, dst, CopyOptions{Category: CategoryVideo})
	require.NoError(t, err)
	assert.Zero(t, stats.Files)
	assert.NoDirExists(t, dst)
}

func TestCopyFilteredIsIdempotent(t *testing.T) {
	src := sampleSource(t)
	dst := filepath.Join(t.TempDir(), "out")
	opts := CopyOptions{Category: CategoryBoth}

	first, err := CopyFiltered(src, dst, opts)
	require.NoError(t, err)
	before := listTree(t, dst)

	second, err := CopyFiltered(src, dst, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, listTree(t, dst))
}

func TestCopyFilteredOverwritesShorterContent(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.mkv": "new"})
	dst := t.TempDir()
	writeTree(t, dst, map[string]string{"a.mkv": "much longer old content"})

	stats, err := CopyFiltered(src, dst, CopyOptions{Category: CategoryVideo})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Bytes)
	assert.Equal(t, map[string]string{"a.mkv": "new"}, listTree(t, dst))
}

func TestCopyFilteredExclude(t *testing.T) {
	src := sampleSource(t)
	dst := filepath.Join(t.TempDir(), "out")

	excludes, err := CompileExcludes([]string{"*SAMPLE*"})
	require.NoError(t, err)

	_, err = CopyFiltered(src, dst, CopyOptions{Category: CategoryVideo, Exclude: excludes})
	require.NoError(t, err)

	got := listTree(t, dst)
	assert.Contains(t, got, "Movie.1999.mkv")
	assert.NotContains(t, got, "Sample/movie-sample.mkv")
	assert.NoDirExists(t, filepath.Join(dst, "Sample"))
}

func TestCompileExcludesInvalid(t *testing.T) {
	_, err := CompileExcludes([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestCopyFilteredSkipsSymlinks(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"real.mkv": "video"})
	if err := os.Symlink(filepath.Join(src, "real.mkv"), filepath.Join(src, "link.mkv")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	dst := t.TempDir()

	stats, err := CopyFiltered(src, dst, CopyOptions{Category: CategoryVideo})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files)
	assert.NoFileExists(t, filepath.Join(dst, "link.mkv"))
}

func TestCopyFilteredMissingSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")

	_, err := CopyFiltered(missing, t.TempDir(), CopyOptions{Category: CategoryAny})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCopy))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var ce *CopyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, missing, ce.Path)
}
