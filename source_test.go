package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGitURL(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"https://github.com/user/repo.git", true},
		{"git@github.com:user/repo.git", true},
		{"git@internal:team/tool", true},
		{"https://example.com/archive.zip", false},
		{"./local/dir", false},
		{"project.zip", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isGitURL(tc.input), tc.input)
	}
}

func TestResolveSourceDirectoryMappedInPlace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	src, err := resolveSource(dir, testLogger())
	require.NoError(t, err)
	assert.Equal(t, dir, src.Root)
	assert.Equal(t, dir, src.Label)

	// Cleanup never deletes a directory the run did not create.
	src.Cleanup(testLogger())
	assert.DirExists(t, dir)
	assert.FileExists(t, filepath.Join(dir, "keep.txt"))
}

func TestResolveSourceArchiveOwnsTempTree(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "project.zip")
	writeZipFixture(t, archive, map[string]string{"readme.md": "# hi"})

	src, err := resolveSource(archive, testLogger())
	require.NoError(t, err)
	assert.NotEqual(t, archive, src.Root)
	assert.Equal(t, archive, src.Label)
	assert.FileExists(t, filepath.Join(src.Root, "readme.md"))

	src.Cleanup(testLogger())
	assert.NoDirExists(t, src.Root)

	// Cleaning up twice is harmless.
	src.Cleanup(testLogger())
}

func TestResolveSourceMissingInput(t *testing.T) {
	_, err := resolveSource(filepath.Join(t.TempDir(), "absent.zip"), testLogger())
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestSourceCleanupNilSafe(t *testing.T) {
	var src *Source
	src.Cleanup(testLogger())
}
