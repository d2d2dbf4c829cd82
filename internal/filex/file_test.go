package filex

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Measurements.CSV")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2,3\n4,5,6\n"), 0o600))

	b, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Measurements.CSV", b.Name)
	assert.Equal(t, int64(18), b.Size)
	assert.Equal(t, "csv", b.Ext())
	assert.NotEmpty(t, b.ContentType)

	rc, err := b.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,2,3\n4,5,6\n", string(data))
}

func TestOpenFile_Errors(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.h5"))
	require.Error(t, err)

	_, err = OpenFile(t.TempDir())
	require.ErrorContains(t, err, "is a directory")
}

func TestFromBytes_CanBeReopened(t *testing.T) {
	b := FromBytes("notes.txt", []byte("hello"))
	assert.Equal(t, int64(5), b.Size)
	assert.True(t, strings.HasPrefix(b.ContentType, "text/plain"))

	for i := 0; i < 2; i++ {
		rc, err := b.Open()
		require.NoError(t, err)
		data, _ := io.ReadAll(rc)
		_ = rc.Close()
		assert.Equal(t, "hello", string(data))
	}
}

func TestBlob_OpenWithoutContent(t *testing.T) {
	_, err := Blob{Name: "x"}.Open()
	require.Error(t, err)
}

func TestExtAndNames(t *testing.T) {
	assert.Equal(t, "h5", Ext("run/scan.H5"))
	assert.Equal(t, "", Ext("README"))
	assert.Equal(t, []string{"a.csv", "b.h5"}, Names([]Blob{{Name: "a.csv"}, {Name: "b.h5"}}))
	assert.Empty(t, Names(nil))
}

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "downloads", "run-1")

	got, err := EnsureDir(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	fi, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	_, err = EnsureDir(target)
	require.NoError(t, err, "must be idempotent")
}
