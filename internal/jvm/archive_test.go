package jvm

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func writeTarGz(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, body := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0644,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}))
		_, err = tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
}

func TestUnzipExtractsFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.zip")
	writeZip(t, src, map[string]string{
		"bin/java":    "stub",
		"lib/rt.conf": "opts",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, Unzip(src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "bin", "java"))
	require.NoError(t, err)
	assert.Equal(t, "stub", string(data))
}

func TestUnzipRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	writeZip(t, src, map[string]string{"../escape": "nope"})

	assert.Error(t, Unzip(src, filepath.Join(dir, "out")))
}

func TestUntarExtractsFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.tar.gz")
	writeTarGz(t, src, map[string]string{"jre/bin/java": "stub"})

	dest := filepath.Join(dir, "out")
	require.NoError(t, Untar(src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "jre", "bin", "java"))
	require.NoError(t, err)
	assert.Equal(t, "stub", string(data))
}

func TestUntarRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.tar.gz")
	writeTarGz(t, src, map[string]string{"../escape": "nope"})

	assert.Error(t, Untar(src, filepath.Join(dir, "out")))
}
