package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pasar/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedExtension(t *testing.T) {
	cases := map[string]bool{
		"mug.png":    true,
		"mug.jpg":    true,
		"mug.jpeg":   true,
		"mug.gif":    true,
		"MUG.PNG":    true, // extensions match case-insensitively
		"mug.Gif":    true,
		"mug.txt":    false,
		"mug.svg":    false,
		"mug":        false,
		"mug.png.sh": false,
	}
	for filename, want := range cases {
		assert.Equal(t, want, storage.AllowedExtension(filename), filename)
	}
}

func TestDiskStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir)
	require.NoError(t, err)

	name, err := store.Save("My Mug.PNG", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	// Stored under a fresh name, keeping a lowercased extension
	assert.NotEqual(t, "My Mug.PNG", name)
	assert.True(t, strings.HasSuffix(name, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestDiskStore_SaveDisallowedExtension(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("script.sh", strings.NewReader("#!/bin/sh"))
	assert.ErrorIs(t, err, storage.ErrDisallowedExtension)
}

func TestDiskStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir)
	require.NoError(t, err)

	name, err := store.Save("mug.jpg", strings.NewReader("bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, store.Remove("missing.jpg"))
}
