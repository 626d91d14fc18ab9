package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hubtool/internal/domain"
	"hubtool/internal/testutil"
)

func fetchRef(t *testing.T) domain.ArtifactRef {
	t.Helper()
	ref, err := domain.ParseArtifactRef("owner/model", "main")
	require.NoError(t, err)
	return ref
}

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestFetch_DownloadsMissingFiles(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)
	destDir := t.TempDir()

	files := []domain.FileEntry{
		{Path: "config.json", Size: 4},
		{Path: "weights/model.bin", Size: 7},
	}
	hub.On("ListFiles", mock.Anything, ref).Return(files, nil)
	for _, entry := range files {
		entry := entry
		hub.On("Download", mock.Anything, ref, entry, destDir).Run(func(args mock.Arguments) {
			writeFile(t, destDir, entry.Path, string(make([]byte, entry.Size)))
		}).Return(nil).Once()
	}

	path, err := uc.Fetch(context.Background(), ref, destDir)
	assert.NoError(t, err)
	assert.Equal(t, destDir, path)
	hub.AssertExpectations(t)
}

func TestFetch_SkipsUpToDateFiles(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)
	destDir := t.TempDir()

	writeFile(t, destDir, "config.json", "{ }")
	files := []domain.FileEntry{{Path: "config.json", Size: 3}}
	hub.On("ListFiles", mock.Anything, ref).Return(files, nil)

	_, err := uc.Fetch(context.Background(), ref, destDir)
	assert.NoError(t, err)
	hub.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetch_RedownloadsOnDigestMismatch(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)
	destDir := t.TempDir()

	writeFile(t, destDir, "model.bin", "stale!!")
	entry := domain.FileEntry{Path: "model.bin", Size: 7, SHA256: sha256Hex("fresh!!")}
	hub.On("ListFiles", mock.Anything, ref).Return([]domain.FileEntry{entry}, nil)
	hub.On("Download", mock.Anything, ref, entry, destDir).Run(func(args mock.Arguments) {
		writeFile(t, destDir, "model.bin", "fresh!!")
	}).Return(nil).Once()

	_, err := uc.Fetch(context.Background(), ref, destDir)
	assert.NoError(t, err)
	hub.AssertExpectations(t)
}

func TestFetch_KeepsMatchingLFSFile(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)
	destDir := t.TempDir()

	writeFile(t, destDir, "model.bin", "weights")
	entry := domain.FileEntry{Path: "model.bin", Size: 7, SHA256: sha256Hex("weights")}
	hub.On("ListFiles", mock.Anything, ref).Return([]domain.FileEntry{entry}, nil)

	_, err := uc.Fetch(context.Background(), ref, destDir)
	assert.NoError(t, err)
	hub.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetch_PrunesStaleFiles(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)
	destDir := t.TempDir()

	writeFile(t, destDir, "config.json", "{ }")
	stale := writeFile(t, destDir, "old/removed.bin", "gone")

	files := []domain.FileEntry{{Path: "config.json", Size: 3}}
	hub.On("ListFiles", mock.Anything, ref).Return(files, nil)

	_, err := uc.Fetch(context.Background(), ref, destDir)
	assert.NoError(t, err)

	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr), "stale file should be pruned")
	_, statErr = os.Stat(filepath.Dir(stale))
	assert.True(t, os.IsNotExist(statErr), "emptied directory should be pruned")
}

func TestFetch_ConvergesOnSecondRun(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)
	destDir := t.TempDir()

	entry := domain.FileEntry{Path: "config.json", Size: 3}
	hub.On("ListFiles", mock.Anything, ref).Return([]domain.FileEntry{entry}, nil)
	hub.On("Download", mock.Anything, ref, entry, destDir).Run(func(args mock.Arguments) {
		writeFile(t, destDir, "config.json", "{ }")
	}).Return(nil).Once()

	_, err := uc.Fetch(context.Background(), ref, destDir)
	require.NoError(t, err)

	// Second run finds everything in place; Download stays at one call.
	_, err = uc.Fetch(context.Background(), ref, destDir)
	assert.NoError(t, err)
	hub.AssertNumberOfCalls(t, "Download", 1)
}

func TestFetch_EmptySnapshot(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)

	hub.On("ListFiles", mock.Anything, ref).Return([]domain.FileEntry{}, nil)

	_, err := uc.Fetch(context.Background(), ref, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrEmptySnapshot)
}

func TestFetch_ListErrorNamesCause(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)

	hub.On("ListFiles", mock.Anything, ref).Return(nil, errors.New("connection refused"))

	_, err := uc.Fetch(context.Background(), ref, t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetch_DownloadErrorAborts(t *testing.T) {
	hub := new(testutil.MockHubClient)
	uc := NewFetchUseCase(hub)
	ref := fetchRef(t)
	destDir := t.TempDir()

	entry := domain.FileEntry{Path: "model.bin", Size: 7}
	hub.On("ListFiles", mock.Anything, ref).Return([]domain.FileEntry{entry}, nil)
	hub.On("Download", mock.Anything, ref, entry, destDir).Return(errors.New("disk full"))

	_, err := uc.Fetch(context.Background(), ref, destDir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
