package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"hubtool/internal/domain"
)

type FetchUseCase struct {
	hub domain.HubClient
}

func NewFetchUseCase(hub domain.HubClient) *FetchUseCase {
	return &FetchUseCase{hub: hub}
}

// Fetch synchronizes the artifact's snapshot into destDir and returns the
// canonical local path. Files are downloaded one at a time; existing files
// that already match the snapshot are kept, everything else under destDir
// is removed afterward, so re-running converges to exactly the snapshot's
// file set.
func (uc *FetchUseCase) Fetch(ctx context.Context, ref domain.ArtifactRef, destDir string) (string, error) {
	files, err := uc.hub.ListFiles(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", ref, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrEmptySnapshot, ref)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination %s: %w", destDir, err)
	}

	for _, entry := range files {
		target := filepath.Join(destDir, filepath.FromSlash(entry.Path))
		if localMatches(entry, target) {
			log.WithField("path", entry.Path).Debug("already up to date")
			continue
		}
		if err := uc.hub.Download(ctx, ref, entry, destDir); err != nil {
			return "", fmt.Errorf("download %s: %w", entry.Path, err)
		}
	}

	if err := prune(destDir, files); err != nil {
		return "", fmt.Errorf("prune stale files: %w", err)
	}

	return destDir, nil
}

// localMatches reports whether the file at target already satisfies the
// snapshot entry: size must match, and for LFS entries the sha256 digest
// must match as well.
func localMatches(entry domain.FileEntry, target string) bool {
	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() || info.Size() != entry.Size {
		return false
	}
	if entry.SHA256 == "" {
		return true
	}

	f, err := os.Open(target)
	if err != nil {
		return false
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	return strings.EqualFold(hex.EncodeToString(h.Sum(nil)), entry.SHA256)
}

// prune removes every file under destDir that is not part of the snapshot,
// then any directories left empty. A changed artifact revision therefore
// leaves no stale files behind.
func prune(destDir string, files []domain.FileEntry) error {
	wanted := make(map[string]struct{}, len(files))
	for _, entry := range files {
		wanted[filepath.Join(destDir, filepath.FromSlash(entry.Path))] = struct{}{}
	}

	var dirs []string
	err := filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != destDir {
				dirs = append(dirs, path)
			}
			return nil
		}
		if _, ok := wanted[path]; ok {
			return nil
		}
		log.WithField("path", path).Info("removing stale file")
		return os.Remove(path)
	})
	if err != nil {
		return err
	}

	// Deepest directories first, so emptied parents are caught too.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
			os.Remove(dir)
		}
	}

	return nil
}
