package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"hubtool/internal/domain"
)

// Download streams one file into destDir at its relative path. The bytes
// land in a temporary sibling first and are renamed into place, so the
// final path never holds a partial file. Every file is materialized as a
// real file; the destination directory stays portable.
func (c *Client) Download(ctx context.Context, ref domain.ArtifactRef, entry domain.FileEntry, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(entry.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", entry.Path, err)
	}

	rawURL := fmt.Sprintf("%s/%s/resolve/%s/%s",
		c.endpoint, ref.ID(), url.PathEscape(ref.Revision), entry.Path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", entry.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", entry.Path, resp.Status)
	}

	tmp := target + ".partial-" + uuid.NewString()
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	written, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", entry.Path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", entry.Path, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize %s: %w", entry.Path, err)
	}

	log.WithFields(log.Fields{
		"path":  entry.Path,
		"bytes": written,
	}).Info("file downloaded")

	return nil
}
