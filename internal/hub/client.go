package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"hubtool/internal/domain"
)

// Client talks to a Hugging Face style hub over HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

func NewClient(httpClient *http.Client, endpoint, token string) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
		token:      token,
	}
}

type treeEntry struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	LFS  *struct {
		OID  string `json:"oid"`
		Size int64  `json:"size"`
	} `json:"lfs"`
}

// ListFiles returns every file of the artifact at its revision, following
// the hub's paginated tree listing.
func (c *Client) ListFiles(ctx context.Context, ref domain.ArtifactRef) ([]domain.FileEntry, error) {
	next := fmt.Sprintf("%s/api/models/%s/tree/%s?recursive=true",
		c.endpoint, ref.ID(), url.PathEscape(ref.Revision))

	var files []domain.FileEntry
	for next != "" {
		entries, nextURL, err := c.listPage(ctx, next)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type != "file" {
				continue
			}
			entry := domain.FileEntry{Path: e.Path, Size: e.Size}
			if e.LFS != nil {
				entry.SHA256 = e.LFS.OID
				if e.LFS.Size > 0 {
					entry.Size = e.LFS.Size
				}
			}
			files = append(files, entry)
		}
		next = nextURL
	}

	log.WithFields(log.Fields{
		"artifact": ref.String(),
		"files":    len(files),
	}).Debug("listed artifact tree")

	return files, nil
}

func (c *Client) listPage(ctx context.Context, pageURL string) ([]treeEntry, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create tree request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("tree request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil, "", fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, resp.Status)
	default:
		return nil, "", fmt.Errorf("tree request: unexpected status %s", resp.Status)
	}

	var entries []treeEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, "", fmt.Errorf("decode tree response: %w", err)
	}

	return entries, nextLink(resp.Header.Get("Link")), nil
}

// nextLink extracts the rel="next" target from a Link header, if any.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start >= 0 && end > start {
			return part[start+1 : end]
		}
	}
	return ""
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
