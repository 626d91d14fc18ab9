package domain

import (
	"fmt"
	"strings"
)

// ArtifactRef identifies a model repository snapshot on the hub.
type ArtifactRef struct {
	Owner    string
	Name     string
	Revision string
}

// ParseArtifactRef parses an "owner/name" identifier. An empty revision
// defaults to "main".
func ParseArtifactRef(id, revision string) (ArtifactRef, error) {
	owner, name, ok := strings.Cut(id, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return ArtifactRef{}, fmt.Errorf("%w: %q", ErrInvalidArtifactRef, id)
	}
	if revision == "" {
		revision = "main"
	}
	return ArtifactRef{Owner: owner, Name: name, Revision: revision}, nil
}

// ID returns the "owner/name" form used in hub URLs.
func (r ArtifactRef) ID() string {
	return r.Owner + "/" + r.Name
}

func (r ArtifactRef) String() string {
	return r.ID() + "@" + r.Revision
}

// FileEntry is one file of a snapshot. Path is relative to the snapshot
// root and always slash-separated. SHA256 is set for LFS files only.
type FileEntry struct {
	Path   string
	Size   int64
	SHA256 string
}

// Snapshot is the complete file set of an artifact at a revision.
type Snapshot struct {
	Ref   ArtifactRef
	Files []FileEntry
}
