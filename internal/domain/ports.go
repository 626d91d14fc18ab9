package domain

import "context"

// HubClient lists and retrieves the files of a remote artifact.
type HubClient interface {
	// ListFiles returns every file of the artifact at its revision.
	ListFiles(ctx context.Context, ref ArtifactRef) ([]FileEntry, error)
	// Download materializes one file under destDir at its relative path.
	Download(ctx context.Context, ref ArtifactRef, entry FileEntry, destDir string) error
}

// Runner hands control to the external inference server process and
// blocks for its lifetime.
type Runner interface {
	Run(ctx context.Context, command string, args []string) error
}
