package domain

import "errors"

var (
	ErrInvalidArtifactRef    = errors.New("artifact reference must be of the form owner/name")
	ErrArtifactNotFound      = errors.New("artifact not found on the hub or access is restricted")
	ErrEmptySnapshot         = errors.New("artifact snapshot contains no files")
	ErrServerCommandNotFound = errors.New("inference server command not found on PATH")
	ErrInvalidServerPort     = errors.New("server port must be between 1 and 65535")
)
