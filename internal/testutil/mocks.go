package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hubtool/internal/domain"
)

// MockHubClient is a mock of domain.HubClient.
type MockHubClient struct {
	mock.Mock
}

func (m *MockHubClient) ListFiles(ctx context.Context, ref domain.ArtifactRef) ([]domain.FileEntry, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileEntry), args.Error(1)
}

func (m *MockHubClient) Download(ctx context.Context, ref domain.ArtifactRef, entry domain.FileEntry, destDir string) error {
	args := m.Called(ctx, ref, entry, destDir)
	return args.Error(0)
}

// MockRunner is a mock of domain.Runner.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, command string, args []string) error {
	called := m.Called(ctx, command, args)
	return called.Error(0)
}
