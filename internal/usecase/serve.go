package usecase

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"hubtool/internal/domain"
)

type ServeUseCase struct {
	runner domain.Runner
}

func NewServeUseCase(runner domain.Runner) *ServeUseCase {
	return &ServeUseCase{runner: runner}
}

// ServeParams configures the external inference server.
type ServeParams struct {
	Command string
	ModelID string
	Host    string
	Port    int
}

// Args returns the server's argument list.
func (p ServeParams) Args() []string {
	return []string{
		"--model", p.ModelID,
		"--host", p.Host,
		"--port", strconv.Itoa(p.Port),
	}
}

// Serve hands control to the inference server and blocks for its
// lifetime. Startup failures surface through the server's own error
// reporting; no retry or recovery layer is added here.
func (uc *ServeUseCase) Serve(ctx context.Context, p ServeParams) error {
	log.WithFields(log.Fields{
		"command": p.Command,
		"model":   p.ModelID,
		"addr":    fmt.Sprintf("%s:%d", p.Host, p.Port),
	}).Info("starting inference server")

	return uc.runner.Run(ctx, p.Command, p.Args())
}
