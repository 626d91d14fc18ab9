package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"hubtool/internal/domain"
)

// ProcessRunner runs the inference server as a child process with
// inherited stdio. The caller's lifetime becomes the server's lifetime.
type ProcessRunner struct{}

func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{}
}

// Run starts the command and blocks until it exits, forwarding SIGINT and
// SIGTERM to the child so the operator's ^C reaches the server. The
// child's error is returned as-is; the server reports its own startup
// failures.
func (r *ProcessRunner) Run(ctx context.Context, command string, args []string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrServerCommandNotFound, command)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", command, err)
	}
	log.WithFields(log.Fields{
		"command": path,
		"pid":     cmd.Process.Pid,
	}).Debug("inference server started")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case sig := <-sigs:
			_ = cmd.Process.Signal(sig)
		case err := <-done:
			return err
		}
	}
}
