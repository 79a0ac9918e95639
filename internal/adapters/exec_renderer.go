package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// ExecRenderer implements ports.Renderer by shelling out to the external
// rendering pipeline. The descriptor is written to the command's stdin
// as JSON; the rendered HTML is read from stdout. Stderr is captured
// into the returned error so a failing render names its cause.
type ExecRenderer struct {
	command string
	args    []string
	dir     string
}

// ExecOption configures the renderer.
type ExecOption func(*ExecRenderer)

// WithWorkDir sets the working directory for the render command.
func WithWorkDir(dir string) ExecOption {
	return func(r *ExecRenderer) {
		r.dir = dir
	}
}

// NewExecRenderer creates a renderer invoking command with args.
func NewExecRenderer(command string, args []string, opts ...ExecOption) *ExecRenderer {
	r := &ExecRenderer{
		command: command,
		args:    args,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render runs one render invocation. Cancellation of ctx kills the
// subprocess.
func (r *ExecRenderer) Render(ctx context.Context, descriptor domain.RenderDescriptor) ([]byte, error) {
	payload, err := json.Marshal(descriptor)
	if err != nil {
		return nil, fmt.Errorf("failed to encode render descriptor: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.command, r.args...)
	cmd.Dir = r.dir
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("render command failed: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("render command failed: %w", err)
	}

	return stdout.Bytes(), nil
}
