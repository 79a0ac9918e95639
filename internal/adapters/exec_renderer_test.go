package adapters_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viewsnap/viewsnap/internal/adapters"
	"github.com/viewsnap/viewsnap/pkg/domain"
	"github.com/viewsnap/viewsnap/pkg/ports"
)

// Ensure ExecRenderer implements Renderer
var _ ports.Renderer = (*adapters.ExecRenderer)(nil)

func TestExecRenderer_PipesDescriptor(t *testing.T) {
	// cat echoes the descriptor JSON back, standing in for a real
	// render pipeline.
	renderer := adapters.NewExecRenderer("cat", nil)

	descriptor := domain.RenderDescriptor{
		"partial": "admin/staffs/table",
		"locals":  map[string]any{"count": 3},
	}

	out, err := renderer.Render(context.Background(), descriptor)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "admin/staffs/table", decoded["partial"])
}

func TestExecRenderer_FailureIncludesStderr(t *testing.T) {
	renderer := adapters.NewExecRenderer("sh", []string{"-c", "echo boom >&2; exit 3"})

	_, err := renderer.Render(context.Background(), domain.RenderDescriptor{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecRenderer_MissingCommand(t *testing.T) {
	renderer := adapters.NewExecRenderer("viewsnap-no-such-renderer", nil)

	_, err := renderer.Render(context.Background(), domain.RenderDescriptor{})
	assert.Error(t, err)
}
