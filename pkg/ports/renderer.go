package ports

import (
	"context"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// Renderer is the external collaborator that turns a rendering
// descriptor into HTML bytes (the server-side rendering pipeline).
// The core never renders markup itself.
type Renderer interface {
	Render(ctx context.Context, descriptor domain.RenderDescriptor) ([]byte, error)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(ctx context.Context, descriptor domain.RenderDescriptor) ([]byte, error)

// Render calls the wrapped function.
func (f RendererFunc) Render(ctx context.Context, descriptor domain.RenderDescriptor) ([]byte, error) {
	return f(ctx, descriptor)
}
