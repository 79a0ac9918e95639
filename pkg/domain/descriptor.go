package domain

// RenderDescriptor is the opaque payload handed to the render
// collaborator for one snapshot entry. The core never inspects it; it is
// carried verbatim from the generator source to the renderer.
type RenderDescriptor map[string]any
