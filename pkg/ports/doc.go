// Package ports defines the driven-side interfaces of the snapshot
// engine: the snapshot store, the render collaborator, and the DOM-like
// environment. Adapters implement them; the core depends only on the
// contracts here.
package ports
