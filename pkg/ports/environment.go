package ports

// Environment is the DOM-like test environment markup is mounted into.
// The actual document and assertion bindings belong to the test
// framework; the core only needs to set and clear content.
type Environment interface {
	// SetContent replaces the environment's markup.
	SetContent(html []byte) error

	// Clear removes all mounted markup so one test's content never
	// bleeds into the next.
	Clear() error
}
