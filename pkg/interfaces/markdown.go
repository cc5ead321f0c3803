package interfaces

// MarkdownRenderer converts Markdown bytes into an HTML5 fragment.
// Implementations are expected to be safe for concurrent use; per call state
// such as heading id tables must not leak between invocations.
type MarkdownRenderer interface {
	// Render converts Markdown into HTML using the renderer's default settings.
	Render(markdown []byte) ([]byte, error)
	// RenderWithOptions converts Markdown into HTML using the supplied overrides.
	RenderWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	// Extensions enables extensions by name. An empty list enables the full set.
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML from the output.
	SafeMode bool
}
