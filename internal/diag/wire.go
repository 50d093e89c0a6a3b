package diag

// Wire is the stable JSON shape from spec.md §6 ("Diagnostic shape
// (wire, stable)"), used by the CLI's --format json output and the MCP
// tool responses. Unlike Diagnostic, whose Span is a byte offset into a
// single parsed document, Wire carries a line/character Range — the
// conversion needs a file's line index, so it happens at the
// internal/ide boundary rather than here.
type Wire struct {
	Severity string    `json:"severity"`
	Range    WireRange `json:"range"`
	Message  string    `json:"message"`
	Source   string    `json:"source"`
	Code     string    `json:"code,omitempty"`
	FileURI  string    `json:"file_uri,omitempty"`
}

type WireRange struct {
	Start WirePosition `json:"start"`
	End   WirePosition `json:"end"`
}

type WirePosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}
