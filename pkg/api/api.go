package api

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type MessageKind uint8

const (
	ErrorMessage MessageKind = iota
	WarningMessage
)

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// Rename describes one private member that was replaced by a public one
type Rename struct {
	Class   string `json:"class" yaml:"class"`
	Private string `json:"private" yaml:"private"`
	Public  string `json:"public" yaml:"public"`
	Static  bool   `json:"static,omitempty" yaml:"static,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// Transform API

type TransformOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	// Used as the file name in diagnostics
	Sourcefile string

	// Private names become this prefix followed by the name. An empty prefix
	// means "_".
	Prefix string

	// Use single-character names instead of prefixed names
	Minify bool

	// Start minified names with Latin-1 letters
	ExtendedAlphabet bool

	// Forget every class seen in earlier calls. Without this, a session keeps
	// the options from its first call and lets later inputs extend classes
	// from earlier ones.
	PerFileReset bool

	MinifyWhitespace bool
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	// Empty if there are errors
	Code    []byte
	Renames []Rename
}

// Transform rewrites a single input with a session that is thrown away
// afterward
func Transform(input string, options TransformOptions) TransformResult {
	return NewSession(0).Transform(input, options)
}

// FormatMessages renders messages the same way they are printed to stderr,
// including the source line and a marker under the offending range
func FormatMessages(msgs []Message, kind MessageKind) []string {
	return formatMessagesImpl(msgs, kind)
}
