package logger

// Diagnostics are formatted like clang's: each message carries the file,
// line and column, the text of the offending line, and a marker under the
// offending range. Messages are collected as they happen and returned in a
// stable sorted order when the log is done.

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
)

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
)

func (kind MsgKind) String() string {
	if kind == Warning {
		return "warning"
	}
	return "error"
}

type Msg struct {
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

// Byte offset from the start of the file
type Loc struct {
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

type Source struct {
	// Used to read and write the file. Never shown to the user.
	KeyPath string

	// Used in diagnostics. Relative to the working directory when possible.
	PrettyPath string

	Contents string
}

func compareMsgs(a Msg, b Msg) int {
	if (a.Location == nil) != (b.Location == nil) {
		if a.Location == nil {
			return -1
		}
		return 1
	}
	if a.Location != nil {
		if c := cmp.Or(
			cmp.Compare(a.Location.File, b.Location.File),
			cmp.Compare(a.Location.Line, b.Location.Line),
			cmp.Compare(a.Location.Column, b.Location.Column),
		); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Kind, b.Kind)
}

type MsgCounts struct {
	Errors   int
	Warnings int
}

func (counts *MsgCounts) add(kind MsgKind) {
	if kind == Error {
		counts.Errors++
	} else {
		counts.Warnings++
	}
}

func (counts MsgCounts) String() string {
	switch {
	case counts.Errors == 0 && counts.Warnings == 0:
		return "no errors"
	case counts.Errors == 0:
		return english.Plural(counts.Warnings, "warning", "")
	case counts.Warnings == 0:
		return english.Plural(counts.Errors, "error", "")
	}
	return english.Plural(counts.Warnings, "warning", "") + " and " + english.Plural(counts.Errors, "error", "")
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type StderrOptions struct {
	IncludeSource bool
	ErrorLimit    int
	Color         StderrColor
	LogLevel      LogLevel

	// Defaults to standard error. Color detection always looks at the real
	// standard error.
	Output io.Writer
}

func NewStderrLog(options StderrOptions) Log {
	var mutex sync.Mutex
	var msgs []Msg
	var counts MsgCounts
	terminalInfo := GetTerminalInfo(os.Stderr)
	limitReached := false
	out := options.Output
	if out == nil {
		out = os.Stderr
	}

	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	shouldPrint := func(kind MsgKind) bool {
		if kind == Error {
			return options.LogLevel <= LevelError
		}
		return options.LogLevel <= LevelWarning
	}

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			msgs = append(msgs, msg)

			// Stay quiet past the limit so the terminal isn't flooded
			if limitReached {
				return
			}
			counts.add(msg.Kind)
			if shouldPrint(msg.Kind) {
				io.WriteString(out, msg.String(options, terminalInfo))
			}
			if options.ErrorLimit != 0 && counts.Errors >= options.ErrorLimit {
				limitReached = true
				if options.LogLevel <= LevelError {
					fmt.Fprintf(out, "%s reached (disable error limit with --error-limit=0)\n", counts.String())
				}
			}
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return counts.Errors > 0
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			if !limitReached && options.LogLevel <= LevelInfo && counts != (MsgCounts{}) {
				fmt.Fprintf(out, "%s\n", counts.String())
			}
			slices.SortStableFunc(msgs, compareMsgs)
			return msgs
		},
	}
}

// Collects messages without printing anything
func NewDeferLog() Log {
	var msgs []Msg
	var mutex sync.Mutex
	var hasErrors bool

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			hasErrors = hasErrors || msg.Kind == Error
			msgs = append(msgs, msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			slices.SortStableFunc(msgs, compareMsgs)
			return msgs
		},
	}
}

func (log Log) AddError(source *Source, loc Loc, text string) {
	log.AddMsg(Msg{Kind: Error, Text: text, Location: LocationOrNil(source, Range{Loc: loc})})
}

func (log Log) AddRangeError(source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: Error, Text: text, Location: LocationOrNil(source, r)})
}

func (log Log) AddRangeWarning(source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: Warning, Text: text, Location: LocationOrNil(source, r)})
}

// Line terminators are LF, CR, CRLF and the two Unicode separators
func lineTerminatorAt(text string, i int) (size int) {
	switch text[i] {
	case '\n':
		return 1
	case '\r':
		if i+1 < len(text) && text[i+1] == '\n' {
			return 2
		}
		return 1
	case 0xE2:
		if c, n := utf8.DecodeRuneInString(text[i:]); c == '\u2028' || c == '\u2029' {
			return n
		}
	}
	return 0
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}
	text := source.Contents
	offset := min(max(int(r.Loc.Start), 0), len(text))
	line, lineStart := 0, 0
	for i := 0; i < offset; {
		if n := lineTerminatorAt(text, i); n > 0 {
			// An offset between CR and LF still belongs to the first line
			if i+n > offset {
				break
			}
			i += n
			line++
			lineStart = i
			continue
		}
		i++
	}
	lineEnd := offset
	for lineEnd < len(text) && lineTerminatorAt(text, lineEnd) == 0 {
		lineEnd++
	}
	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     line + 1,
		Column:   offset - lineStart,
		Length:   int(r.Len),
		LineText: text[lineStart:lineEnd],
	}
}

const spacesPerTab = 2

func expandTabs(text string) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}
	var sb strings.Builder
	for _, c := range text {
		if c == '\t' {
			sb.WriteString(strings.Repeat(" ", spacesPerTab-sb.Len()%spacesPerTab))
		} else {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

type palette struct {
	bold    *color.Color
	kind    *color.Color
	text    *color.Color
	marker  *color.Color
	enabled bool
}

func newPalette(kind MsgKind, enabled bool) palette {
	kindAttr := color.FgRed
	if kind == Warning {
		kindAttr = color.FgMagenta
	}
	p := palette{
		bold:    color.New(color.Bold),
		kind:    color.New(color.Bold, kindAttr),
		text:    color.New(color.Bold),
		marker:  color.New(color.FgGreen),
		enabled: enabled,
	}
	for _, c := range []*color.Color{p.bold, p.kind, p.text, p.marker} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Returns the displayed line with the marker columns, trimmed to the
// terminal width with "..." at the cut ends
func markedLine(loc MsgLocation, width int) (line string, start int, end int) {
	loc.Column = min(max(loc.Column, 0), len(loc.LineText))
	loc.Length = min(max(loc.Length, 0), len(loc.LineText)-loc.Column)
	line = expandTabs(loc.LineText)
	start = len(expandTabs(loc.LineText[:loc.Column]))
	end = len(expandTabs(loc.LineText[:loc.Column+loc.Length]))

	if width <= 0 || len(line) <= width {
		return
	}

	// Keep the marker roughly centered but never far from the left edge
	cut := min((start+end-width)/2, start-width/5, len(line)-width)
	cut = max(cut, 0)
	line = line[cut : cut+width]
	start = max(start-cut, 0)
	end = min(end-cut, len(line))
	if cut > 0 && len(line) > 3 {
		line = "..." + line[3:]
		start = max(start, 3)
	}
	if cut+width < len(expandTabs(loc.LineText)) && len(line) > 3 {
		line = line[:len(line)-3] + "..."
		end = min(end, len(line)-3)
	}
	end = max(end, start)
	return
}

func (msg Msg) String(options StderrOptions, terminalInfo TerminalInfo) string {
	p := newPalette(msg.Kind, terminalInfo.UseColorEscapes)
	var sb strings.Builder

	if msg.Location != nil {
		if options.IncludeSource {
			p.bold.Fprintf(&sb, "%s:%d:%d: ", msg.Location.File, msg.Location.Line, msg.Location.Column)
		} else {
			p.bold.Fprintf(&sb, "%s: ", msg.Location.File)
		}
	}
	p.kind.Fprintf(&sb, "%s: ", msg.Kind.String())
	p.text.Fprint(&sb, msg.Text)
	sb.WriteString("\n")

	if msg.Location == nil || !options.IncludeSource {
		return sb.String()
	}

	line, start, end := markedLine(*msg.Location, terminalInfo.Width)
	marker := "^"
	if end-start > 1 {
		marker = strings.Repeat("~", end-start)
	}
	sb.WriteString(line[:start])
	p.marker.Fprint(&sb, line[start:end])
	sb.WriteString(line[end:])
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", start))
	p.marker.Fprint(&sb, marker)
	sb.WriteString("\n")
	return sb.String()
}
