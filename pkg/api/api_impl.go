package api

import (
	"fmt"
	"io"

	"github.com/unprivate/unprivate/internal/config"
	"github.com/unprivate/unprivate/internal/js_parser"
	"github.com/unprivate/unprivate/internal/js_printer"
	"github.com/unprivate/unprivate/internal/logger"
	"github.com/unprivate/unprivate/internal/privatize"
)

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	default:
		panic("Invalid log level")
	}
}

func validateOptions(log logger.Log, options TransformOptions) config.Options {
	result := config.Options{
		Prefix:           options.Prefix,
		Minify:           options.Minify,
		ExtendedAlphabet: options.ExtendedAlphabet,
		PerFileReset:     options.PerFileReset,
	}.WithDefaults()
	if err := result.Validate(); err != nil {
		log.AddError(nil, logger.Loc{}, err.Error())
	}
	return result
}

// Where messages are printed when the log level isn't silent. Nil means
// standard error.
var logOutput io.Writer

func newLog(options TransformOptions) logger.Log {
	if options.LogLevel == LogLevelSilent {
		return logger.NewDeferLog()
	}
	return logger.NewStderrLog(logger.StderrOptions{
		IncludeSource: true,
		ErrorLimit:    options.ErrorLimit,
		Color:         validateColor(options.Color),
		LogLevel:      validateLogLevel(options.LogLevel),
		Output:        logOutput,
	})
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location

			if msg.Location != nil {
				location = &Location{
					File:     msg.Location.File,
					Line:     msg.Location.Line,
					Column:   msg.Location.Column,
					Length:   msg.Location.Length,
					LineText: msg.Location.LineText,
				}
			}

			filtered = append(filtered, Message{
				Text:     msg.Text,
				Location: location,
			})
		}
	}
	return filtered
}

func formatMessagesImpl(msgs []Message, kind MessageKind) []string {
	logKind := logger.Error
	if kind == WarningMessage {
		logKind = logger.Warning
	}

	var formatted []string
	for _, msg := range msgs {
		formatted = append(formatted, toLogMsg(logKind, msg).String(logger.StderrOptions{IncludeSource: true}, logger.TerminalInfo{}))
	}
	return formatted
}

func toLogMsg(kind logger.MsgKind, msg Message) logger.Msg {
	logMsg := logger.Msg{Kind: kind, Text: msg.Text}
	if msg.Location != nil {
		logMsg.Location = &logger.MsgLocation{
			File:     msg.Location.File,
			Line:     msg.Location.Line,
			Column:   msg.Location.Column,
			Length:   msg.Location.Length,
			LineText: msg.Location.LineText,
		}
	}
	return logMsg
}

// Reports the messages of a result that was computed earlier, so a cached
// result is logged the same way as a fresh one
func replayMessages(log logger.Log, result TransformResult) {
	for _, msg := range result.Errors {
		log.AddMsg(toLogMsg(logger.Error, msg))
	}
	for _, msg := range result.Warnings {
		log.AddMsg(toLogMsg(logger.Warning, msg))
	}
	log.Done()
}

func convertRenames(renames []privatize.Rename) []Rename {
	var result []Rename
	for _, r := range renames {
		result = append(result, Rename{
			Class:   r.Class,
			Private: r.Private,
			Public:  r.Public,
			Static:  r.Static,
		})
	}
	return result
}

// Everything that can change the result of transforming one input on its own
func optionsFingerprint(options TransformOptions, captured config.Options) string {
	return fmt.Sprintf("file=%q prefix=%q minify=%t a-to-z=%t whitespace=%t",
		options.Sourcefile, captured.Prefix, captured.Minify, captured.ExtendedAlphabet, options.MinifyWhitespace)
}

// Parses, rewrites and prints one input. The store is updated in place.
func transformImpl(log logger.Log, input string, options TransformOptions, captured config.Options, store *privatize.Store) TransformResult {
	prettyPath := options.Sourcefile
	if prettyPath == "" {
		prettyPath = "<stdin>"
	}
	source := logger.Source{
		KeyPath:    options.Sourcefile,
		PrettyPath: prettyPath,
		Contents:   input,
	}

	var code []byte
	var renames []Rename

	if tree, ok := js_parser.Parse(log, source); ok {
		if result, ok := privatize.Run(log, &source, &tree, captured, store); ok {
			renames = convertRenames(result.Renames)
			code = js_printer.Print(tree, js_printer.Options{
				MinifyWhitespace: options.MinifyWhitespace,
			}).JS
		}
	}

	msgs := log.Done()
	result := TransformResult{
		Errors:   messagesOfKind(logger.Error, msgs),
		Warnings: messagesOfKind(logger.Warning, msgs),
	}
	if len(result.Errors) == 0 {
		result.Code = code
		result.Renames = renames
	}
	return result
}
