package config

import (
	"errors"
	"fmt"

	"github.com/unprivate/unprivate/internal/js_lexer"
)

const DefaultPrefix = "_"

// Options is the configuration captured for one compilation unit. It must not
// change while the unit is being rewritten.
type Options struct {
	// Prepended to the name of every private member in prefix mode:
	//
	//   "#count" => "_count"
	//
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	// Replace every private member with a single-character identifier instead
	// of a prefixed name
	Minify bool `mapstructure:"minify" yaml:"minify"`

	// Start allocating from the Latin-1 letters ("À" to "ÿ") before moving on
	// to the other blocks. Only used when minifying.
	ExtendedAlphabet bool `mapstructure:"a-to-z" yaml:"a-to-z"`

	// Throw away the allocation state at the start of every unit. When this is
	// false, classes in later units keep extending the records (and the
	// configuration) captured while processing the first unit.
	PerFileReset bool `mapstructure:"by-file" yaml:"by-file"`
}

var ErrInvalidPrefix = errors.New("invalid prefix")

func Defaults() Options {
	return Options{Prefix: DefaultPrefix}
}

// WithDefaults fills in the prefix when it was left empty
func (options Options) WithDefaults() Options {
	if options.Prefix == "" {
		options.Prefix = DefaultPrefix
	}
	return options
}

// Validate checks that every name generated in prefix mode is a valid
// identifier. The prefix is joined with the rest of a private name, so it
// only needs to be valid as the start of an identifier.
func (options Options) Validate() error {
	if options.Minify {
		return nil
	}
	if options.Prefix == "" {
		return nil
	}
	if !js_lexer.IsIdentifier(options.Prefix + "x") {
		return fmt.Errorf("%w %q: it must be the start of a JavaScript identifier", ErrInvalidPrefix, options.Prefix)
	}
	return nil
}
