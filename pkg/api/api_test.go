package api_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/unprivate/unprivate/internal/test"
	"github.com/unprivate/unprivate/pkg/api"
)

func TestFormatMessages(t *testing.T) {
	check := func(name string, kind api.MessageKind, msg api.Message, expected string) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			test.AssertEqualWithDiff(t, api.FormatMessages([]api.Message{msg}, kind)[0], expected)
		})
	}

	check("Error", api.ErrorMessage, api.Message{Text: "This is a test"}, "error: This is a test\n")
	check("Warning", api.WarningMessage, api.Message{Text: "This is a test"}, "warning: This is a test\n")

	check("Basic location", api.ErrorMessage,
		api.Message{Text: "This is a test", Location: &api.Location{
			File:     "some file.js",
			Line:     100,
			Column:   5, // 0-based
			Length:   3,
			LineText: "this.foo();",
		}},
		"some file.js:100:5: error: This is a test\nthis.foo();\n     ~~~\n",
	)

	check("Point location", api.WarningMessage,
		api.Message{Text: "This is a test", Location: &api.Location{
			File:     "some file.js",
			Line:     1,
			Column:   0,
			LineText: "#x in y",
		}},
		"some file.js:1:0: warning: This is a test\n#x in y\n^\n",
	)
}

func TestTransform(t *testing.T) {
	result := api.Transform("class Base { #id; #calc() { return this.#id } }", api.TransformOptions{})
	require.Empty(t, result.Errors)
	require.Empty(t, result.Warnings)
	assert.Equal(t, "class Base {\n  _calc() {\n    return this._id;\n  }\n}\n", string(result.Code))
	assert.Equal(t, []api.Rename{
		{Class: "Base", Private: "#id", Public: "_id"},
		{Class: "Base", Private: "#calc", Public: "_calc"},
	}, result.Renames)

	result = api.Transform("class C { static #n = 1; static get() { return C.#n } }", api.TransformOptions{
		Minify:           true,
		MinifyWhitespace: true,
	})
	require.Empty(t, result.Errors)
	assert.Equal(t, "class C{static get(){return C.ᐁ}}C.ᐁ=1;", string(result.Code))
}

func TestTransformErrors(t *testing.T) {
	result := api.Transform("class C { #y = 1 }", api.TransformOptions{Sourcefile: "c.js"})
	assert.Empty(t, result.Code)
	assert.Empty(t, result.Renames)
	assert.Equal(t, []api.Message{{
		Text: "class C: You must initialize #y in the constructor, not in the class body.",
		Location: &api.Location{
			File:     "c.js",
			Line:     1,
			Column:   10,
			Length:   2,
			LineText: "class C { #y = 1 }",
		},
	}}, result.Errors)

	result = api.Transform("class {", api.TransformOptions{})
	assert.Empty(t, result.Code)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "<stdin>", result.Errors[0].Location.File)

	result = api.Transform("class C {}", api.TransformOptions{Prefix: "1"})
	assert.Empty(t, result.Code)
	assert.Equal(t, []api.Message{{
		Text: "invalid prefix \"1\": it must be the start of a JavaScript identifier",
	}}, result.Errors)
}

func TestTransformWarnings(t *testing.T) {
	result := api.Transform("class C { #x; _x() {} }", api.TransformOptions{})
	require.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "\"#x\" becomes \"_x\" in class C, which is also the name of a public member of that class", result.Warnings[0].Text)
	assert.Equal(t, "class C {\n  _x() {\n  }\n}\n", string(result.Code))
}

func TestSessionSharesRecords(t *testing.T) {
	session := api.NewSession(0)

	result := session.Transform("class Base { #x; m() { return this.#x } }", api.TransformOptions{Minify: true})
	require.Empty(t, result.Errors)
	assert.Contains(t, string(result.Code), "this.ᐁ")

	result = session.Transform("class Child extends Base { #y; n() { return this.#y } }", api.TransformOptions{Minify: true})
	require.Empty(t, result.Errors)
	assert.Contains(t, string(result.Code), "this.ᐂ")
}

func TestSessionCapturesFirstOptions(t *testing.T) {
	session := api.NewSession(0)

	result := session.Transform("class A { #x; m() { return this.#x } }", api.TransformOptions{Minify: true})
	require.Empty(t, result.Errors)

	// The second call asks for prefix mode but the session keeps minifying
	result = session.Transform("class B { #x; m() { return this.#x } }", api.TransformOptions{Prefix: "$"})
	require.Empty(t, result.Errors)
	assert.Contains(t, string(result.Code), "this.ᐁ")
}

func TestSessionPerFileReset(t *testing.T) {
	session := api.NewSession(0)
	options := api.TransformOptions{Minify: true, PerFileReset: true}

	result := session.Transform("class Base { #x }", options)
	require.Empty(t, result.Errors)

	result = session.Transform("class Child extends Base { #y; n() { return this.#y } }", options)
	require.Empty(t, result.Errors)
	assert.Contains(t, string(result.Code), "this.ᐁ")
}

func TestSessionCache(t *testing.T) {
	session := api.NewSession(8)
	options := api.TransformOptions{PerFileReset: true}

	first := session.Transform("class C { #x; m() { return this.#x } }", options)
	second := session.Transform("class C { #x; m() { return this.#x } }", options)
	assert.Equal(t, first, second)

	hits, misses := session.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	// Different options are a different entry
	third := session.Transform("class C { #x; m() { return this.#x } }", api.TransformOptions{PerFileReset: true, Prefix: "$"})
	assert.Contains(t, string(third.Code), "this.$x")

	// Results that depend on earlier inputs are never cached
	session.Transform("class C {}", api.TransformOptions{})
	hits, misses = session.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
}

func TestSessionConcurrent(t *testing.T) {
	session := api.NewSession(16)
	results := make([]api.TransformResult, 32)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			input := fmt.Sprintf("class C%d { #x; m() { return this.#x } }", i%4)
			results[i] = session.Transform(input, api.TransformOptions{Minify: true, PerFileReset: true})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, result := range results {
		require.Empty(t, result.Errors)
		assert.Equal(t, fmt.Sprintf("class C%d {\n  m() {\n    return this.ᐁ;\n  }\n}\n", i%4), string(result.Code))
	}
}
