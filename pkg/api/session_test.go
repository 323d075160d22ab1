package api

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCacheHitPrintsWarnings(t *testing.T) {
	var out bytes.Buffer
	logOutput = &out
	defer func() { logOutput = nil }()

	session := NewSession(8)
	options := TransformOptions{
		PerFileReset: true,
		LogLevel:     LogLevelWarning,
		Color:        ColorNever,
	}
	input := "class C { #x; _x() {} }"

	first := session.Transform(input, options)
	require.Len(t, first.Warnings, 1)
	second := session.Transform(input, options)
	assert.Equal(t, first, second)

	hits, _ := session.CacheStats()
	assert.Equal(t, 1, hits)

	warning := "<stdin>:1:10: warning: \"#x\" becomes \"_x\" in class C, which is also the name of a public member of that class\n"
	assert.Equal(t, 2, strings.Count(out.String(), warning))
}

func TestSessionCacheHitStaysQuietWhenSilent(t *testing.T) {
	var out bytes.Buffer
	logOutput = &out
	defer func() { logOutput = nil }()

	session := NewSession(8)
	options := TransformOptions{PerFileReset: true}
	session.Transform("class C { #x; _x() {} }", options)
	session.Transform("class C { #x; _x() {} }", options)
	assert.Empty(t, out.String())
}
