package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := New[string](2)

	a := MakeKey("a", "prefix=_")
	b := MakeKey("b", "prefix=_")
	aMinified := MakeKey("a", "minify")
	assert.NotEqual(t, a, aMinified)
	assert.Equal(t, a, MakeKey("a", "prefix=_"))

	_, ok := c.Get(a)
	assert.False(t, ok)

	c.Add(a, "A")
	c.Add(b, "B")
	value, ok := c.Get(a)
	assert.True(t, ok)
	assert.Equal(t, "A", value)

	// "b" is the least recently used entry
	c.Add(aMinified, "A'")
	_, ok = c.Get(b)
	assert.False(t, ok)

	assert.Equal(t, Stats{Hits: 1, Misses: 2, Entries: 2}, c.Stats())
}

func TestNilCache(t *testing.T) {
	c := New[int](0)
	assert.Nil(t, c)

	c.Add(MakeKey("a", ""), 1)
	_, ok := c.Get(MakeKey("a", ""))
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
}
