package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// This is a cache of transform results keyed by the contents of the input and
// the options used to transform it. It only works if:
//
//   - The result depends on nothing but the input contents and the options.
//     Transforms that read or update state shared with other inputs (such as
//     allocation records carried over from an earlier file) must not be
//     cached, because reusing a result would skip updating that state.
//
//   - Cached values are considered immutable. There is no way to enforce this
//     in Go, but callers must copy anything they want to change.
type Cache[V any] struct {
	mutex   sync.Mutex
	entries *lru.Cache[Key, V]
	hits    int
	misses  int
}

type Key struct {
	Contents uint64
	Options  uint64
}

// MakeKey hashes the contents and a string that identifies the options
func MakeKey(contents string, options string) Key {
	return Key{
		Contents: xxhash.Sum64String(contents),
		Options:  xxhash.Sum64String(options),
	}
}

// New returns a cache holding at most "size" results. A size of zero or less
// returns nil, which is a valid cache that never stores anything.
func New[V any](size int) *Cache[V] {
	if size <= 0 {
		return nil
	}
	entries, err := lru.New[Key, V](size)
	if err != nil {
		panic(err)
	}
	return &Cache[V]{entries: entries}
}

func (c *Cache[V]) Get(key Key) (value V, ok bool) {
	if c == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	value, ok = c.entries.Get(key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return
}

func (c *Cache[V]) Add(key Key, value V) {
	if c == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries.Add(key, value)
}

type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

func (c *Cache[V]) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: c.entries.Len()}
}
