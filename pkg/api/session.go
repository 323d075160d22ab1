package api

import (
	"sync"

	"github.com/unprivate/unprivate/internal/cache"
	"github.com/unprivate/unprivate/internal/config"
	"github.com/unprivate/unprivate/internal/logger"
	"github.com/unprivate/unprivate/internal/privatize"
)

// Session carries allocation state from one Transform call to the next. A
// class in a later input that extends a class from an earlier input shares
// the earlier class's names, so the two never collide. Sessions are safe to
// use from multiple goroutines.
type Session struct {
	mutex    sync.Mutex
	store    *privatize.Store
	captured *config.Options
	results  *cache.Cache[TransformResult]
}

// NewSession creates a session. Results of calls with "PerFileReset" are
// cached in a least-recently-used cache of "cacheSize" entries, since those
// depend only on their input. A cache size of zero disables the cache.
func NewSession(cacheSize int) *Session {
	return &Session{
		store:   privatize.NewStore(),
		results: cache.New[TransformResult](cacheSize),
	}
}

func (s *Session) Transform(input string, options TransformOptions) TransformResult {
	log := newLog(options)
	captured := validateOptions(log, options)
	if log.HasErrors() {
		msgs := log.Done()
		return TransformResult{
			Errors:   messagesOfKind(logger.Error, msgs),
			Warnings: messagesOfKind(logger.Warning, msgs),
		}
	}

	// Each input starts from scratch and can run in parallel with others
	if captured.PerFileReset {
		key := cache.MakeKey(input, optionsFingerprint(options, captured))
		if result, ok := s.results.Get(key); ok {
			replayMessages(log, result)
			return result
		}
		result := transformImpl(log, input, options, captured, privatize.NewStore())
		s.results.Add(key, result)
		return result
	}

	// Otherwise inputs are processed one at a time with the configuration
	// captured from the first one
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.captured == nil {
		s.captured = &captured
	}
	return transformImpl(log, input, options, *s.captured, s.store)
}

// CacheStats reports how often a cached result was reused
func (s *Session) CacheStats() (hits int, misses int) {
	stats := s.results.Stats()
	return stats.Hits, stats.Misses
}
