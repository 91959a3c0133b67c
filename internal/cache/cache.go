package cache

import (
	"fmt"
	"sync/atomic"

	"i18n-extractor/internal/finder"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// ExtractionCache memoizes extraction results by input text. Templates
// repeat the same expressions (link_to 'Cancel', f.submit 'Save') across
// files, and extraction is a pure function of its input.
type ExtractionCache struct {
	next   finder.Extractor
	memory *lru.Cache[string, finder.Result]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewExtractionCache wraps next with an LRU of the given size. A nil next
// caches the rule cascade.
func NewExtractionCache(next finder.Extractor, size int) (*ExtractionCache, error) {
	if next == nil {
		next = finder.NewRuleExtractor()
	}
	if size < 1 {
		size = 1
	}
	memory, err := lru.New[string, finder.Result](size)
	if err != nil {
		return nil, fmt.Errorf("create extraction cache: %w", err)
	}
	return &ExtractionCache{next: next, memory: memory}, nil
}

// Extract returns the cached result for text, computing it on a miss.
func (c *ExtractionCache) Extract(text string) finder.Result {
	if r, ok := c.memory.Get(text); ok {
		c.hits.Add(1)
		return r
	}
	c.misses.Add(1)
	r := c.next.Extract(text)
	c.memory.Add(text, r)
	return r
}

// Stats returns hit and miss counts.
func (c *ExtractionCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// LogStats writes the hit ratio at debug level.
func (c *ExtractionCache) LogStats() {
	hits, misses := c.Stats()
	log.Debug().
		Int64("hits", hits).
		Int64("misses", misses).
		Int("entries", c.memory.Len()).
		Msg("Extraction cache stats")
}
