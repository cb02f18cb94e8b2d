package railtracker

import (
	"bytes"
	"sync"
)

// ResponseCache memoizes serialized responses until the next session update.
// Display clients poll far more often than samples arrive.
type ResponseCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gen   uint64
	hits  uint64
}

func NewResponseCache() *ResponseCache {
	return &ResponseCache{items: map[string][]byte{}}
}

func (rc *ResponseCache) memoKey(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a)
	}
	return b.String()
}

// Get returns the cached bytes for args, building them on a miss.
func (rc *ResponseCache) Get(build func() ([]byte, error), args ...string) ([]byte, error) {
	key := rc.memoKey(args...)
	rc.mu.Lock()
	if buf, ok := rc.items[key]; ok {
		rc.hits++
		rc.mu.Unlock()
		return buf, nil
	}
	gen := rc.gen
	rc.mu.Unlock()
	buf, err := build()
	if err != nil {
		return nil, err
	}
	rc.mu.Lock()
	// An update landed while building; serve but do not keep the result.
	if gen == rc.gen {
		rc.items[key] = buf
	}
	rc.mu.Unlock()
	return buf, nil
}

// Invalidate drops every entry.
func (rc *ResponseCache) Invalidate() {
	rc.mu.Lock()
	rc.items = map[string][]byte{}
	rc.gen++
	rc.mu.Unlock()
}

// Hits reports how many lookups were served from cache.
func (rc *ResponseCache) Hits() uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hits
}
