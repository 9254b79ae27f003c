package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotCache keeps recent Complete results keyed by query prefix. Interactive
// typing produces runs of shared-prefix queries ("p", "pe", "pen"), which a
// patricia trie stores compactly; invalidation after an insert touches only
// the prefixes along the new word's path.
type HotCache struct {
	prefixes   *patricia.Trie
	accessTime map[string]int64
	accessTick int64
	maxEntries int
	entries    int
	hits       int
	misses     int
	evictions  int
	mu         sync.Mutex
}

// NewHotCache returns a cache holding at most maxEntries prefixes.
func NewHotCache(maxEntries int) *HotCache {
	return &HotCache{
		prefixes:   patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns the cached ranked suggestions for prefix. Callers must treat
// the returned slice as read-only; Complete copies before decorating.
func (hc *HotCache) Get(prefix string) ([]Suggestion, bool) {
	if prefix == "" {
		return nil, false
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.prefixes.Get(patricia.Prefix(prefix))
	if item == nil {
		hc.misses++
		return nil, false
	}
	hc.hits++
	hc.accessTime[prefix] = hc.nextTick()
	return item.([]Suggestion), true
}

// Put stores the ranked suggestions computed for prefix, evicting the least
// recently used entry when full.
func (hc *HotCache) Put(prefix string, suggestions []Suggestion) {
	// Empty prefixes enumerate the whole store and are not worth pinning.
	if prefix == "" {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if hc.prefixes.Get(patricia.Prefix(prefix)) == nil {
		if hc.entries >= hc.maxEntries {
			hc.evictLRU()
		}
		hc.entries++
	}
	hc.prefixes.Set(patricia.Prefix(prefix), suggestions)
	hc.accessTime[prefix] = hc.nextTick()
}

// Invalidate drops the entry for prefix, if cached. Inserting a word makes
// exactly its own prefixes stale, so AddWord calls this once per prefix of
// the new word and everything else stays warm.
func (hc *HotCache) Invalidate(prefix string) {
	if prefix == "" {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if hc.prefixes.Delete(patricia.Prefix(prefix)) {
		delete(hc.accessTime, prefix)
		hc.entries--
	}
}

// Reset drops every cached entry. Hit and miss counters survive so stats
// stay meaningful across filter changes.
func (hc *HotCache) Reset() {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.prefixes = patricia.NewTrie()
	hc.accessTime = make(map[string]int64, hc.maxEntries)
	hc.entries = 0
}

// Len returns the number of cached prefixes.
func (hc *HotCache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.entries
}

// Stats reports the cache counters; Completer.Stats merges them with the
// store's own.
func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"cacheEntries":   hc.entries,
		"cacheMax":       hc.maxEntries,
		"cacheHits":      hc.hits,
		"cacheMisses":    hc.misses,
		"cacheEvictions": hc.evictions,
	}
}

func (hc *HotCache) nextTick() int64 {
	hc.accessTick++
	return hc.accessTick
}

// evictLRU removes the least recently touched prefix. Called with the lock
// held.
func (hc *HotCache) evictLRU() {
	var oldest string
	var oldestTick int64 = math.MaxInt64
	found := false

	for prefix, tick := range hc.accessTime {
		if tick < oldestTick {
			oldestTick = tick
			oldest = prefix
			found = true
		}
	}
	if !found {
		return
	}

	hc.prefixes.Delete(patricia.Prefix(oldest))
	delete(hc.accessTime, oldest)
	hc.entries--
	hc.evictions++
	log.Debugf("evicted prefix %q from hot cache", oldest)
}
