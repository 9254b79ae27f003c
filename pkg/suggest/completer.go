package suggest

import (
	"sort"
	"time"

	"github.com/Joshtray/wordrank/pkg/trie"
	"github.com/charmbracelet/log"
)

const defaultCacheEntries = 512

// Completer answers completion queries from a frequency-ranked trie and
// keeps recent Complete results in a prefix-keyed hot cache. Like the trie
// it wraps, a Completer serves one session at a time; it takes no locks of
// its own.
type Completer struct {
	trie    *trie.Trie
	cache   *HotCache
	minFreq int
}

// NewCompleter returns a Completer over an empty store with the default hot
// cache size.
func NewCompleter() *Completer {
	return NewCompleterWithCache(defaultCacheEntries)
}

// NewCompleterWithCache sizes the hot cache explicitly; entries <= 0
// disables caching entirely.
func NewCompleterWithCache(entries int) *Completer {
	c := &Completer{
		trie:    trie.New(),
		minFreq: 1,
	}
	if entries > 0 {
		c.cache = NewHotCache(entries)
	}
	return c
}

// SetMinFrequency drops words below n from Complete listings. Lookup,
// Autocomplete and TopWords are contract operations and stay unfiltered.
func (c *Completer) SetMinFrequency(n int) {
	if n < 1 {
		n = 1
	}
	if n != c.minFreq && c.cache != nil {
		// Cached listings were ranked under the old threshold.
		c.cache.Reset()
	}
	c.minFreq = n
}

// AddWord records one occurrence of word and invalidates the cached results
// of every prefix the word extends; entries off the word's path stay valid.
func (c *Completer) AddWord(word string) {
	if word == "" {
		return
	}
	c.trie.Insert(word)
	if c.cache != nil {
		folded := trie.Fold(word)
		for i := 0; i <= len(folded); i++ {
			c.cache.Invalidate(folded[:i])
		}
	}
}

// AddWords seeds the store from an ordered corpus word sequence.
func (c *Completer) AddWords(words []string) {
	start := time.Now()
	for _, w := range words {
		c.AddWord(w)
	}
	log.Debugf("seeded %d tokens (%d distinct) in %v", len(words), c.trie.Len(), time.Since(start))
}

// Complete returns every stored word under prefix ranked by frequency,
// highest first and lexicographic among equals. The prefix's own exact
// match is excluded so the caller's input never suggests itself, and words
// below the configured minimum frequency are dropped. The capitalization
// pattern of the typed prefix is re-applied to the output.
//
// limit caps the result length; limit <= 0 means no cap.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	lower := trie.Fold(prefix)

	ranked, ok := c.cachedComplete(lower)
	if !ok {
		ranked = c.rankedUnder(lower)
		if c.cache != nil {
			c.cache.Put(lower, ranked)
		}
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	caps := capitalPattern(prefix)
	out := make([]Suggestion, len(ranked))
	for i, s := range ranked {
		out[i] = Suggestion{Word: applyCapitals(s.Word, caps), Frequency: s.Frequency}
	}
	return out
}

func (c *Completer) cachedComplete(lower string) ([]Suggestion, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(lower)
}

// rankedUnder walks the subtree once and sorts the survivors.
func (c *Completer) rankedUnder(lower string) []Suggestion {
	var found []Suggestion
	c.trie.VisitSubtree(lower, func(word string, count int) bool {
		if word == lower {
			return true
		}
		if count < c.minFreq {
			return true
		}
		found = append(found, Suggestion{Word: word, Frequency: count})
		return true
	})

	sort.Slice(found, func(i, j int) bool {
		if found[i].Frequency != found[j].Frequency {
			return found[i].Frequency > found[j].Frequency
		}
		return found[i].Word < found[j].Word
	})
	return found
}

// Autocomplete returns the most frequent word extending prefix in constant
// time per query. The stored lowercase form comes back on a hit; the prefix
// comes back untouched on a miss. No capitalization restore happens here --
// this is the raw contract surface.
func (c *Completer) Autocomplete(prefix string) string {
	return c.trie.Autocomplete(prefix)
}

// Lookup reports whether word was inserted as a complete word.
func (c *Completer) Lookup(word string) bool {
	return c.trie.Lookup(word)
}

// TopWords returns the k most frequent words in the store, most frequent
// first, lexicographically smallest first among equals. Fewer than k
// distinct words yield a shorter result.
func (c *Completer) TopWords(k int) []Suggestion {
	top := c.trie.MostCommon(k)
	out := make([]Suggestion, len(top))
	for i, wc := range top {
		out[i] = Suggestion{Word: wc.Word, Frequency: wc.Count}
	}
	return out
}

// Words lists every stored word alphabetically.
func (c *Completer) Words() []string {
	return c.trie.Words()
}

// Stats reports store and cache counters.
func (c *Completer) Stats() map[string]int {
	stats := map[string]int{
		"distinctWords": c.trie.Len(),
		"totalInserts":  c.trie.Total(),
	}
	if c.cache != nil {
		for k, v := range c.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}

// capitalPattern remembers which byte positions of the typed prefix were
// uppercase so suggestions can mirror the caller's casing.
func capitalPattern(prefix string) []bool {
	caps := make([]bool, len(prefix))
	upper := false
	for i := 0; i < len(prefix); i++ {
		if prefix[i] >= 'A' && prefix[i] <= 'Z' {
			caps[i] = true
			upper = true
		}
	}
	if !upper {
		return nil
	}
	return caps
}

// applyCapitals re-applies a capitalization pattern to a stored lowercase
// word.
func applyCapitals(word string, caps []bool) string {
	if len(caps) == 0 {
		return word
	}
	b := []byte(word)
	for i := 0; i < len(b) && i < len(caps); i++ {
		if caps[i] && b[i] >= 'a' && b[i] <= 'z' {
			b[i] = b[i] - 'a' + 'A'
		}
	}
	return string(b)
}
