// Package trie implements the prefix tree that backs wordrank: exact word
// lookup, lexicographic listing, k-most-common extraction, and constant-time
// frequency-biased autocompletion over words inserted from a corpus.
package trie

// node represents one prefix of the tree, possibly a complete word.
// prefix holds the full path string from the root, children are keyed by the
// next byte, and parent is a back-reference used only to propagate frequency
// updates upward -- ownership runs strictly root -> children.
type node struct {
	prefix   string
	children map[byte]*node
	parent   *node
	terminal bool
	freq     int
	best     *node
}

func newNode(prefix string, parent *node) *node {
	return &node{
		prefix:   prefix,
		children: make(map[byte]*node),
		parent:   parent,
	}
}

// Trie is a prefix tree over lowercase words with per-word insertion counts.
// Every node caches the most frequent word of its own subtree, so
// Autocomplete answers in O(len(prefix)) regardless of tree size.
//
// A Trie is not safe for concurrent use; callers that share one across
// goroutines must serialize access themselves.
type Trie struct {
	root  *node
	words int
	total int
}

// New returns an empty trie, seeded in order with any given words.
func New(words ...string) *Trie {
	t := &Trie{root: newNode("", nil)}
	for _, w := range words {
		t.Insert(w)
	}
	return t
}

// Fold returns the store's internal lowercase form of s, the same simple
// ASCII mapping Insert applies before indexing.
func Fold(s string) string {
	return lowerASCII(s)
}

// lowerASCII folds A-Z to a-z and leaves every other byte untouched. The
// store indexes simple lowercase ASCII; no wider case folding applies.
func lowerASCII(s string) string {
	i := 0
	for ; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			break
		}
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if c := b[i]; c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// Insert records one occurrence of word. The word is lowercased before
// indexing, so lookups are case-insensitive by construction. Inserting the
// empty string is a no-op: the root stands for the empty prefix and is never
// a word.
//
// Cost is O(len(word)) including the best-descendant propagation.
func (t *Trie) Insert(word string) {
	if word == "" {
		return
	}
	word = lowerASCII(word)

	n := t.root
	for i := 0; i < len(word); i++ {
		c := word[i]
		child, ok := n.children[c]
		if !ok {
			child = newNode(word[:i+1], n)
			n.children[c] = child
		}
		n = child
	}

	if !n.terminal {
		n.terminal = true
		t.words++
	}
	n.freq++
	t.total++

	// Ties compare with <= so the most recent insertion wins; autocomplete
	// determinism under equal frequencies depends on this.
	if n.best == nil || n.best.freq <= n.freq {
		n.best = n
	}
	for p := n.parent; p != nil; p = p.parent {
		if p.best == nil || p.best.freq <= n.best.freq {
			p.best = n.best
		}
		n = p
	}
}

// Lookup reports whether word was ever inserted as a complete word.
// Matching is case-insensitive. A path that exists only as a prefix of other
// words does not count.
func (t *Trie) Lookup(word string) bool {
	n := t.walk(lowerASCII(word))
	return n != nil && n.terminal
}

// Autocomplete returns the most frequently inserted word starting with
// prefix, matched case-insensitively. The prefix comes back unchanged when
// no stored word starts with it. A prefix that is itself the most frequent
// word in its own subtree completes to itself.
func (t *Trie) Autocomplete(prefix string) string {
	n := t.walk(lowerASCII(prefix))
	if n == nil || n.best == nil {
		return prefix
	}
	return n.best.prefix
}

// walk follows word byte by byte from the root; nil when the path breaks.
func (t *Trie) walk(word string) *node {
	n := t.root
	for i := 0; i < len(word); i++ {
		child, ok := n.children[word[i]]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// Len returns the number of distinct words stored.
func (t *Trie) Len() int { return t.words }

// Total returns the number of insertions recorded.
func (t *Trie) Total() int { return t.total }
