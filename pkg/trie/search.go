package trie

import "sort"

// WordCount pairs a stored word with its insertion count.
type WordCount struct {
	Word  string
	Count int
}

// VisitSubtree calls fn for every stored word that starts with prefix, in
// lexicographic order. The walk stops early when fn returns false. The
// prefix is matched case-insensitively; a missing path visits nothing.
func (t *Trie) VisitSubtree(prefix string, fn func(word string, count int) bool) {
	n := t.walk(lowerASCII(prefix))
	if n == nil {
		return
	}
	visit(n, fn)
}

// visit is a pre-order walk over an explicit stack, children taken in
// sorted key order, so words come out lexicographically. Deep tries stay
// within this slice instead of the call stack.
func visit(start *node, fn func(word string, count int) bool) {
	stack := []*node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.terminal && !fn(n.prefix, n.freq) {
			return
		}
		keys := childKeys(n)
		for i := len(keys) - 1; i >= 0; i-- {
			stack = append(stack, n.children[keys[i]])
		}
	}
}

// childKeys snapshots and sorts the child key bytes of n. The children map
// stays the single structure; order is derived only while traversing.
func childKeys(n *node) []byte {
	keys := make([]byte, 0, len(n.children))
	for c := range n.children {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Words returns every stored word in lexicographic order. The root's empty
// prefix is never part of the result.
func (t *Trie) Words() []string {
	words := make([]string, 0, t.words)
	visit(t.root, func(word string, _ int) bool {
		words = append(words, word)
		return true
	})
	return words
}

// MostCommon returns up to k words ordered by descending insertion count.
// Equal counts order the lexicographically smaller word first. When fewer
// than k distinct words are stored the result is simply shorter: exhaustion
// shows as len(result) < k, never as placeholder entries.
//
// Every selection rescans the whole tree because the eligible set shrinks
// each round; the cached best-descendant pointers cannot serve an exclusion
// list.
func (t *Trie) MostCommon(k int) []WordCount {
	if k <= 0 {
		return nil
	}
	n := k
	if t.words < n {
		n = t.words
	}
	result := make([]WordCount, 0, n)
	picked := make(map[WordCount]struct{}, n)
	for len(result) < k {
		wc, ok := t.maxFrequency(picked)
		if !ok {
			break
		}
		picked[wc] = struct{}{}
		result = append(result, wc)
	}
	return result
}

// maxFrequency scans every terminal node for the highest count whose exact
// (word, count) pair has not been picked yet. Visit order does not matter:
// the (count desc, word asc) rule decides every comparison.
func (t *Trie) maxFrequency(picked map[WordCount]struct{}) (WordCount, bool) {
	var best WordCount
	found := false
	stack := []*node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range n.children {
			stack = append(stack, child)
		}
		if !n.terminal {
			continue
		}
		wc := WordCount{Word: n.prefix, Count: n.freq}
		if _, done := picked[wc]; done {
			continue
		}
		if !found || wc.Count > best.Count || (wc.Count == best.Count && wc.Word < best.Word) {
			best = wc
			found = true
		}
	}
	return best, found
}
