// Package suggest layers the service-facing completion surface over the
// core trie: ranked multi-suggestion listings, the single best completion,
// lookups, k-most-common extraction, and a hot cache for repeated prefix
// queries.
package suggest

// Suggestion is one ranked completion candidate.
type Suggestion struct {
	Word      string
	Frequency int
}

// ICompleter defines the surface the CLI and IPC server program against.
type ICompleter interface {
	// AddWord records one occurrence of word in the store.
	AddWord(word string)

	// AddWords records a corpus word sequence in order.
	AddWords(words []string)

	// Complete returns ranked suggestions under prefix, best first.
	Complete(prefix string, limit int) []Suggestion

	// Autocomplete returns the single most frequent completion of prefix,
	// or the prefix itself when nothing completes it.
	Autocomplete(prefix string) string

	// Lookup reports whether word is stored as a complete word.
	Lookup(word string) bool

	// TopWords returns the k most frequent words across the whole store.
	TopWords(k int) []Suggestion

	// Words lists every stored word alphabetically.
	Words() []string

	// Stats returns counters about the store and its cache.
	Stats() map[string]int
}
