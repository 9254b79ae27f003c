// Package corpus turns raw text into the ordered word sequence the store
// consumes. Cleaning keeps letters and word-internal apostrophes, drops
// digits and punctuation, and preserves the order words appear in, since
// insertion order decides frequency ties downstream.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

const fetchTimeout = 30 * time.Second

// Tokenize scans r into cleaned words. Raw tokens split on whitespace;
// within a token ASCII letters survive, an apostrophe survives only between
// letters, and everything else is dropped. Tokens cleaned down to nothing
// disappear.
func Tokenize(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var words []string
	for scanner.Scan() {
		if word := cleanToken(scanner.Bytes()); word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan corpus text: %w", err)
	}
	return words, nil
}

// cleanToken strips a raw whitespace-delimited token down to its letters.
func cleanToken(raw []byte) string {
	cleaned := make([]byte, 0, len(raw))
	for i, b := range raw {
		switch {
		case isLetter(b):
			cleaned = append(cleaned, b)
		case b == '\'' && len(cleaned) > 0 && i+1 < len(raw) && isLetter(raw[i+1]):
			cleaned = append(cleaned, b)
		}
	}
	return string(cleaned)
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// FromFile reads and tokenizes a local text file.
func FromFile(path string) ([]string, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	words, err := Tokenize(f)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize %s: %w", path, err)
	}
	log.Debugf("tokenized %s: %d words in %v", path, len(words), time.Since(start))
	return words, nil
}

// FromURL fetches a corpus over HTTP and tokenizes the body. The context
// bounds the whole fetch on top of the client timeout.
func FromURL(ctx context.Context, url string) ([]string, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build corpus request: %w", err)
	}

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch corpus from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corpus fetch from %s returned %s", url, resp.Status)
	}

	words, err := Tokenize(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize corpus from %s: %w", url, err)
	}
	log.Debugf("fetched %s: %d words in %v", url, len(words), time.Since(start))
	return words, nil
}

// Count tallies occurrences per word for reporting. The store keeps its own
// counts; this exists for quick inspection of a corpus before loading it.
func Count(words []string) map[string]int {
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}
	return counts
}
