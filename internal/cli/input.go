// Package cli handles cmd line input for DBG and testing the store interactively
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Joshtray/wordrank/internal/utils"
	"github.com/Joshtray/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler processes user input from stdin, providing suggestions.
// A plain line is treated as a prefix to complete; lines starting with '!'
// run store commands. Flags control prefix length bounds, suggestion
// limits, and filtering.
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	requestCount    int
	noFilter        bool
	showCounts      bool
}

// NewInputHandler builds a handler over the completer with the prompt's bounds.
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter, showCounts bool) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		showCounts:      showCounts,
	}
}

// Start runs the prompt loop: read a line, trim it, hand it to
// handleLine. A closed stdin ends the loop without error.
func (h *InputHandler) Start() error {
	log.Print("WordRank CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a prefix for suggestions; !lookup !add !top !list !stats for store ops (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleLine(line)
	}
}

func (h *InputHandler) handleLine(line string) {
	if strings.HasPrefix(line, "!") {
		h.handleCommand(line)
		return
	}
	h.handlePrefix(line)
}

// handleCommand runs the store ops that are not prefix completion.
func (h *InputHandler) handleCommand(line string) {
	fields := strings.Fields(line)

	switch fields[0] {
	case "!lookup":
		if len(fields) != 2 {
			log.Error("usage: !lookup <word>")
			return
		}
		if h.completer.Lookup(fields[1]) {
			log.Printf("'%s' is in the store", fields[1])
		} else {
			log.Printf("'%s' is not in the store", fields[1])
		}

	case "!add":
		if len(fields) != 2 {
			log.Error("usage: !add <word>")
			return
		}
		word := fields[1]
		if !h.noFilter && !utils.IsValidWord(word) {
			log.Errorf("'%s' rejected by input filter", word)
			return
		}
		h.completer.AddWord(word)
		log.Printf("added '%s'", word)

	case "!top":
		k := 10
		if len(fields) == 2 {
			parsed, err := strconv.Atoi(fields[1])
			if err != nil || parsed < 1 {
				log.Error("usage: !top <k>")
				return
			}
			k = parsed
		}
		entries := h.completer.TopWords(k)
		if len(entries) == 0 {
			log.Warn("store is empty")
			return
		}
		log.Printf("%d most common words:", len(entries))
		for i, entry := range entries {
			h.printRow(i+1, entry.Word, entry.Frequency)
		}

	case "!list":
		words := h.completer.Words()
		log.Printf("%s words stored", utils.FormatWithCommas(len(words)))
		shown := words
		if len(shown) > h.suggestLimit {
			shown = shown[:h.suggestLimit]
		}
		for _, word := range shown {
			log.Printf("  %s", word)
		}
		if len(words) > len(shown) {
			log.Printf("  ... and %s more", utils.FormatWithCommas(len(words)-len(shown)))
		}

	case "!stats":
		stats := h.completer.Stats()
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			log.Printf("%-16s %s", k, utils.FormatWithCommas(stats[k]))
		}

	default:
		log.Errorf("Unknown command: %s", fields[0])
	}
}

// handlePrefix completes a single prefix: the best continuation first, then
// the ranked list.
func (h *InputHandler) handlePrefix(prefix string) {
	h.requestCount++

	if len(prefix) < h.minPrefixLength {
		log.Errorf("prefix under %d chars: %s", h.minPrefixLength, prefix)
		return
	}
	if len(prefix) > h.maxPrefixLength {
		log.Errorf("prefix over %d chars: %s", h.maxPrefixLength, prefix)
		return
	}

	// Filtering is on unless -no-filter was given.
	if !h.noFilter {
		if !utils.IsValidPrefix(prefix) {
			log.Infof("No results found for prefix: '%s'", prefix)
			return
		}
	} else {
		log.Debug("Input filtering disabled")
	}

	start := time.Now()
	best := h.completer.Autocomplete(prefix)
	suggestions := h.completer.Complete(prefix, h.suggestLimit)
	elapsed := time.Since(start)

	log.Debugf("[ %v ] for '%s'", elapsed, prefix)

	if best != prefix {
		log.Printf("best: \033[38;5;75m%s\033[0m", best)
	}
	if len(suggestions) == 0 {
		log.Warnf("nothing stored under '%s'", prefix)
		return
	}

	log.Printf("%d suggestions for '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		h.printRow(i+1, s.Word, s.Frequency)
	}
}

func (h *InputHandler) printRow(rank int, word string, freq int) {
	clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", word)
	if h.showCounts {
		log.Printf("%2d. %-40s (freq: %8s)", rank, clWord, utils.FormatWithCommas(freq))
	} else {
		log.Printf("%2d. %s", rank, clWord)
	}
}
