package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Joshtray/wordrank/internal/logger"
	"github.com/Joshtray/wordrank/internal/utils"
	"github.com/Joshtray/wordrank/pkg/config"
	"github.com/Joshtray/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// defaultLimit applies when a complete request leaves 'l' unset.
const defaultLimit = 10

// Server handles the IPC for the word store
type Server struct {
	completer    suggest.ICompleter
	cfg          *config.Config
	dec          *msgpack.Decoder
	enc          *msgpack.Encoder
	log          *log.Logger
	requestCount int
}

// NewServer creates a completion server using stdin/stdout for IPC
func NewServer(completer suggest.ICompleter, cfg *config.Config) *Server {
	return NewServerIO(completer, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a server over explicit streams
func NewServerIO(completer suggest.ICompleter, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		completer: completer,
		cfg:       cfg,
		dec:       msgpack.NewDecoder(r),
		enc:       msgpack.NewEncoder(w),
		log:       logger.Default("ipc"),
	}
}

// Start begins listening for IPC requests. It signals readiness, then
// serves until stdin closes. Malformed frames get an error response and the
// loop keeps going; only a dead stream ends it.
func (s *Server) Start() error {
	s.log.Debug("Starting server.")
	s.send(StatusResponse{Status: "ready"})

	for {
		var raw msgpack.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.log.Debug("Input stream closed, shutting down.")
				return nil
			}
			s.log.Errorf("Reading request stream: %v", err)
			return err
		}

		var request Request
		if err := msgpack.Unmarshal(raw, &request); err != nil {
			s.log.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request based on op
func (s *Server) handleRequest(request Request) {
	s.requestCount++
	if s.requestCount%500 == 0 {
		s.log.Debugf("Served %d requests", s.requestCount)
	}

	switch request.Op {
	case "complete":
		s.handleComplete(request)
	case "best":
		s.handleBest(request)
	case "lookup":
		s.handleLookup(request)
	case "add":
		s.handleAdd(request)
	case "top":
		s.handleTop(request)
	case "list":
		s.handleList(request)
	case "stats":
		s.handleStats(request)
	case "ping":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// handleComplete answers a ranked completion request. The limit falls back
// to a default and clamps to the configured maximum.
func (s *Server) handleComplete(request Request) {
	prefix, ok := s.validPrefix(request)
	if !ok {
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	suggestions := s.completer.Complete(prefix, limit)
	elapsed := time.Since(start)

	response := CompleteResponse{
		ID:          request.ID,
		Suggestions: make([]ResponseSuggestion, len(suggestions)),
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
	for i, sug := range suggestions {
		response.Suggestions[i] = ResponseSuggestion{
			Word: sug.Word,
			Rank: uint16(i + 1),
			Freq: sug.Frequency,
		}
	}
	s.send(response)
}

// handleBest answers single-shot autocomplete. A miss echoes the prefix, so
// the response always carries a word.
func (s *Server) handleBest(request Request) {
	prefix, ok := s.validPrefix(request)
	if !ok {
		return
	}

	start := time.Now()
	word := s.completer.Autocomplete(prefix)
	elapsed := time.Since(start)

	s.send(BestResponse{ID: request.ID, Word: word, TimeTaken: elapsed.Microseconds()})
}

func (s *Server) handleLookup(request Request) {
	word, ok := s.validWord(request, false)
	if !ok {
		return
	}

	start := time.Now()
	found := s.completer.Lookup(word)
	elapsed := time.Since(start)

	s.send(LookupResponse{ID: request.ID, Found: found, TimeTaken: elapsed.Microseconds()})
}

func (s *Server) handleAdd(request Request) {
	word, ok := s.validWord(request, s.cfg.Server.EnableFilter)
	if !ok {
		return
	}

	start := time.Now()
	s.completer.AddWord(word)
	elapsed := time.Since(start)

	s.send(AddResponse{ID: request.ID, Status: "ok", TimeTaken: elapsed.Microseconds()})
}

func (s *Server) handleTop(request Request) {
	k := request.Count
	if k < 1 {
		s.sendError(request.ID, "Missing or invalid 'k' parameter", 400)
		return
	}
	if k > s.cfg.Server.MaxLimit {
		k = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	top := s.completer.TopWords(k)
	elapsed := time.Since(start)

	response := TopResponse{
		ID:        request.ID,
		Entries:   make([]TopEntry, len(top)),
		Count:     len(top),
		TimeTaken: elapsed.Microseconds(),
	}
	for i, entry := range top {
		response.Entries[i] = TopEntry{Word: entry.Word, Freq: entry.Frequency}
	}
	s.send(response)
}

func (s *Server) handleList(request Request) {
	start := time.Now()
	words := s.completer.Words()
	elapsed := time.Since(start)

	if request.Limit > 0 && len(words) > request.Limit {
		words = words[:request.Limit]
	}
	s.send(ListResponse{ID: request.ID, Words: words, Count: len(words), TimeTaken: elapsed.Microseconds()})
}

func (s *Server) handleStats(request Request) {
	start := time.Now()
	stats := s.completer.Stats()
	elapsed := time.Since(start)

	s.send(StatsResponse{ID: request.ID, Stats: stats, TimeTaken: elapsed.Microseconds()})
}

// validPrefix applies the wire-level prefix rules: present, inside the
// configured length window, and past the input filter when enabled.
func (s *Server) validPrefix(request Request) (string, bool) {
	prefix := request.Prefix
	if prefix == "" {
		s.sendError(request.ID, "Missing 'p' parameter", 400)
		return "", false
	}
	if len(prefix) < s.cfg.Server.MinPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix must be at least %d characters", s.cfg.Server.MinPrefix), 400)
		return "", false
	}
	if len(prefix) > s.cfg.Server.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.cfg.Server.MaxPrefix), 400)
		return "", false
	}
	if s.cfg.Server.EnableFilter && !utils.IsValidPrefix(prefix) {
		s.sendError(request.ID, "Prefix rejected by input filter", 400)
		return "", false
	}
	return prefix, true
}

// validWord applies the wire-level word rules for lookup and add. Lookups
// skip the input filter: junk words simply are not in the store.
func (s *Server) validWord(request Request, filtered bool) (string, bool) {
	word := request.Word
	if word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return "", false
	}
	if len(word) > s.cfg.Server.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Word exceeds maximum length of %d characters", s.cfg.Server.MaxPrefix), 400)
		return "", false
	}
	if filtered && !utils.IsValidWord(word) {
		s.sendError(request.ID, "Word rejected by input filter", 400)
		return "", false
	}
	return word, true
}

// send encodes one response onto the wire
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
