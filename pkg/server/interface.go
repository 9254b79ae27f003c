/*
Package server implements msgpack IPC for the word store.

The server provides a minimal interface for frequency-ranked completions
using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports completion queries,
store mutations, and introspection ops. Messages are processed synchronously
with timing info included in responses.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout. Every
message carries an ID the response echoes back, plus an op selector and the
fields that op reads.

Completion requests use mainly this structure:

	{"id": "req_001", "op": "complete", "p": "ros", "l": 24}

The server responds with suggestions ranked by freq:

	{"id": "req_001", "s": [{"w": "rosebud", "r": 1, "f": 3}, {"w": "rosemary", "r": 2, "f": 1}], "c": 2, "t": 145}

Single-shot autocomplete asks for the best continuation only:

	{"id": "req_002", "op": "best", "p": "pent"}
	{"id": "req_002", "w": "pentapolis", "t": 12}

Store ops cover the rest of the surface: "lookup" answers exact-word
membership, "add" records one occurrence of a word, "top" returns the k
most frequent words, "list" returns the alphabetical word listing, "stats"
reports store and cache counters, and "ping" answers with a status so
clients can probe liveness.

Responses include error details when an op fails; malformed values get a
coded error and the loop keeps serving. EOF on stdin shuts the server down
cleanly.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and
reducing latency in most cases.
*/
package server

// Request is the envelope every client message arrives in. Op selects the
// operation; the other fields are read per op and ignored otherwise.
type Request struct {
	ID     string `msgpack:"id"`
	Op     string `msgpack:"op"`
	Prefix string `msgpack:"p,omitempty"`
	Word   string `msgpack:"w,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Count  int    `msgpack:"k,omitempty"`
}

// ResponseSuggestion - one ranked completion
type ResponseSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
	Freq int    `msgpack:"f"`
}

// CompleteResponse - ranked completions for a prefix
type CompleteResponse struct {
	ID          string               `msgpack:"id"`
	Suggestions []ResponseSuggestion `msgpack:"s"`
	Count       int                  `msgpack:"c"`
	TimeTaken   int64                `msgpack:"t"`
}

// BestResponse - single best continuation; echoes the prefix on a miss
type BestResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	TimeTaken int64  `msgpack:"t"`
}

// LookupResponse - exact word membership
type LookupResponse struct {
	ID        string `msgpack:"id"`
	Found     bool   `msgpack:"found"`
	TimeTaken int64  `msgpack:"t"`
}

// AddResponse - acknowledgement for a store mutation
type AddResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	TimeTaken int64  `msgpack:"t"`
}

// TopEntry - one row of the k-most-common listing
type TopEntry struct {
	Word string `msgpack:"w"`
	Freq int    `msgpack:"f"`
}

// TopResponse - the k most frequent words, most frequent first
type TopResponse struct {
	ID        string     `msgpack:"id"`
	Entries   []TopEntry `msgpack:"e"`
	Count     int        `msgpack:"c"`
	TimeTaken int64      `msgpack:"t"`
}

// ListResponse - alphabetical word listing
type ListResponse struct {
	ID        string   `msgpack:"id"`
	Words     []string `msgpack:"words"`
	Count     int      `msgpack:"c"`
	TimeTaken int64    `msgpack:"t"`
}

// StatsResponse - store and cache counters
type StatsResponse struct {
	ID        string         `msgpack:"id"`
	Stats     map[string]int `msgpack:"stats"`
	TimeTaken int64          `msgpack:"t"`
}

// StatusResponse - readiness signal and ping replies
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
