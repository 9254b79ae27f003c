package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Joshtray/wordrank/pkg/config"
	"github.com/Joshtray/wordrank/pkg/suggest"
	"github.com/vmihailenco/msgpack/v5"
)

func addTimes(c *suggest.Completer, word string, n int) {
	for i := 0; i < n; i++ {
		c.AddWord(word)
	}
}

func penCompleter() *suggest.Completer {
	c := suggest.NewCompleter()
	addTimes(c, "pen", 2)
	addTimes(c, "pencil", 5)
	addTimes(c, "pentapolis", 3)
	addTimes(c, "penguin", 1)
	return c
}

// runSession feeds encoded requests through a server over in-memory
// buffers and returns a decoder positioned after the ready signal.
func runSession(t *testing.T, completer suggest.ICompleter, cfg *config.Config, requests ...Request) *msgpack.Decoder {
	t.Helper()

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}

	var out bytes.Buffer
	srv := NewServerIO(completer, cfg, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("decoding ready signal: %v", err)
	}
	if ready.Status != "ready" {
		t.Fatalf("ready status = %q, want \"ready\"", ready.Status)
	}
	return dec
}

func decodeAs[T any](t *testing.T, dec *msgpack.Decoder) T {
	t.Helper()
	var v T
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestServerComplete(t *testing.T) {
	dec := runSession(t, penCompleter(), config.DefaultConfig(),
		Request{ID: "req_001", Op: "complete", Prefix: "pen", Limit: 3})

	resp := decodeAs[CompleteResponse](t, dec)
	if resp.ID != "req_001" {
		t.Errorf("ID = %q, want req_001", resp.ID)
	}
	if resp.Count != 3 || len(resp.Suggestions) != 3 {
		t.Fatalf("Count = %d with %d suggestions, want 3", resp.Count, len(resp.Suggestions))
	}

	want := []ResponseSuggestion{
		{Word: "pencil", Rank: 1, Freq: 5},
		{Word: "pentapolis", Rank: 2, Freq: 3},
		{Word: "penguin", Rank: 3, Freq: 1},
	}
	for i, sug := range resp.Suggestions {
		if sug != want[i] {
			t.Errorf("suggestion %d = %+v, want %+v", i, sug, want[i])
		}
	}
}

func TestServerBest(t *testing.T) {
	dec := runSession(t, penCompleter(), config.DefaultConfig(),
		Request{ID: "a", Op: "best", Prefix: "pent"},
		Request{ID: "b", Op: "best", Prefix: "quill"})

	hit := decodeAs[BestResponse](t, dec)
	if hit.Word != "pentapolis" {
		t.Errorf("best for \"pent\" = %q, want \"pentapolis\"", hit.Word)
	}

	miss := decodeAs[BestResponse](t, dec)
	if miss.Word != "quill" {
		t.Errorf("best for unknown prefix = %q, want the prefix back", miss.Word)
	}
}

func TestServerLookup(t *testing.T) {
	dec := runSession(t, penCompleter(), config.DefaultConfig(),
		Request{ID: "a", Op: "lookup", Word: "pencil"},
		Request{ID: "b", Op: "lookup", Word: "pawn"})

	if resp := decodeAs[LookupResponse](t, dec); !resp.Found {
		t.Error("lookup of stored word reported not found")
	}
	if resp := decodeAs[LookupResponse](t, dec); resp.Found {
		t.Error("lookup of missing word reported found")
	}
}

func TestServerAddThenLookup(t *testing.T) {
	dec := runSession(t, penCompleter(), config.DefaultConfig(),
		Request{ID: "a", Op: "add", Word: "zymurgy"},
		Request{ID: "b", Op: "lookup", Word: "zymurgy"})

	if resp := decodeAs[AddResponse](t, dec); resp.Status != "ok" {
		t.Errorf("add status = %q, want ok", resp.Status)
	}
	if resp := decodeAs[LookupResponse](t, dec); !resp.Found {
		t.Error("added word not found on the next request")
	}
}

func TestServerTop(t *testing.T) {
	dec := runSession(t, penCompleter(), config.DefaultConfig(),
		Request{ID: "a", Op: "top", Count: 2})

	resp := decodeAs[TopResponse](t, dec)
	want := []TopEntry{{Word: "pencil", Freq: 5}, {Word: "pentapolis", Freq: 3}}
	if resp.Count != 2 || len(resp.Entries) != 2 {
		t.Fatalf("Count = %d with %d entries, want 2", resp.Count, len(resp.Entries))
	}
	for i, entry := range resp.Entries {
		if entry != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entry, want[i])
		}
	}
}

func TestServerList(t *testing.T) {
	dec := runSession(t, penCompleter(), config.DefaultConfig(),
		Request{ID: "a", Op: "list"},
		Request{ID: "b", Op: "list", Limit: 2})

	full := decodeAs[ListResponse](t, dec)
	wantAll := []string{"pen", "pencil", "penguin", "pentapolis"}
	if strings.Join(full.Words, " ") != strings.Join(wantAll, " ") {
		t.Errorf("list = %v, want %v", full.Words, wantAll)
	}

	capped := decodeAs[ListResponse](t, dec)
	if len(capped.Words) != 2 || capped.Count != 2 {
		t.Errorf("capped list = %v (count %d), want first 2", capped.Words, capped.Count)
	}
}

func TestServerStats(t *testing.T) {
	dec := runSession(t, penCompleter(), config.DefaultConfig(),
		Request{ID: "a", Op: "stats"})

	resp := decodeAs[StatsResponse](t, dec)
	if resp.Stats["distinctWords"] != 4 {
		t.Errorf("distinctWords = %d, want 4", resp.Stats["distinctWords"])
	}
	if resp.Stats["totalInserts"] != 11 {
		t.Errorf("totalInserts = %d, want 11", resp.Stats["totalInserts"])
	}
}

func TestServerPing(t *testing.T) {
	dec := runSession(t, penCompleter(), config.DefaultConfig(),
		Request{ID: "hb_1", Op: "ping"})

	resp := decodeAs[StatusResponse](t, dec)
	if resp.ID != "hb_1" || resp.Status != "ok" {
		t.Errorf("ping response = %+v", resp)
	}
}

func TestServerValidation(t *testing.T) {
	long := strings.Repeat("a", 61) // over the default max_prefix of 60

	testCases := []struct {
		name string
		req  Request
	}{
		{"unknown op", Request{ID: "x", Op: "destroy"}},
		{"complete without prefix", Request{ID: "x", Op: "complete"}},
		{"overlong prefix", Request{ID: "x", Op: "complete", Prefix: long}},
		{"filtered prefix", Request{ID: "x", Op: "complete", Prefix: "pen!"}},
		{"lookup without word", Request{ID: "x", Op: "lookup"}},
		{"add filtered word", Request{ID: "x", Op: "add", Word: "wwww"}},
		{"top without k", Request{ID: "x", Op: "top"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dec := runSession(t, penCompleter(), config.DefaultConfig(), tc.req)
			resp := decodeAs[ErrorResponse](t, dec)
			if resp.Code != 400 {
				t.Errorf("error code = %d, want 400", resp.Code)
			}
			if resp.ID != "x" {
				t.Errorf("error ID = %q, want the request id", resp.ID)
			}
		})
	}
}

func TestServerFilterDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.EnableFilter = false

	dec := runSession(t, penCompleter(), cfg,
		Request{ID: "a", Op: "add", Word: "wwww"},
		Request{ID: "b", Op: "lookup", Word: "wwww"})

	if resp := decodeAs[AddResponse](t, dec); resp.Status != "ok" {
		t.Errorf("unfiltered add status = %q, want ok", resp.Status)
	}
	if resp := decodeAs[LookupResponse](t, dec); !resp.Found {
		t.Error("unfiltered add did not reach the store")
	}
}

func TestServerSurvivesMalformedFrame(t *testing.T) {
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	if err := enc.Encode(Request{ID: "a", Op: "ping"}); err != nil {
		t.Fatal(err)
	}
	if err := enc.Encode(42); err != nil { // not a request map
		t.Fatal(err)
	}
	if err := enc.Encode(Request{ID: "b", Op: "ping"}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	srv := NewServerIO(penCompleter(), config.DefaultConfig(), &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	if ready := decodeAs[StatusResponse](t, dec); ready.Status != "ready" {
		t.Fatalf("ready status = %q", ready.Status)
	}
	if resp := decodeAs[StatusResponse](t, dec); resp.ID != "a" {
		t.Errorf("first ping ID = %q, want a", resp.ID)
	}
	if resp := decodeAs[ErrorResponse](t, dec); resp.Code != 400 {
		t.Errorf("malformed frame error code = %d, want 400", resp.Code)
	}
	if resp := decodeAs[StatusResponse](t, dec); resp.ID != "b" {
		t.Errorf("ping after malformed frame ID = %q, want b", resp.ID)
	}
}
