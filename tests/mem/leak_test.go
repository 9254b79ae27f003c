//go:build test

package mem

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sync"
	"testing"
	"time"

	"github.com/Joshtray/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// seedWords is a small corpus with skewed counts so completions have real
// rankings to compute.
var seedWords = map[string]int{
	"the": 9, "there": 7, "them": 5, "theory": 3, "thermal": 2,
	"program": 8, "programmer": 6, "progress": 4, "project": 5,
	"world": 7, "word": 6, "work": 9, "worth": 3,
	"complete": 5, "computer": 8, "company": 6, "common": 4,
	"about": 7, "above": 4, "absolute": 2,
	"develop": 5, "development": 6, "device": 3,
	"interest": 4, "internal": 5, "international": 7,
	"heart": 3, "heavy": 2, "health": 6,
}

func newLoadedCompleter() *suggest.Completer {
	c := suggest.NewCompleterWithCache(256)
	for word, count := range seedWords {
		for i := 0; i < count; i++ {
			c.AddWord(word)
		}
	}
	// Pad the store so subtree walks cover more than a toy trie.
	for i := 0; i < 3000; i++ {
		c.AddWord(fmt.Sprintf("pad%04d", i%500))
	}
	return c
}

// typingSessions derives progressive prefixes from the seeds, one byte at a
// time, the way an editor queries while the user types.
func typingSessions() [][]string {
	sessions := make([][]string, 0, len(seedWords))
	for word := range seedWords {
		steps := make([]string, 0, len(word))
		for i := 1; i <= len(word); i++ {
			steps = append(steps, word[:i])
		}
		sessions = append(sessions, steps)
	}
	return sessions
}

type memSample struct {
	alloc      uint64
	goroutines int
}

func sample() memSample {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return memSample{alloc: m.Alloc, goroutines: runtime.NumGoroutine()}
}

// growth returns the heap delta in bytes, clamped at zero. The collector
// can leave the heap smaller than the baseline.
func growth(before, after memSample) int64 {
	if after.alloc < before.alloc {
		return 0
	}
	return int64(after.alloc - before.alloc)
}

// settle gives finished goroutines a moment to unwind before counting them.
func settle(baseline int) int {
	for i := 0; i < 50; i++ {
		if d := runtime.NumGoroutine() - baseline; d <= 0 {
			return d
		}
		time.Sleep(time.Millisecond)
	}
	return runtime.NumGoroutine() - baseline
}

// writeHeapProfile snapshots the heap after a load burst.
func writeHeapProfile(t *testing.T, name string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".heap.prof")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		t.Errorf("writing heap profile: %v", err)
	}
}

func TestCompleteSteadyState(t *testing.T) {
	sessions := typingSessions()

	for _, rounds := range []int{200, 1000, 4000} {
		t.Run(fmt.Sprintf("rounds=%d", rounds), func(t *testing.T) {
			completer := newLoadedCompleter()
			before := sample()

			ops := 0
			for r := 0; r < rounds; r++ {
				for _, session := range sessions {
					for _, prefix := range session {
						completer.Complete(prefix, 8)
						ops++
					}
				}
			}

			after := sample()
			perOp := float64(growth(before, after)) / float64(ops)
			t.Logf("rounds=%d ops=%d growth=%dB perOp=%.2fB",
				rounds, ops, growth(before, after), perOp)

			if perOp > 2048 {
				t.Errorf("allocations grew %.2f bytes per query, want steady state", perOp)
			}
			// Complete spawns nothing.
			if d := after.goroutines - before.goroutines; d > 0 {
				t.Errorf("%d goroutines left behind", d)
			}
		})
	}
}

func TestCompleteParallelReaders(t *testing.T) {
	const totalQueries = 8000
	sessions := typingSessions()

	for _, readers := range []int{2, 4, 8} {
		t.Run(fmt.Sprintf("readers=%d", readers), func(t *testing.T) {
			completer := newLoadedCompleter()
			before := sample()

			// Readers share the trie and contend only on the cache lock,
			// so this must stay race-free with nothing left running after.
			share := totalQueries / readers
			var wg sync.WaitGroup
			for r := 0; r < readers; r++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					session := sessions[id%len(sessions)]
					for i := 0; i < share; i++ {
						completer.Complete(session[i%len(session)], 8)
					}
				}(r)
			}
			wg.Wait()

			after := sample()
			ops := share * readers
			perOp := float64(growth(before, after)) / float64(ops)
			t.Logf("readers=%d ops=%d growth=%dB perOp=%.2fB",
				readers, ops, growth(before, after), perOp)

			if perOp > 2048 {
				t.Errorf("allocations grew %.2f bytes per query, want steady state", perOp)
			}
			if d := settle(before.goroutines); d > 0 {
				t.Errorf("%d reader goroutines still running", d)
			}

			writeHeapProfile(t, fmt.Sprintf("readers_%d", readers))
		})
	}
}

func TestMixedLoadGrowth(t *testing.T) {
	if testing.Short() {
		t.Skip("long mixed-load run")
	}

	completer := newLoadedCompleter()
	sessions := typingSessions()
	before := sample()

	var peak int64
	ops := 0
	for cycle := 0; cycle < 40; cycle++ {
		session := sessions[cycle%len(sessions)]
		for i := 0; i < 150; i++ {
			completer.Complete(session[i%len(session)], 8)
			ops++
		}
		// A trickle of writes keeps cache invalidation in the loop.
		completer.AddWord(fmt.Sprintf("drift%02d", cycle%8))
		ops++

		if cycle%8 == 7 {
			now := sample()
			if g := growth(before, now); g > peak {
				peak = g
			}
			t.Logf("cycle=%d ops=%d growth=%dB", cycle, ops, growth(before, now))
		}
		time.Sleep(2 * time.Millisecond)
	}

	after := sample()
	perOp := float64(growth(before, after)) / float64(ops)
	t.Logf("ops=%d growth=%dB perOp=%.2fB peak=%dB",
		ops, growth(before, after), perOp, peak)

	if perOp > 1024 {
		t.Errorf("allocations grew %.2f bytes per op over the long run", perOp)
	}
	if peak > 16<<20 {
		t.Errorf("peak heap growth %dB, want under 16MiB", peak)
	}
	if d := settle(before.goroutines); d > 0 {
		t.Errorf("%d goroutines left behind", d)
	}

	stats := completer.Stats()
	if stats["cacheEntries"] > stats["cacheMax"] {
		t.Errorf("cache grew past its bound: %d > %d",
			stats["cacheEntries"], stats["cacheMax"])
	}
}
