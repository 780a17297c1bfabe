package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-tick CPU timing. Generation workers and the streamer both report here,
// so totals can exceed wall time.

type entry struct {
	total time.Duration
	calls int
}

var (
	mu        sync.Mutex
	tickStats = make(map[string]entry)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("world.Tick")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e := tickStats[name]
		e.total += d
		e.calls++
		tickStats[name] = e
		mu.Unlock()
	}
}

// ResetTick clears the current totals. Call at the start of each tick.
func ResetTick() {
	mu.Lock()
	clear(tickStats)
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(tickStats))
	for k, e := range tickStats {
		out[k] = e.total
	}
	return out
}

// Calls returns how many times name was tracked this tick.
func Calls(name string) int {
	mu.Lock()
	defer mu.Unlock()
	return tickStats[name].calls
}

// TopN formats the n most expensive entries of the current tick, e.g.
// "world.PopulateChunk:41.2ms(x3), world.Tick:2.1ms".
func TopN(n int) string {
	mu.Lock()
	type pair struct {
		name string
		e    entry
	}
	list := make([]pair, 0, len(tickStats))
	for k, e := range tickStats {
		list = append(list, pair{name: k, e: e})
	}
	mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].e.total == list[j].e.total {
			return list[i].name < list[j].name
		}
		return list[i].e.total > list[j].e.total
	})
	n = min(n, len(list))

	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(list[i].name)
		b.WriteByte(':')
		ms := float64(list[i].e.total.Microseconds()) / 1000
		b.WriteString(strconv.FormatFloat(ms, 'f', 1, 64))
		b.WriteString("ms")
		if c := list[i].e.calls; c > 1 {
			b.WriteString("(x")
			b.WriteString(strconv.Itoa(c))
			b.WriteByte(')')
		}
	}
	return b.String()
}
