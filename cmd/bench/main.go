package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/notehub/internal/platform"
	"github.com/aretw0/notehub/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes served by the stub API")
	latency := flag.Duration("latency", 50*time.Millisecond, "Simulated API latency per request")
	debounce := flag.Duration("debounce", 300*time.Millisecond, "Search debounce window")
	flag.Parse()

	// 1. Stub API
	fmt.Printf("Serving %d notes with %v latency...\n", *count, *latency)
	notes := make([]core.Note, *count)
	for i := range notes {
		notes[i] = core.Note{
			ID:      core.NoteID(strconv.Itoa(i + 1)),
			Title:   fmt.Sprintf("Note %d", i),
			Content: "This is a benchmark note.",
			Tag:     core.Tags()[i%len(core.Tags())],
		}
	}
	var requests atomic.Int64
	srv := httptest.NewServer(stubHandler(notes, *latency, &requests))
	defer srv.Close()

	// 2. Initialize client
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client, err := platform.Open(
		platform.WithConfig(platform.DefaultConfig()),
		platform.WithBaseURL(srv.URL),
		platform.WithToken("bench"),
		platform.WithDebounce(*debounce),
		platform.WithLogger(logger),
	)
	if err != nil {
		panic(err)
	}
	ctrl := client.Controller
	defer ctrl.Close()

	ctx := context.TODO()

	// Run 1: Cold (network)
	fmt.Println("Running first read (Run 1 - Cold)...")
	start := time.Now()
	if err := ctrl.Start(ctx); err != nil {
		panic(err)
	}
	ctrl.Wait()
	cold := time.Since(start)
	fmt.Printf("Run 1 Result: %v (Items: %d)\n", cold, len(ctrl.Snapshot().Notes))

	// Run 2: page away and back; page 1 comes from the cache
	ctrl.NextPage()
	ctrl.Wait()
	fmt.Println("Running page flip back (Run 2 - Warm)...")
	start = time.Now()
	ctrl.PrevPage()
	ctrl.Wait()
	warm := time.Since(start)
	fmt.Printf("Run 2 Result: %v (Items: %d)\n", warm, len(ctrl.Snapshot().Notes))

	// Run 3: a typing burst
	before := requests.Load()
	term := "Note 99"
	start = time.Now()
	for i := 1; i <= len(term); i++ {
		ctrl.TypeSearch(term[:i])
		time.Sleep(*debounce / 10)
	}
	time.Sleep(*debounce + 50*time.Millisecond)
	ctrl.Wait()
	burst := time.Since(start)
	issued := requests.Load() - before

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes):\n", *count)
	fmt.Printf("  Cold:  %v\n", cold)
	fmt.Printf("  Warm:  %v\n", warm)
	fmt.Printf("  Burst: %d keystrokes -> %d request(s) in %v\n", len(term), issued, burst)
	fmt.Printf("  Total requests: %d\n", requests.Load())
	fmt.Printf("--------------------------------------------------\n")
}

func stubHandler(notes []core.Note, latency time.Duration, requests *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		time.Sleep(latency)

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		perPage, _ := strconv.Atoi(q.Get("perPage"))
		search := q.Get("search")

		var matched []core.Note
		for _, n := range notes {
			if search == "" || strings.Contains(n.Title, search) {
				matched = append(matched, n)
			}
		}
		res := core.FetchResult{Notes: []core.Note{}}
		if perPage > 0 {
			res.TotalPages = (len(matched) + perPage - 1) / perPage
			start := (page - 1) * perPage
			if start >= 0 && start < len(matched) {
				end := min(start+perPage, len(matched))
				res.Notes = matched[start:end]
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}
