// Command tokstats tokenizes a corpus of text files and records token
// frequencies per kind into a SQLite database. Each indexing run is
// tagged with a ULID.
package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/istok/pkg/istok"
	"github.com/cognicore/istok/pkg/istok/store"
	"github.com/cognicore/istok/pkg/istok/store/sqlite"
	"github.com/cognicore/istok/pkg/istok/tok"
)

func main() {
	var (
		dbPath = flag.String("db", "", "Database path (required)")
		note   = flag.String("note", "", "Free-form note stored with the run")
		topK   = flag.Int("top", 0, "Print the K most frequent tokens after indexing")
		kind   = flag.String("kind", "", "Restrict -top to one kind (e.g. WORD)")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()
	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer st.Close()

	entropy := ulid.Monotonic(rand.Reader, 0)
	run := store.Run{
		ID:        ulid.MustNew(ulid.Now(), entropy).String(),
		Note:      *note,
		StartedAt: time.Now(),
	}

	counts := make(map[store.TokenCount]int64)
	files := flag.Args()
	if len(files) == 0 {
		run.Tokens += countTokens(os.Stdin, counts)
		run.Files = 1
	} else {
		for _, path := range files {
			f, err := os.Open(path)
			if err != nil {
				log.Fatal(err)
			}
			run.Tokens += countTokens(f, counts)
			f.Close()
			run.Files++
		}
	}

	merged := make([]store.TokenCount, 0, len(counts))
	for key, n := range counts {
		key.Count = n
		merged = append(merged, key)
	}
	if err := st.AddCounts(ctx, merged); err != nil {
		log.Fatal("Failed to store counts:", err)
	}
	if err := st.RecordRun(ctx, run); err != nil {
		log.Fatal("Failed to record run:", err)
	}
	log.Printf("run %s: %d files, %d tokens, %d distinct surfaces",
		run.ID, run.Files, run.Tokens, len(merged))

	if *topK > 0 {
		top, err := st.TopTokens(ctx, *kind, *topK)
		if err != nil {
			log.Fatal(err)
		}
		for _, c := range top {
			fmt.Printf("%8d  %-12s %s\n", c.Count, c.Kind, c.Token)
		}
	}
}

// countTokens tokenizes the input and aggregates counts of the
// content tokens by kind and surface.
func countTokens(r io.Reader, counts map[store.TokenCount]int64) int64 {
	var total int64
	for t := range istok.TokenizeLines(lines(r), istok.DefaultOptions()) {
		if t.Kind.IsEnd() || t.Kind.IsBegin() || t.Kind == tok.Punctuation {
			continue
		}
		key := store.TokenCount{Token: t.Txt, Kind: tok.Descr[t.Kind]}
		counts[key]++
		total++
	}
	return total
}

func lines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				if !yield(line) {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}
}
