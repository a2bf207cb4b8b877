package planfile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/mbudget/internal/model"
)

// Result is one replayed plan file.
type Result struct {
	Path     string
	Session  model.Session
	Rejected []Rejection
	Err      error // load or parse failure; Session is empty when set
}

// ProgressFunc is called after each file is replayed.
type ProgressFunc func(current, total int)

// Expand resolves arguments into plan file paths. Directories contribute
// their *.toml files; the result is sorted and free of duplicates.
func Expand(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".toml") {
				continue
			}
			add(filepath.Join(arg, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ReplayAll loads and replays every path with a bounded worker pool.
// Results come back in input order.
func ReplayAll(paths []string, progressFn ProgressFunc) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	numWorkers = min(numWorkers, len(paths))

	work := make(chan int, len(paths))
	for i := range paths {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = replayFile(paths[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(paths))
				}
			}
		}()
	}
	wg.Wait()
	return results
}

func replayFile(path string) Result {
	p, err := Load(path)
	if err != nil {
		return Result{Path: path, Session: model.NewSession(), Err: err}
	}
	s, rejected := Replay(p)
	return Result{Path: path, Session: s, Rejected: rejected}
}
