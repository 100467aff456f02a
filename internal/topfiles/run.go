package topfiles

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"
)

const (
	// DefaultProgressInterval is the default interval for progress updates.
	DefaultProgressInterval = 500 * time.Millisecond
	// DefaultTopN is the number of files reported when none is requested.
	DefaultTopN = 10
	// DefaultDepth is the depth bound used when none is requested.
	DefaultDepth = 1
	// DefaultSkipPrefix marks reserved entries that are never scanned.
	DefaultSkipPrefix = "$"
)

// DefaultDeny lists the directories that are never descended into by default.
//
//nolint:gochecknoglobals // Config constant
var DefaultDeny = []string{"/proc", "/sys"}

// DefaultWorkers returns the default cap on concurrently running directory tasks.
func DefaultWorkers() int {
	return 4 * runtime.GOMAXPROCS(0)
}

// logger provides conditional debug output.
type logger struct {
	enabled bool
	w       io.Writer
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		fmt.Fprintf(l.w, format, args...)
	}
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// startProgressReporter invokes hook with the current counters on each tick
// until the returned stop function is called. stop waits for the reporter to
// exit, so hook is never called after stop returns.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(Progress), interval time.Duration) (stop func()) {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.progress())
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// walker holds the rules shared by every traversal engine.
type walker struct {
	root    string
	depth   int
	prefix  string
	deny    denyList
	workers int
	col     *collector
	log     logger

	// listHook runs right before a directory is listed.
	listHook func(path string)
}

// beforeList calls the list hook, if any.
func (w *walker) beforeList(path string) {
	if w.listHook != nil {
		w.listHook(path)
	}
}

// descend reports whether a directory at level (root = 0) is classified.
func (w *walker) descend(level int) bool {
	return level == 0 || level < w.depth
}

// Run scans the directory tree at opt.Path and returns the largest files
// along with file, directory and error counts.
//
// The root is always listed; opt.Depth bounds how far below it the scan
// recurses. Entries whose name starts with opt.SkipPrefix are ignored and
// directories in opt.Deny are never entered. Unreadable files and
// inaccessible directories are recorded in Stats.Errors and never stop the
// scan.
//
// The scan can be cancelled via ctx, in which case the partial Stats are
// returned together with an error wrapping the context error. Progress
// updates are sent to progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(Progress)) (*Stats, error) {
	log := logger{enabled: opt.Debug, w: os.Stderr}

	if opt.Path == "" {
		opt.Path = "."
	}

	root, err := filepath.Abs(filepath.Clean(opt.Path))
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	// validate path exists and is a directory
	if statInfo, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Path)
	}

	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}

	if opt.Depth < DefaultDepth {
		opt.Depth = DefaultDepth
	}

	if opt.Workers <= 0 {
		opt.Workers = DefaultWorkers()
	}

	if opt.Engine == "" {
		opt.Engine = EngineTree
	}

	if !slices.Contains(Engines(), opt.Engine) {
		return nil, fmt.Errorf("unknown engine %q: must be one of %v", opt.Engine, Engines())
	}

	log.printf("[debug]: root: %s\n", root)
	log.printf("[debug]: depth: %d, top: %d, workers: %d, engine: %s\n", opt.Depth, opt.TopN, opt.Workers, opt.Engine)
	log.printf("[debug]: skip prefix: %q\n", opt.SkipPrefix)
	log.printf("[debug]: deny list:\n")

	for _, d := range opt.Deny {
		log.printf("[debug]:   - %s\n", d)
	}

	collector := newCollector(opt.TopN)

	w := &walker{
		root:     root,
		depth:    opt.Depth,
		prefix:   opt.SkipPrefix,
		deny:     newDenyList(opt.Deny),
		workers:  opt.Workers,
		col:      collector,
		log:      log,
		listHook: opt.listHook,
	}

	stopProgress := startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	start := time.Now()

	var walkErr error

	switch opt.Engine {
	case EngineTree:
		walkErr = w.walkTree(ctx, w.workers)
	case EngineSequential:
		walkErr = w.walkTree(ctx, 0)
	case EngineFastwalk:
		walkErr = w.walkFast(ctx)
	}

	elapsed := time.Since(start)

	stopProgress()

	stats := collector.finalize()
	stats.Root = root
	stats.Depth = opt.Depth
	stats.Engine = opt.Engine
	stats.Elapsed = elapsed

	if walkErr != nil {
		return stats, fmt.Errorf("scanning %q: %w", root, walkErr)
	}

	return stats, nil
}
