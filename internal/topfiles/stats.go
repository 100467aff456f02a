package topfiles

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// FileStat represents a single file path and size.
type FileStat struct {
	// Path is the absolute file path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
}

// ErrorKind classifies a non-fatal scan error.
type ErrorKind string

const (
	// KindInaccessiblePath marks a directory that could not be opened or listed.
	KindInaccessiblePath ErrorKind = "inaccessible_path"
	// KindUnreadableFile marks a file whose size could not be read.
	KindUnreadableFile ErrorKind = "unreadable_file"
)

// ErrorRecord is a path that could not be scanned, together with the reason.
// Records never abort a scan.
type ErrorRecord struct {
	// Path is the path that failed.
	Path string `json:"path"`
	// Kind classifies the failure.
	Kind ErrorKind `json:"kind"`
	// Cause is the underlying error message.
	Cause string `json:"cause"`

	err error
}

func newErrorRecord(path string, kind ErrorKind, err error) ErrorRecord {
	return ErrorRecord{
		Path:  path,
		Kind:  kind,
		Cause: err.Error(),
		err:   err,
	}
}

// Error implements the error interface.
func (r ErrorRecord) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Cause)
}

// Unwrap returns the underlying OS error.
func (r ErrorRecord) Unwrap() error {
	return r.err
}

// Engine selects the traversal strategy.
type Engine string

const (
	// EngineTree fans out one bounded task per directory and joins children before parents.
	EngineTree Engine = "tree"
	// EngineSequential walks depth-first on the calling goroutine.
	EngineSequential Engine = "sequential"
	// EngineFastwalk delegates the parallel walk to fastwalk.
	EngineFastwalk Engine = "fastwalk"
)

// Engines lists the supported traversal engines.
func Engines() []Engine {
	return []Engine{EngineTree, EngineSequential, EngineFastwalk}
}

// Stats holds the result of a scan.
type Stats struct {
	// Root is the absolute path that was scanned.
	Root string `json:"root"`
	// FileCount is the number of files whose size was read.
	FileCount int64 `json:"file_count"`
	// DirCount is the number of directories successfully listed.
	DirCount int64 `json:"dir_count"`
	// ErrorCount is the number of errors encountered.
	ErrorCount int64 `json:"error_count"`
	// TotalBytes is the cumulative size of all observed files.
	TotalBytes int64 `json:"total_bytes"`
	// TopFiles contains the N largest files, largest first.
	TopFiles []FileStat `json:"top_files"`
	// Errors lists every error record, sorted by path.
	Errors []ErrorRecord `json:"errors,omitempty"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed"`
	// TopN is the number of top results tracked.
	TopN int `json:"top_n"`
	// Depth is the depth bound the scan ran with.
	Depth int `json:"depth"`
	// Engine is the traversal engine used.
	Engine Engine `json:"engine"`
}

// Options configures the scan and CLI behavior.
type Options struct {
	// Path is the directory to scan.
	Path string
	// Depth is the maximum recursion depth. 1 lists only the root.
	Depth int
	// TopN is the number of largest files to report.
	TopN int
	// Workers caps the number of directory tasks running concurrently (0=auto).
	Workers int
	// Engine selects the traversal strategy.
	Engine Engine
	// SkipPrefix is the name prefix of entries that are ignored entirely.
	SkipPrefix string
	// Deny lists directories that are never descended into.
	Deny []string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents output format (table, json or paths).
	Output string
	// Units selects how sizes are rendered (classic, iec or si).
	Units string
	// ShowErrors indicates whether error records are printed.
	ShowErrors bool
	// Integration indicates whether to output integration script.
	Integration bool

	listHook func(path string)
}

// Progress is a point-in-time view of the running counters.
type Progress struct {
	Files int64
	Dirs  int64
	Bytes int64
}

// collector aggregates results from concurrent traversal tasks using a mutex.
// Files are streamed into a bounded selector, so memory stays O(TopN).
type collector struct {
	mu         sync.Mutex // Protect concurrent access
	top        *Selector
	errors     []ErrorRecord
	fileCount  int64
	dirCount   int64
	totalBytes int64
}

// newCollector creates a collector tracking the topN largest files.
func newCollector(topN int) *collector {
	return &collector{
		top:    NewSelector(topN),
		errors: make([]ErrorRecord, 0),
	}
}

// addFiles records observed files. The file counter is incremented before
// top-N filtering, so counts cover every observation.
func (c *collector) addFiles(files ...FileStat) {
	if len(files) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range files {
		c.fileCount++
		c.totalBytes += f.Size
		c.top.Offer(f)
	}
}

// addDir increments the directory counter.
func (c *collector) addDir() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dirCount++
}

// addError records a non-fatal error.
func (c *collector) addError(records ...ErrorRecord) {
	if len(records) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = append(c.errors, records...)
}

// progress returns the current counters.
func (c *collector) progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Progress{Files: c.fileCount, Dirs: c.dirCount, Bytes: c.totalBytes}
}

// finalize produces the final Stats. It must only be called once every
// traversal task has joined.
func (c *collector) finalize() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make([]ErrorRecord, len(c.errors))
	copy(errs, c.errors)

	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Path != errs[j].Path {
			return errs[i].Path < errs[j].Path
		}

		return errs[i].Kind < errs[j].Kind
	})

	return &Stats{
		FileCount:  c.fileCount,
		DirCount:   c.dirCount,
		ErrorCount: int64(len(errs)),
		TotalBytes: c.totalBytes,
		TopFiles:   c.top.Drain(),
		Errors:     errs,
		TopN:       c.top.Cap(),
	}
}
