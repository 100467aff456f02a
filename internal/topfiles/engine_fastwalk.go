package topfiles

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// walkFast scans with fastwalk, applying the same prefix, depth and deny
// rules as the tree engine.
//
// fastwalk reports a directory before reading it and calls back a second
// time with the error if reading fails, so directories are only counted
// once the walk is over.
//
//nolint:varnamelen // d is standard for DirEntry
func (w *walker) walkFast(ctx context.Context) error {
	var (
		mu      sync.Mutex
		entered = make(map[string]struct{})
		failed  = make(map[string]struct{})
	)

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: w.workers,
	}

	walkErr := fastwalk.Walk(conf, w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.printf("[debug]: error accessing path %s: %v\n", path, err)
			w.col.addError(newErrorRecord(path, errorKind(d), err))

			mu.Lock()
			failed[path] = struct{}{}
			mu.Unlock()

			return nil
		}

		// Check cancellation periodically
		if err := ctx.Err(); err != nil {
			return err
		}

		if path == w.root {
			mu.Lock()
			entered[path] = struct{}{}
			mu.Unlock()

			w.beforeList(path)

			return nil
		}

		if skipName(d.Name(), w.prefix) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if !w.descend(calculateDepth(path, w.root)) {
				w.log.printf("[debug]: skipping directory (beyond depth %d): %s\n", w.depth, path)

				return filepath.SkipDir
			}

			if w.deny.match(path) {
				w.log.printf("[debug]: skipping denied directory: %s\n", path)

				return filepath.SkipDir
			}

			mu.Lock()
			entered[path] = struct{}{}
			mu.Unlock()

			w.beforeList(path)

			return nil
		}

		kind, file, rec := inspect(path, d)
		switch kind {
		case entryFile:
			w.col.addFiles(file)
		case entryUnreadable:
			w.log.printf("[debug]: %s: %s\n", rec.Kind, rec.Cause)
			w.col.addError(rec)
		case entryDir, entryIgnored:
		}

		return nil
	})

	for path := range entered {
		if _, ok := failed[path]; !ok {
			w.col.addDir()
		}
	}

	return walkErr
}

// errorKind maps a failed fastwalk callback to an error kind. A non-directory
// entry failed to stat; anything else is a directory that could not be read.
func errorKind(d fs.DirEntry) ErrorKind {
	if d != nil && !d.IsDir() {
		return KindUnreadableFile
	}

	return KindInaccessiblePath
}
