package topfiles

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// dirTask is one directory to scan together with the number of levels,
// itself included, that may still be listed.
type dirTask struct {
	path      string
	remaining int
}

// treeWalker fans out one task per subdirectory. Every task joins its
// children before returning, so no task outlives the root call.
type treeWalker struct {
	*walker

	// sem caps the number of tasks running on their own goroutine. When it is
	// nil or exhausted, children run inline on the parent's goroutine.
	sem *semaphore.Weighted
}

// walkTree runs the fork-join traversal with at most workers extra
// goroutines. workers == 0 walks depth-first without spawning.
func (w *walker) walkTree(ctx context.Context, workers int) error {
	tw := &treeWalker{walker: w}
	if workers > 0 {
		tw.sem = semaphore.NewWeighted(int64(workers))
	}

	return tw.walk(ctx, dirTask{path: w.root, remaining: w.depth})
}

func (tw *treeWalker) walk(ctx context.Context, task dirTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tw.beforeList(task.path)

	l, ok := classify(task.path, tw.prefix)

	for _, rec := range l.errs {
		tw.log.printf("[debug]: %s: %s\n", rec.Kind, rec.Cause)
	}

	tw.col.addError(l.errs...)

	if !ok {
		return nil
	}

	tw.col.addDir()
	tw.col.addFiles(l.files...)

	if task.remaining <= 1 {
		for _, sub := range l.dirs {
			tw.log.printf("[debug]: skipping directory (beyond depth %d): %s\n", tw.depth, sub)
		}

		return nil
	}

	var g errgroup.Group

	for _, sub := range l.dirs {
		if tw.deny.match(sub) {
			tw.log.printf("[debug]: skipping denied directory: %s\n", sub)

			continue
		}

		child := dirTask{path: sub, remaining: task.remaining - 1}

		if tw.sem != nil && tw.sem.TryAcquire(1) {
			g.Go(func() error {
				defer tw.sem.Release(1)

				return tw.walk(ctx, child)
			})

			continue
		}

		if err := tw.walk(ctx, child); err != nil {
			// Join the children already started before reporting.
			_ = g.Wait()

			return err
		}
	}

	return g.Wait()
}
