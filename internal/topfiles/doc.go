// Package topfiles finds the largest files in a directory tree.
//
// It lists directories concurrently down to a bounded depth, merges every
// observation into a single mutex-guarded collector and keeps only the N
// largest files in a bounded min-heap, so memory does not grow with the
// number of files scanned. Unreadable files and inaccessible directories are
// recorded and counted but never stop the scan.
package topfiles
