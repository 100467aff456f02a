package topfiles

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// entryKind is the outcome of inspecting a single directory entry.
type entryKind int

const (
	entryIgnored entryKind = iota
	entryDir
	entryFile
	entryUnreadable
)

// listing is the classified content of one directory.
type listing struct {
	dirs  []string
	files []FileStat
	errs  []ErrorRecord
}

// classify lists the immediate entries of dir. Entries whose name starts with
// prefix are dropped. It reports false, with a single inaccessible_path
// record, when dir cannot be opened or enumerated.
func classify(dir, prefix string) (listing, bool) {
	f, err := os.Open(dir)
	if err != nil {
		return listing{errs: []ErrorRecord{newErrorRecord(dir, KindInaccessiblePath, err)}}, false
	}

	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return listing{errs: []ErrorRecord{newErrorRecord(dir, KindInaccessiblePath, err)}}, false
	}

	var l listing

	for _, d := range entries { //nolint:varnamelen // d is standard for DirEntry
		if skipName(d.Name(), prefix) {
			continue
		}

		path := filepath.Join(dir, d.Name())

		kind, file, rec := inspect(path, d)
		switch kind {
		case entryDir:
			l.dirs = append(l.dirs, path)
		case entryFile:
			l.files = append(l.files, file)
		case entryUnreadable:
			l.errs = append(l.errs, rec)
		case entryIgnored:
		}
	}

	return l, true
}

// skipName reports whether an entry is excluded by the reserved name prefix.
func skipName(name, prefix string) bool {
	return prefix != "" && strings.HasPrefix(name, prefix)
}

// inspect classifies a single entry. Symlinks are never descended: a link to
// a regular file is observed with the target's size, a link to anything else
// is ignored and a dangling link is unreadable.
func inspect(path string, d fs.DirEntry) (entryKind, FileStat, ErrorRecord) {
	typ := d.Type()

	switch {
	case typ.IsDir():
		return entryDir, FileStat{}, ErrorRecord{}
	case typ.IsRegular():
		info, err := d.Info()
		if err != nil {
			return entryUnreadable, FileStat{}, newErrorRecord(path, KindUnreadableFile, err)
		}

		return entryFile, FileStat{Path: path, Size: info.Size()}, ErrorRecord{}
	case typ&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			return entryUnreadable, FileStat{}, newErrorRecord(path, KindUnreadableFile, err)
		}

		if !info.Mode().IsRegular() {
			return entryIgnored, FileStat{}, ErrorRecord{}
		}

		return entryFile, FileStat{Path: path, Size: info.Size()}, ErrorRecord{}
	default:
		return entryIgnored, FileStat{}, ErrorRecord{}
	}
}

// denyList holds directories that are never descended into. Entries with a
// path separator match a full path, bare names match any directory with that
// base name.
type denyList struct {
	paths map[string]struct{}
	names map[string]struct{}
}

func newDenyList(entries []string) denyList {
	deny := denyList{
		paths: make(map[string]struct{}),
		names: make(map[string]struct{}),
	}

	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}

		if !strings.ContainsAny(e, `/\`) {
			deny.names[e] = struct{}{}

			continue
		}

		abs, err := filepath.Abs(e)
		if err != nil {
			abs = filepath.Clean(e)
		}

		deny.paths[abs] = struct{}{}
	}

	return deny
}

// match reports whether the directory at path is denied.
func (d denyList) match(path string) bool {
	if _, ok := d.paths[filepath.Clean(path)]; ok {
		return true
	}

	_, ok := d.names[filepath.Base(path)]

	return ok
}
