package topfiles

// Export internal symbols for white-box tests in topfiles package.
var (
	CalculateDepth = calculateDepth
	ErrorKindOf    = errorKind
)

// WithListHook returns opt with fn called right before each directory is listed.
func WithListHook(opt Options, fn func(path string)) Options {
	opt.listHook = fn

	return opt
}

// Classify exposes classify with its outputs flattened.
func Classify(dir, prefix string) (dirs []string, files []FileStat, errs []ErrorRecord, ok bool) {
	l, ok := classify(dir, prefix)

	return l.dirs, l.files, l.errs, ok
}

// DenyMatch reports whether path is matched by a deny list built from entries.
func DenyMatch(entries []string, path string) bool {
	return newDenyList(entries).match(path)
}
