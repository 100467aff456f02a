package topfiles_test

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel string, size int64) string {
	t.Helper()

	fullPath := filepath.Join(root, rel)
	parent := filepath.Dir(fullPath)

	err := os.MkdirAll(parent, 0o750)
	if err != nil {
		t.Fatalf("mkdir %s: %v", parent, err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		t.Fatalf("create %s: %v", fullPath, err)
	}

	err = f.Truncate(size)
	if err != nil {
		t.Fatalf("truncate %s: %v", fullPath, err)
	}

	err = f.Close()
	if err != nil {
		t.Fatalf("close %s: %v", fullPath, err)
	}

	return fullPath
}

func mkdir(t *testing.T, root, rel string) string {
	t.Helper()

	fullPath := filepath.Join(root, rel)

	err := os.MkdirAll(fullPath, 0o750)
	if err != nil {
		t.Fatalf("mkdir %s: %v", fullPath, err)
	}

	return fullPath
}

func symlink(t *testing.T, root, target, rel string) string {
	t.Helper()

	fullPath := filepath.Join(root, rel)

	err := os.Symlink(target, fullPath)
	if err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}

	return fullPath
}
