package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes data to name inside a per-test temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteDTB encodes root and writes it to a temporary board.dtb.
func WriteDTB(t *testing.T, root *Node) string {
	t.Helper()
	return WriteFile(t, "board.dtb", Build(root))
}
