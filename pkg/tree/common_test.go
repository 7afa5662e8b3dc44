package tree

import (
	"os"
	"testing"

	"github.com/canopy-io/canopy/pkg/filesystem"
)

// testRoot creates a normalized path for a fresh temporary directory.
func testRoot(t *testing.T) filesystem.Path {
	t.Helper()
	root, err := filesystem.NewPath(t.TempDir())
	if err != nil {
		t.Fatal("path creation failed:", err)
	}
	return root
}

// createTestTree populates root with the canonical test hierarchy: a
// directory "a" containing "x.txt" with content "hi", and a file "b.txt" with
// content "bye".
func createTestTree(t *testing.T, root filesystem.Path) {
	t.Helper()
	if err := os.Mkdir(root.Join("a").String(), 0700); err != nil {
		t.Fatal("unable to create directory:", err)
	}
	if err := os.WriteFile(root.Join("a", "x.txt").String(), []byte("hi"), 0600); err != nil {
		t.Fatal("unable to create file:", err)
	}
	if err := os.WriteFile(root.Join("b.txt").String(), []byte("bye"), 0600); err != nil {
		t.Fatal("unable to create file:", err)
	}
}

// relativePaths walks the hierarchy beneath root and returns the set of
// root-relative paths encountered (excluding the root itself).
func relativePaths(t *testing.T, root filesystem.Path) map[string]bool {
	t.Helper()
	results := make(map[string]bool)
	if err := Walk(root, WalkOptions{MaxDepth: -1}, func(entry filesystem.Entry) error {
		relative, err := entry.Path.RelativeTo(root)
		if err != nil {
			return err
		}
		if relative != "." {
			results[relative] = true
		}
		return nil
	}); err != nil {
		t.Fatal("walk failed:", err)
	}
	return results
}
