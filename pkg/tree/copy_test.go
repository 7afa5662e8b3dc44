package tree

import (
	"errors"
	"io/fs"
	"os"
	"runtime"
	"testing"

	"github.com/canopy-io/canopy/pkg/filesystem"
)

func TestCopyTree(t *testing.T) {
	// Create and copy the canonical hierarchy.
	root := testRoot(t)
	createTestTree(t, root)
	destination := testRoot(t).Join("mirror")
	if err := Copy(root, destination, CopyOptions{}); err != nil {
		t.Fatal("copy failed:", err)
	}

	// Verify the mirrored structure.
	for _, expected := range []struct {
		relative string
		kind     filesystem.Kind
	}{
		{"a", filesystem.KindDirectory},
		{"a/x.txt", filesystem.KindFile},
		{"b.txt", filesystem.KindFile},
	} {
		kind, err := filesystem.Classify(destination.Join(expected.relative))
		if err != nil {
			t.Fatal("unable to classify copy:", err)
		} else if kind != expected.kind {
			t.Errorf("unexpected kind for %s: %v != %v", expected.relative, kind, expected.kind)
		}
	}

	// Verify file content.
	content, err := os.ReadFile(destination.Join("a", "x.txt").String())
	if err != nil {
		t.Fatal("unable to read copied file:", err)
	} else if string(content) != "hi" {
		t.Error("unexpected copied content:", string(content))
	}
}

func TestCopyFile(t *testing.T) {
	// Create a lone file.
	root := testRoot(t)
	source := root.Join("note.txt")
	if err := os.WriteFile(source.String(), []byte("solo"), 0640); err != nil {
		t.Fatal("unable to create file:", err)
	}

	// Copy it and verify content and permissions.
	destination := root.Join("note-copy.txt")
	if err := Copy(source, destination, CopyOptions{}); err != nil {
		t.Fatal("copy failed:", err)
	}
	content, err := os.ReadFile(destination.String())
	if err != nil {
		t.Fatal("unable to read copy:", err)
	} else if string(content) != "solo" {
		t.Error("unexpected copied content:", string(content))
	}
	if runtime.GOOS != "windows" {
		info, err := os.Lstat(destination.String())
		if err != nil {
			t.Fatal("unable to probe copy:", err)
		} else if info.Mode().Perm() != 0640 {
			t.Error("permissions not preserved:", info.Mode().Perm())
		}
	}
}

func TestCopyAbsentSource(t *testing.T) {
	root := testRoot(t)
	err := Copy(root.Join("missing"), root.Join("target"), CopyOptions{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("absent source not surfaced as non-existence:", err)
	}
}

func TestCopyExistingDestinationRejected(t *testing.T) {
	// Create a hierarchy and a pre-existing destination.
	root := testRoot(t)
	createTestTree(t, root)
	destination := testRoot(t)
	if err := os.WriteFile(destination.Join("obstacle").String(), nil, 0600); err != nil {
		t.Fatal("unable to create obstacle:", err)
	}

	// Copying without overwrite must fail with an existence error.
	err := Copy(root, destination.Join("obstacle"), CopyOptions{})
	if !errors.Is(err, fs.ErrExist) {
		t.Error("pre-existing destination not rejected:", err)
	}
}

func TestCopyOverwrite(t *testing.T) {
	// Create a hierarchy and a conflicting destination tree.
	root := testRoot(t)
	createTestTree(t, root)
	destination := testRoot(t).Join("mirror")
	if err := os.Mkdir(destination.String(), 0700); err != nil {
		t.Fatal("unable to create destination:", err)
	}
	createTestTree(t, destination)
	if err := os.WriteFile(destination.Join("stale.txt").String(), []byte("old"), 0600); err != nil {
		t.Fatal("unable to create stale file:", err)
	}

	// Copy with overwrite enabled.
	if err := Copy(root, destination, CopyOptions{Overwrite: true}); err != nil {
		t.Fatal("copy failed:", err)
	}

	// The destination must be a fresh mirror, with stale content gone.
	if kind, err := filesystem.Classify(destination.Join("stale.txt")); err != nil {
		t.Fatal("unable to classify stale file:", err)
	} else if kind != filesystem.KindAbsent {
		t.Error("stale destination content survived overwrite")
	}
	if content, err := os.ReadFile(destination.Join("b.txt").String()); err != nil {
		t.Fatal("unable to read copied file:", err)
	} else if string(content) != "bye" {
		t.Error("unexpected copied content:", string(content))
	}
}

func TestCopyPreservesSymbolicLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symbolic links require elevation on Windows")
	}

	// Create a hierarchy containing a relative link.
	root := testRoot(t)
	createTestTree(t, root)
	if err := os.Symlink("b.txt", root.Join("link").String()); err != nil {
		t.Fatal("unable to create link:", err)
	}

	// Copy the hierarchy.
	destination := testRoot(t).Join("mirror")
	if err := Copy(root, destination, CopyOptions{}); err != nil {
		t.Fatal("copy failed:", err)
	}

	// The copy must be a link with the original target, not a content copy.
	if kind, err := filesystem.Classify(destination.Join("link")); err != nil {
		t.Fatal("unable to classify copied link:", err)
	} else if kind != filesystem.KindSymbolicLink {
		t.Fatal("link copied as non-link:", kind)
	}
	if target, err := os.Readlink(destination.Join("link").String()); err != nil {
		t.Fatal("unable to read copied link:", err)
	} else if target != "b.txt" {
		t.Error("unexpected link target:", target)
	}
}
