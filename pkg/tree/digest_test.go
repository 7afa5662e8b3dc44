package tree

import (
	"crypto/md5"
	"fmt"
	"os"
	"testing"
)

func TestDigestMatchesCanonicalOrdering(t *testing.T) {
	// Create the canonical hierarchy.
	root := testRoot(t)
	createTestTree(t, root)

	// Compute its MD5 digest.
	digest, err := Digest(root, DigestOptions{Algorithm: "MD5"})
	if err != nil {
		t.Fatal("digest failed:", err)
	}

	// The accumulator must have been fed the directory's relative path
	// followed by file contents in lexicographic relative-path order:
	// "a" < "a/x.txt" < "b.txt".
	expected := fmt.Sprintf("%X", md5.Sum([]byte("a"+"hi"+"bye")))
	if digest != expected {
		t.Errorf("digest does not match expected: %s != %s", digest, expected)
	}
}

func TestDigestUppercaseHexadecimal(t *testing.T) {
	// Compute a digest over an empty hierarchy.
	digest, err := Digest(testRoot(t), DigestOptions{Algorithm: "SHA256"})
	if err != nil {
		t.Fatal("digest failed:", err)
	}
	for _, r := range digest {
		if !(r >= '0' && r <= '9') && !(r >= 'A' && r <= 'F') {
			t.Fatal("digest not uppercase hexadecimal:", digest)
		}
	}
	if len(digest) != 64 {
		t.Error("unexpected digest length:", len(digest))
	}
}

func TestDigestInvariantUnderCopy(t *testing.T) {
	// Create and digest the canonical hierarchy.
	root := testRoot(t)
	createTestTree(t, root)
	original, err := Digest(root, DigestOptions{Algorithm: "SHA1"})
	if err != nil {
		t.Fatal("digest failed:", err)
	}

	// Copy the hierarchy and digest the copy. Logically identical trees must
	// hash identically regardless of how the OS orders their listings.
	destination := testRoot(t).Join("mirror")
	if err := Copy(root, destination, CopyOptions{}); err != nil {
		t.Fatal("copy failed:", err)
	}
	mirrored, err := Digest(destination, DigestOptions{Algorithm: "SHA1"})
	if err != nil {
		t.Fatal("digest failed:", err)
	}
	if original != mirrored {
		t.Errorf("digests diverge across copy: %s != %s", original, mirrored)
	}
}

func TestDigestSensitiveToContent(t *testing.T) {
	// Digest the canonical hierarchy.
	root := testRoot(t)
	createTestTree(t, root)
	original, err := Digest(root, DigestOptions{Algorithm: "MD5"})
	if err != nil {
		t.Fatal("digest failed:", err)
	}

	// Mutate a file and ensure the digest changes.
	if err := os.WriteFile(root.Join("b.txt").String(), []byte("byte"), 0600); err != nil {
		t.Fatal("unable to mutate file:", err)
	}
	mutated, err := Digest(root, DigestOptions{Algorithm: "MD5"})
	if err != nil {
		t.Fatal("digest failed:", err)
	}
	if mutated == original {
		t.Error("digest insensitive to content mutation")
	}
}

func TestDigestAlgorithmNamesCaseInsensitive(t *testing.T) {
	// Create a small hierarchy.
	root := testRoot(t)
	createTestTree(t, root)

	// Ensure equivalent results across name spellings.
	upper, err := Digest(root, DigestOptions{Algorithm: "MD5"})
	if err != nil {
		t.Fatal("digest failed:", err)
	}
	lower, err := Digest(root, DigestOptions{Algorithm: "md5"})
	if err != nil {
		t.Fatal("digest failed:", err)
	}
	if upper != lower {
		t.Error("algorithm names not case-insensitive")
	}
}

func TestDigestUnknownAlgorithm(t *testing.T) {
	if _, err := Digest(testRoot(t), DigestOptions{Algorithm: "CRC32"}); err == nil {
		t.Error("unknown algorithm accepted")
	}
}
