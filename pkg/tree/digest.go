package tree

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/stream"
)

// digestCopyBufferSize specifies the size of the buffer used to feed file
// content into the hash accumulator. This value is taken from Go's io.Copy
// method, which defaults to allocating a 32k buffer if none is provided.
const digestCopyBufferSize = 32 * 1024

// NewHasher creates a hash accumulator for the digest algorithm with the
// specified name. Algorithm names are case-insensitive; MD5, SHA1, and SHA256
// are supported.
func NewHasher(algorithm string) (hash.Hash, error) {
	switch strings.ToUpper(algorithm) {
	case "MD5":
		return md5.New(), nil
	case "SHA1", "SHA-1":
		return sha1.New(), nil
	case "SHA256", "SHA-256":
		return sha256.New(), nil
	default:
		return nil, errors.Errorf("unknown digest algorithm: %s", algorithm)
	}
}

// DigestOptions control digest computation.
type DigestOptions struct {
	// Algorithm is the digest algorithm name. It defaults to SHA256.
	Algorithm string
	// Walk are the traversal options. The depth bound is ignored: digests
	// always cover the whole subtree.
	Walk WalkOptions
}

// Digest computes a cryptographic digest over the whole subtree rooted at
// root, rendered as uppercase hexadecimal. The result is deterministic
// regardless of the order in which the OS reports directory children: every
// entry's root-relative path (slash form) is collected, the collection is
// sorted lexicographically, and the hash accumulator is then fed, in sorted
// order, the relative-path bytes of each directory and the full content bytes
// of each regular file. The root entry itself contributes nothing. Symbolic
// links are not followed and contribute nothing.
func Digest(root filesystem.Path, options DigestOptions) (string, error) {
	// Create the hash accumulator.
	algorithm := options.Algorithm
	if algorithm == "" {
		algorithm = "SHA256"
	}
	hasher, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}

	// Collect every entry's relative path. The walk's own yield order is
	// OS-dependent, so it can't be fed to the accumulator directly.
	walkOptions := options.Walk
	walkOptions.MaxDepth = -1
	type record struct {
		relative string
		entry    filesystem.Entry
	}
	var records []record
	if err := Walk(root, walkOptions, func(entry filesystem.Entry) error {
		relative, err := entry.Path.RelativeTo(root)
		if err != nil {
			return err
		}
		if relative == "." {
			return nil
		}
		records = append(records, record{relative, entry})
		return nil
	}); err != nil {
		return "", err
	}

	// Sort lexicographically by relative path. This ordering is what makes
	// two logically identical trees with different OS listing orders hash
	// identically.
	sort.Slice(records, func(i, j int) bool {
		return records[i].relative < records[j].relative
	})

	// Feed the accumulator.
	buffer := make([]byte, digestCopyBufferSize)
	for _, r := range records {
		kind, err := r.entry.Classify()
		if err != nil {
			return "", err
		}
		switch kind {
		case filesystem.KindDirectory:
			hasher.Write([]byte(r.relative))
		case filesystem.KindFile:
			file, err := os.Open(r.entry.Path.String())
			if err != nil {
				return "", errors.Wrapf(err, "unable to open %s", r.entry.Path)
			}
			if err := stream.WithCloser(file, walkOptions.Logger, func() error {
				_, err := stream.Pipe(hasher, file, buffer)
				return err
			}); err != nil {
				return "", errors.Wrapf(err, "unable to digest %s", r.entry.Path)
			}
		}
	}

	// Render the digest.
	return fmt.Sprintf("%X", hasher.Sum(nil)), nil
}
