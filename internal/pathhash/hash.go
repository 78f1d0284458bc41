// Package pathhash derives content addresses from absolute directory paths.
//
// An Address is the first 64 bits of the BLAKE3 digest of the path string,
// rendered as 16 lowercase hex characters. The first two characters form
// the Bucket and the remaining fourteen the Suffix, so link entries can be
// laid out as <bucket>/<suffix> the way git lays out loose objects.
//
// Sum hashes the bytes it is given. Callers must pass cleaned absolute
// paths; "/a/b" and "/a/b/" produce different addresses.
package pathhash

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Size is the address length in bytes.
const Size = 8

const (
	// BucketLen is the number of hex characters in a bucket name.
	BucketLen = 2
	// SuffixLen is the number of hex characters in a leaf name.
	SuffixLen = 2*Size - BucketLen
)

// Address is a truncated BLAKE3 digest of a path.
type Address [Size]byte

// Sum returns the address of path.
func Sum(path string) Address {
	digest := blake3.Sum256([]byte(path))
	var a Address
	copy(a[:], digest[:Size])
	return a
}

// String returns the 16 character hex form.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bucket returns the leading two hex characters.
func (a Address) Bucket() string {
	return a.String()[:BucketLen]
}

// Suffix returns the trailing fourteen hex characters.
func (a Address) Suffix() string {
	return a.String()[BucketLen:]
}

// Parse is the inverse of Address.String. It also accepts the bucket and
// suffix concatenated, which is the same thing.
func Parse(s string) (Address, error) {
	var a Address
	if len(s) != hex.EncodedLen(Size) {
		return a, fmt.Errorf("address %q: want %d hex characters, got %d", s, hex.EncodedLen(Size), len(s))
	}
	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return a, fmt.Errorf("address %q: %w", s, err)
	}
	return a, nil
}
