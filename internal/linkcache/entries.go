package linkcache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fyrsmithlabs/commando/internal/pathhash"
)

// Status describes the health of one link entry.
type Status string

const (
	// StatusOK: a symlink whose target exists and hashes to its address.
	StatusOK Status = "ok"
	// StatusOrphan: the target directory no longer exists.
	StatusOrphan Status = "orphan"
	// StatusMismatch: the target exists but hashes to a different address.
	StatusMismatch Status = "mismatch"
	// StatusConflict: the entry is not a symlink.
	StatusConflict Status = "conflict"
)

// Entry is one leaf of the bucket tree.
type Entry struct {
	Address pathhash.Address
	Path    string
	Target  string
	Status  Status
}

// Entries lists every entry in the bucket tree, sorted by address.
// Names that are not a 2-hex bucket holding a 14-hex leaf are skipped. A missing tree is not
// an error. Nothing is modified.
func (c *Cache) Entries() ([]Entry, error) {
	buckets, err := os.ReadDir(c.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read link tree %s: %w", c.root, err)
	}

	var entries []Entry
	for _, b := range buckets {
		if !b.IsDir() || len(b.Name()) != pathhash.BucketLen {
			continue
		}
		bucketDir := filepath.Join(c.root, b.Name())
		leaves, err := os.ReadDir(bucketDir)
		if err != nil {
			return nil, fmt.Errorf("read link bucket %s: %w", bucketDir, err)
		}
		for _, leaf := range leaves {
			if len(leaf.Name()) != pathhash.SuffixLen {
				continue
			}
			addr, err := pathhash.Parse(b.Name() + leaf.Name())
			if err != nil {
				continue
			}
			entries = append(entries, inspect(addr, filepath.Join(bucketDir, leaf.Name())))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Address.String() < entries[j].Address.String()
	})
	return entries, nil
}

func inspect(addr pathhash.Address, link string) Entry {
	e := Entry{Address: addr, Path: link}

	target, err := os.Readlink(link)
	if err != nil {
		e.Status = StatusConflict
		return e
	}
	e.Target = target
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}

	switch info, err := os.Stat(target); {
	case err != nil || !info.IsDir():
		e.Status = StatusOrphan
	case pathhash.Sum(filepath.Clean(target)) != addr:
		e.Status = StatusMismatch
	default:
		e.Status = StatusOK
	}
	return e
}
