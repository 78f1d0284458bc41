package linkcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/commando/internal/logging"
	"github.com/fyrsmithlabs/commando/internal/pathhash"
)

// DirName is the bucket tree inside the shared dependency root.
const DirName = ".project-links"

// ErrSymlinkConflict means the computed link path exists but is not a
// symlink, or its target could not be read.
var ErrSymlinkConflict = errors.New("link path is not a usable symlink")

// ConflictError reports an unusable entry at a computed link path.
type ConflictError struct {
	LinkPath string
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.LinkPath, ErrSymlinkConflict, e.Err)
}

func (e *ConflictError) Unwrap() []error {
	return []error{ErrSymlinkConflict, e.Err}
}

// Cache maps project module directories to stable link paths inside the
// shared dependency root.
type Cache struct {
	root   string
	logger *logging.Logger
}

// New returns a cache rooted at <depsRoot>/.project-links. Nothing is
// created until EnsureLink is called.
func New(depsRoot string, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Cache{
		root:   filepath.Join(depsRoot, DirName),
		logger: logger.Named("linkcache"),
	}
}

// Root returns the bucket tree root.
func (c *Cache) Root() string {
	return c.root
}

// LinkPath returns where the link for moduleDir lives. It is a pure
// function of pathhash.Sum(moduleDir) and touches no files.
func (c *Cache) LinkPath(moduleDir string) string {
	addr := pathhash.Sum(moduleDir)
	return filepath.Join(c.root, addr.Bucket(), addr.Suffix())
}

// EnsureLink makes sure a directory symlink to moduleDir exists at
// LinkPath(moduleDir) and returns that path.
//
// An existing link pointing somewhere else is logged and returned as is;
// it is never repaired or removed. An existing entry that is not a
// symlink yields a *ConflictError.
//
// Concurrent callers may race on the same address. Losing the race to
// create the link is not an error: the entry is read again and checked
// like any pre-existing one.
func (c *Cache) EnsureLink(ctx context.Context, moduleDir string) (string, error) {
	addr := pathhash.Sum(moduleDir)
	bucketDir := filepath.Join(c.root, addr.Bucket())
	link := filepath.Join(bucketDir, addr.Suffix())

	c.logger.Debug(ctx, "ensuring project link",
		zap.String("module_dir", moduleDir),
		zap.String("address", addr.String()),
		zap.String("link", link),
	)

	// MkdirAll treats an existing directory as success, including one
	// created by another process between its checks.
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return "", fmt.Errorf("create link bucket %s: %w", bucketDir, err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		target, err := os.Readlink(link)
		switch {
		case err == nil:
			if sameTarget(link, target, moduleDir) {
				c.logger.Trace(ctx, "project link already correct", zap.String("link", link))
				return link, nil
			}
			c.logger.Warn(ctx, "symlink points to wrong target",
				zap.String("link", link),
				zap.String("current_target", target),
				zap.String("expected_target", moduleDir),
			)
			return link, nil

		case errors.Is(err, fs.ErrNotExist):
			err := os.Symlink(moduleDir, link)
			if err == nil {
				c.logger.Debug(ctx, "created project link",
					zap.String("link", link),
					zap.String("target", moduleDir),
				)
				return link, nil
			}
			if errors.Is(err, fs.ErrExist) {
				c.logger.Debug(ctx, "project link appeared concurrently, rechecking", zap.String("link", link))
				continue
			}
			return "", fmt.Errorf("create symlink %s -> %s: %w", link, moduleDir, err)

		default:
			return "", &ConflictError{LinkPath: link, Err: err}
		}
	}

	return "", fmt.Errorf("create symlink %s -> %s: entry keeps changing", link, moduleDir)
}

// RewritePath replaces the moduleDir prefix of fullPath with the link
// path for moduleDir. Paths outside moduleDir are returned unchanged.
// The text after the prefix is kept byte for byte.
//
// RewritePath does not create the link; call EnsureLink first.
func (c *Cache) RewritePath(ctx context.Context, fullPath, moduleDir string) string {
	if !within(fullPath, moduleDir) {
		c.logger.Trace(ctx, "path outside module dir, not rewritten",
			zap.String("path", fullPath),
			zap.String("module_dir", moduleDir),
		)
		return fullPath
	}

	rewritten := c.LinkPath(moduleDir) + fullPath[len(moduleDir):]
	c.logger.Debug(ctx, "rewrote module path",
		zap.String("original", fullPath),
		zap.String("rewritten", rewritten),
	)
	return rewritten
}

// within reports whether path is dir or below it. The check is on whole
// path components, so /p/.commando-old is not within /p/.commando.
func within(path, dir string) bool {
	if dir == "" || !strings.HasPrefix(path, dir) {
		return false
	}
	if len(path) == len(dir) || strings.HasSuffix(dir, string(filepath.Separator)) {
		return true
	}
	return path[len(dir)] == filepath.Separator
}

// sameTarget compares a raw readlink result with the expected directory.
// Relative targets are resolved against the link's own directory.
func sameTarget(link, target, want string) bool {
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return filepath.Clean(target) == filepath.Clean(want)
}
