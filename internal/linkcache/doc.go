// Package linkcache gives project module directories a stable home inside
// the shared dependency root.
//
// Project code is loaded from a path under the shared dependency tree so
// that its imports resolve against the dependencies installed there rather
// than anything in the project. Each project's .commando directory gets a
// directory symlink at
//
//	<deps>/.project-links/<bucket>/<suffix>
//
// where bucket and suffix come from pathhash.Sum of the directory path.
// EnsureLink creates the link lazily and revalidates it on every call;
// RewritePath maps a file inside the project directory to the same file
// seen through the link.
//
// Entries are never deleted. A link left behind by a moved or removed
// project shows up as StatusOrphan in Entries and is cleaned manually.
// A link whose target differs from the directory that produced its
// address is logged at warn level and still returned by EnsureLink.
package linkcache
