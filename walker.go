package main

import (
	"log/slog"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
)

// Walker enumerates a directory tree in bounded batches. It is lazy: no
// directory is read before the batch that needs it, and it never restarts.
// Traversal is depth-first; within each directory, subdirectory entries come
// before file entries. Enumeration order is not part of the report contract.
type Walker struct {
	root      string
	maxDepth  int
	chunkSize int
	ignore    gitignore.IgnoreMatcher
	log       *slog.Logger

	stack   []walkFrame
	pending []Entry
}

// walkFrame is one directory waiting to be read. depth is the depth assigned
// to the entries inside it: 0 for entries directly under the root.
type walkFrame struct {
	path  string
	rel   string
	depth int
}

// newWalker prepares a walker over root. Entries deeper than maxDepth are
// pruned; a nil ignore matcher disables pattern skipping.
func newWalker(root string, maxDepth, chunkSize int, ignore gitignore.IgnoreMatcher, log *slog.Logger) *Walker {
	return &Walker{
		root:      root,
		maxDepth:  maxDepth,
		chunkSize: chunkSize,
		ignore:    ignore,
		log:       log,
		stack:     []walkFrame{{path: root, rel: "", depth: 0}},
	}
}

// Next returns the next batch of entries. Every batch holds exactly chunkSize
// entries except possibly the final one; ok is false once the tree is
// exhausted.
func (w *Walker) Next() (Batch, bool) {
	for len(w.pending) < w.chunkSize && len(w.stack) > 0 {
		frame := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		w.readDir(frame)
	}

	if len(w.pending) == 0 {
		return nil, false
	}

	n := w.chunkSize
	if len(w.pending) < n {
		n = len(w.pending)
	}
	batch := make(Batch, n)
	copy(batch, w.pending[:n])
	w.pending = w.pending[n:]
	return batch, true
}

// readDir appends the entries of one directory to the pending queue and
// stacks its subdirectories for later descent.
func (w *Walker) readDir(frame walkFrame) {
	if frame.depth > w.maxDepth {
		w.log.Warn("maximum depth exceeded, pruning directory", "path", frame.path, "depth", frame.depth)
		return
	}

	entries, err := os.ReadDir(frame.path)
	if err != nil {
		// The directory entry itself was already queued; the classifier
		// marks it inaccessible. Nothing below it can be reached.
		w.log.Debug("unreadable directory", "path", frame.path, "error", err)
		return
	}

	var dirs, files []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	var frames []walkFrame
	for _, e := range dirs {
		abs := filepath.Join(frame.path, e.Name())
		rel := joinRel(frame.rel, e.Name())
		if w.skip(abs, true) {
			continue
		}
		w.pending = append(w.pending, Entry{
			Path:  abs,
			Rel:   rel,
			Name:  e.Name(),
			Kind:  KindDirectory,
			Depth: frame.depth,
		})
		frames = append(frames, walkFrame{path: abs, rel: rel, depth: frame.depth + 1})
	}
	for _, e := range files {
		abs := filepath.Join(frame.path, e.Name())
		if w.skip(abs, false) {
			continue
		}
		w.pending = append(w.pending, Entry{
			Path:  abs,
			Rel:   joinRel(frame.rel, e.Name()),
			Name:  e.Name(),
			Kind:  KindFile,
			Depth: frame.depth,
		})
	}

	// Push in reverse so directories are descended in enumeration order.
	for i := len(frames) - 1; i >= 0; i-- {
		w.stack = append(w.stack, frames[i])
	}
}

// skip reports whether the ignore matcher excludes the given path.
func (w *Walker) skip(absPath string, isDir bool) bool {
	return w.ignore != nil && w.ignore.Match(absPath, isDir)
}

// joinRel extends a root-relative path with one more segment, always using
// forward slashes.
func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
