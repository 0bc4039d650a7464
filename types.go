package main

import "time"

// ItemKind distinguishes the two kinds of entries recorded during traversal.
type ItemKind string

const (
	KindFile      ItemKind = "file"
	KindDirectory ItemKind = "directory"
)

// Entry is one pending path discovered by the walker, not yet classified.
type Entry struct {
	Path  string // absolute path on disk
	Rel   string // path relative to the mapping root, forward slashes
	Name  string
	Kind  ItemKind
	Depth int // number of path segments between the root and the entry's parent
}

// Batch is an ordered chunk of walker entries. Every batch holds exactly
// chunkSize entries except possibly the final one.
type Batch []Entry

// StructureItem holds everything recorded about one classified file or directory.
type StructureItem struct {
	Kind        ItemKind
	Name        string
	Path        string // relative to the mapping root, unique within a run
	Description string
	Depth       int
	Accessible  bool

	// File fields.
	Size      int64
	SizeHuman string
	Modified  time.Time // zero when the stat failed
	Extension string    // lower-case with leading dot, "" when none
	MimeType  string    // "" when unknown

	// Directory fields.
	ItemCount int
	IsEmpty   bool
}

// RunInfo identifies a single mapping run. The renderers take it as input so
// their output stays a pure function of (items, stats, run).
type RunInfo struct {
	ID          string
	Source      string
	StartedAt   time.Time
	GeneratedAt time.Time
}

// Options carries the knobs for one mapping run.
type Options struct {
	Input      string
	OutputPath string
	MaxDepth   int
	MaxWorkers int
	ChunkSize  int
	JSONPath   string // "" disables the JSON artifact
	PDFPath    string // "" disables the PDF artifact
	Clipboard  bool
	IgnoreFile string // gitignore-syntax skip list, "" disables
}

// Result summarizes a finished mapping run.
type Result struct {
	ReportPath string
	JSONPath   string
	ItemCount  int
	Stats      StatsSnapshot
}
