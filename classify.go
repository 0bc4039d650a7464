package main

import (
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Classifier turns walker entries into classified structure items using a
// bounded worker pool per batch.
type Classifier struct {
	describer *Describer
	stats     *Stats
	workers   int
	log       *slog.Logger
}

func newClassifier(describer *Describer, stats *Stats, workers int, log *slog.Logger) *Classifier {
	return &Classifier{describer: describer, stats: stats, workers: workers, log: log}
}

// ClassifyBatch classifies every entry of one batch. Workers run
// concurrently; entries whose classification fails are dropped and counted.
// The result order follows scheduling and carries no meaning.
func (c *Classifier) ClassifyBatch(batch Batch) []StructureItem {
	jobs := make(chan Entry, len(batch))
	results := make(chan StructureItem, len(batch))
	var wg sync.WaitGroup

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go c.worker(jobs, results, &wg)
	}

	for _, entry := range batch {
		jobs <- entry
	}
	close(jobs)

	wg.Wait()
	close(results)

	items := make([]StructureItem, 0, len(batch))
	for item := range results {
		items = append(items, item)
	}
	return items
}

func (c *Classifier) worker(jobs <-chan Entry, results chan<- StructureItem, wg *sync.WaitGroup) {
	defer wg.Done()
	for entry := range jobs {
		item, err := c.classifyEntry(entry)
		if err != nil {
			c.log.Error("error processing entry", "kind", entry.Kind, "path", entry.Path, "error", err)
			c.stats.AddError()
			continue
		}
		results <- item
	}
}

func (c *Classifier) classifyEntry(entry Entry) (StructureItem, error) {
	if entry.Kind == KindDirectory {
		return c.classifyDirectory(entry), nil
	}
	return c.classifyFile(entry)
}

// classifyDirectory always yields an item: an unreadable directory is still
// part of the structure, it just gets flagged.
func (c *Classifier) classifyDirectory(entry Entry) StructureItem {
	accessible := true
	entries, err := os.ReadDir(entry.Path)
	if err != nil {
		accessible = false
		entries = nil
		if isPermission(err) {
			c.stats.AddPermissionDenial()
		}
	}

	var files, dirs int
	extCounts := make(map[string]int)
	for _, e := range entries {
		if e.IsDir() {
			dirs++
		} else {
			files++
			extCounts[strings.ToLower(filepath.Ext(e.Name()))]++
		}
	}

	empty := accessible && len(entries) == 0
	c.stats.AddFolder(empty)

	itemCount := 0
	if accessible {
		itemCount = len(entries)
	}
	return StructureItem{
		Kind:        KindDirectory,
		Name:        entry.Name,
		Path:        entry.Rel,
		Description: c.describer.DescribeDirectory(entry.Name, files, dirs, extCounts, accessible, empty),
		Depth:       entry.Depth,
		Accessible:  accessible,
		ItemCount:   itemCount,
		IsEmpty:     empty,
	}
}

// classifyFile stats the file and builds its item. Permission failures keep
// the entry with zeroed details; any other stat failure drops it.
func (c *Classifier) classifyFile(entry Entry) (StructureItem, error) {
	var (
		size       int64
		modified   time.Time
		accessible = true
	)
	info, err := os.Stat(entry.Path)
	switch {
	case err == nil:
		size = info.Size()
		modified = info.ModTime()
	case isPermission(err):
		accessible = false
		c.stats.AddPermissionDenial()
	default:
		return StructureItem{}, &ClassificationError{Path: entry.Path, Err: err}
	}

	c.stats.AddFile(size)

	ext := strings.ToLower(filepath.Ext(entry.Name))
	return StructureItem{
		Kind:        KindFile,
		Name:        entry.Name,
		Path:        entry.Rel,
		Description: c.describer.DescribeFile(entry.Name, entry.Path, size, accessible),
		Depth:       entry.Depth,
		Accessible:  accessible,
		Size:        size,
		SizeHuman:   formatSize(size),
		Modified:    modified,
		Extension:   ext,
		MimeType:    mimeByExtension(ext),
	}, nil
}

// mimeByExtension resolves a MIME type from the extension alone, without the
// charset parameters the stdlib table appends.
func mimeByExtension(ext string) string {
	if ext == "" {
		return ""
	}
	m := mime.TypeByExtension(ext)
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	return m
}
