package main

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// renderMarkdown builds the full report document. It is a pure function of
// its inputs: the same items, stats, and run info produce the same bytes, no
// matter how classification was scheduled.
func renderMarkdown(items []StructureItem, stats StatsSnapshot, run RunInfo) string {
	var b strings.Builder
	writeReportHeader(&b, run)
	writeSummaryStatistics(&b, stats)
	writeDirectoryTree(&b, items)
	writeDetailedListings(&b, items)
	writeAppendix(&b, items)
	return b.String()
}

func writeReportHeader(b *strings.Builder, run RunInfo) {
	b.WriteString("# Comprehensive Folder Mapping Report\n\n")
	fmt.Fprintf(b, "**Generated:** %s\n", run.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(b, "**Source:** %s\n", run.Source)
	fmt.Fprintf(b, "**Processing Time:** %s\n\n", run.GeneratedAt.Sub(run.StartedAt).Round(time.Millisecond))
	b.WriteString("---\n\n")
}

func writeSummaryStatistics(b *strings.Builder, stats StatsSnapshot) {
	b.WriteString("## Summary Statistics\n\n")
	fmt.Fprintf(b, "- **Total Files:** %s\n", humanize.Comma(stats.ProcessedFiles))
	fmt.Fprintf(b, "- **Total Folders:** %s\n", humanize.Comma(stats.ProcessedFolders))
	fmt.Fprintf(b, "- **Total Size:** %s\n", formatSize(stats.TotalSizeBytes))
	fmt.Fprintf(b, "- **Large Files (>100MB):** %s\n", humanize.Comma(stats.LargeFiles))
	fmt.Fprintf(b, "- **Empty Directories:** %s\n", humanize.Comma(stats.EmptyDirectories))
	fmt.Fprintf(b, "- **Permission Denials:** %s\n", humanize.Comma(stats.PermissionDenials))
	fmt.Fprintf(b, "- **Processing Errors:** %s\n\n", humanize.Comma(stats.ErrorsEncountered))
	b.WriteString("---\n\n")
}

// writeDirectoryTree renders the directory-only tree, indented by each
// directory's recorded depth.
func writeDirectoryTree(b *strings.Builder, items []StructureItem) {
	b.WriteString("## Directory Structure Tree\n\n")
	b.WriteString("```\n")

	dirs := make([]StructureItem, 0, len(items))
	for _, item := range items {
		if item.Kind == KindDirectory {
			dirs = append(dirs, item)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Path < dirs[j].Path })

	for _, d := range dirs {
		fmt.Fprintf(b, "%s📁 %s/\n", strings.Repeat("  ", d.Depth), d.Name)
	}

	b.WriteString("```\n\n")
	b.WriteString("---\n\n")
}

// writeDetailedListings renders every item, grouped under its immediate
// parent directory. The root group leads; within a group, directories come
// before files, each sorted by path.
func writeDetailedListings(b *strings.Builder, items []StructureItem) {
	b.WriteString("## Detailed File and Folder Listings\n\n")

	groups := make(map[string][]StructureItem)
	for _, item := range items {
		parent := path.Dir(item.Path)
		groups[parent] = append(groups[parent], item)
	}

	parents := make([]string, 0, len(groups))
	for parent := range groups {
		parents = append(parents, parent)
	}
	sort.Slice(parents, func(i, j int) bool {
		if parents[i] == "." || parents[j] == "." {
			return parents[i] == "."
		}
		return parents[i] < parents[j]
	})

	for _, parent := range parents {
		if parent == "." {
			b.WriteString("### Root Directory\n\n")
		} else {
			fmt.Fprintf(b, "### Directory: `%s`\n\n", parent)
		}

		group := groups[parent]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Kind != group[j].Kind {
				return group[i].Kind == KindDirectory
			}
			return group[i].Path < group[j].Path
		})
		for _, item := range group {
			writeItemDetails(b, item)
		}
	}

	b.WriteString("---\n\n")
}

func writeItemDetails(b *strings.Builder, item StructureItem) {
	icon, kindLabel := "📄", "File"
	if item.Kind == KindDirectory {
		icon, kindLabel = "📁", "Directory"
	}

	fmt.Fprintf(b, "**%s %s**\n", icon, item.Name)
	fmt.Fprintf(b, "- **Path:** `%s`\n", item.Path)
	fmt.Fprintf(b, "- **Type:** %s\n", kindLabel)
	fmt.Fprintf(b, "- **Description:** %s\n", item.Description)

	if item.Kind == KindFile {
		fmt.Fprintf(b, "- **Size:** %s\n", item.SizeHuman)
		if item.MimeType != "" {
			fmt.Fprintf(b, "- **MIME Type:** %s\n", item.MimeType)
		}
		if item.Extension != "" {
			fmt.Fprintf(b, "- **Extension:** %s\n", item.Extension)
		}
	} else {
		fmt.Fprintf(b, "- **Items:** %d\n", item.ItemCount)
		status := "Accessible"
		if !item.Accessible {
			status = "Restricted"
		}
		fmt.Fprintf(b, "- **Status:** %s\n", status)
	}
	b.WriteString("\n")
}

// writeAppendix renders the extension histogram (by descending count, ties
// alphabetical) and the processing-log pointer.
func writeAppendix(b *strings.Builder, items []StructureItem) {
	b.WriteString("## Appendix\n\n")
	b.WriteString("### File Extensions Summary\n\n")

	counts := make(map[string]int64)
	for _, item := range items {
		if item.Kind == KindFile && item.Extension != "" {
			counts[item.Extension]++
		}
	}
	exts := make([]string, 0, len(counts))
	for ext := range counts {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if counts[exts[i]] != counts[exts[j]] {
			return counts[exts[i]] > counts[exts[j]]
		}
		return exts[i] < exts[j]
	})
	for _, ext := range exts {
		fmt.Fprintf(b, "- **%s:** %s files\n", ext, humanize.Comma(counts[ext]))
	}

	b.WriteString("\n### Processing Log\n\n")
	b.WriteString("For detailed processing information, see the log file generated alongside this report.\n\n")
	b.WriteString("---\n\n")
	b.WriteString("*Report generated by argus*\n")
}
