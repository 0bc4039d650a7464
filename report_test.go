package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFixture() ([]StructureItem, StatsSnapshot, RunInfo) {
	items := []StructureItem{
		{Kind: KindFile, Name: "readme.md", Path: "readme.md", Description: "Text/documentation file (small size: 4.0 B)",
			Size: 4, SizeHuman: "4.0 B", Extension: ".md", Accessible: true},
		{Kind: KindDirectory, Name: "src", Path: "src", Description: "Source code directory containing 2 files and 0 subdirectories",
			ItemCount: 2, Accessible: true},
		{Kind: KindFile, Name: "app.py", Path: "src/app.py", Description: "Python script file (small size: 10.0 B)",
			Size: 10, SizeHuman: "10.0 B", Extension: ".py", Accessible: true, Depth: 1},
		{Kind: KindFile, Name: "util.py", Path: "src/util.py", Description: "Python script file (small size: 8.0 B)",
			Size: 8, SizeHuman: "8.0 B", Extension: ".py", Accessible: true, Depth: 1},
		{Kind: KindDirectory, Name: "logs", Path: "logs", Description: "Empty directory",
			IsEmpty: true, Accessible: true},
		{Kind: KindDirectory, Name: "deep", Path: "src/deep", Description: "Empty directory",
			IsEmpty: true, Accessible: true, Depth: 1},
		{Kind: KindFile, Name: "notes.txt", Path: "notes.txt", Description: "Text/documentation file (small size: 2.0 B)",
			Size: 2, SizeHuman: "2.0 B", Extension: ".txt", Accessible: true},
	}
	stats := StatsSnapshot{
		ProcessedFiles:   4,
		ProcessedFolders: 3,
		EmptyDirectories: 2,
		TotalSizeBytes:   24,
		StartTime:        time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
	}
	run := RunInfo{
		ID:          "fixed-run-id",
		Source:      "/tmp/project.zip",
		StartedAt:   time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
		GeneratedAt: time.Date(2026, time.January, 2, 3, 4, 6, 500e6, time.UTC),
	}
	return items, stats, run
}

func TestRenderMarkdownIsDeterministic(t *testing.T) {
	items, stats, run := reportFixture()

	// Present the same items in a different order, as a different worker
	// schedule would.
	shuffled := make([]StructureItem, len(items))
	for i, item := range items {
		shuffled[len(items)-1-i] = item
	}

	first := renderMarkdown(items, stats, run)
	second := renderMarkdown(shuffled, stats, run)
	assert.Equal(t, first, second)
}

func TestRenderMarkdownHeader(t *testing.T) {
	items, stats, run := reportFixture()
	out := renderMarkdown(items, stats, run)

	assert.True(t, strings.HasPrefix(out, "# Comprehensive Folder Mapping Report\n"))
	assert.Contains(t, out, "**Generated:** 2026-01-02 03:04:06\n")
	assert.Contains(t, out, "**Source:** /tmp/project.zip\n")
	assert.Contains(t, out, "**Processing Time:** 1.5s\n")
}

func TestRenderMarkdownSectionOrder(t *testing.T) {
	items, stats, run := reportFixture()
	out := renderMarkdown(items, stats, run)

	sections := []string{
		"# Comprehensive Folder Mapping Report",
		"## Summary Statistics",
		"## Directory Structure Tree",
		"## Detailed File and Folder Listings",
		"## Appendix",
		"*Report generated by argus*",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		require.GreaterOrEqual(t, idx, 0, s)
		assert.Greater(t, idx, last, "%s out of order", s)
		last = idx
	}
}

func TestRenderMarkdownSummaryStatistics(t *testing.T) {
	items, _, run := reportFixture()
	stats := StatsSnapshot{
		ProcessedFiles:    1234567,
		ProcessedFolders:  89,
		TotalSizeBytes:    1536 * 1024,
		LargeFiles:        3,
		EmptyDirectories:  4,
		PermissionDenials: 5,
		ErrorsEncountered: 6,
	}
	out := renderMarkdown(items, stats, run)

	assert.Contains(t, out, "- **Total Files:** 1,234,567\n")
	assert.Contains(t, out, "- **Total Folders:** 89\n")
	assert.Contains(t, out, "- **Total Size:** 1.5 MB\n")
	assert.Contains(t, out, "- **Large Files (>100MB):** 3\n")
	assert.Contains(t, out, "- **Empty Directories:** 4\n")
	assert.Contains(t, out, "- **Permission Denials:** 5\n")
	assert.Contains(t, out, "- **Processing Errors:** 6\n")
}

func TestRenderMarkdownDirectoryTree(t *testing.T) {
	items, stats, run := reportFixture()
	out := renderMarkdown(items, stats, run)

	// Directories only, sorted by path, indented two spaces per depth level.
	assert.Contains(t, out, "```\n📁 logs/\n📁 src/\n  📁 deep/\n```\n")
	tree := out[strings.Index(out, "```") : strings.Index(out, "## Detailed")+1]
	assert.NotContains(t, tree, "readme.md")
}

func TestRenderMarkdownRootGroupLeads(t *testing.T) {
	items, stats, run := reportFixture()
	out := renderMarkdown(items, stats, run)

	rootIdx := strings.Index(out, "### Root Directory")
	srcIdx := strings.Index(out, "### Directory: `src`")
	require.GreaterOrEqual(t, rootIdx, 0)
	require.GreaterOrEqual(t, srcIdx, 0)
	assert.Less(t, rootIdx, srcIdx)
}

func TestRenderMarkdownDirectoriesBeforeFilesInGroup(t *testing.T) {
	items, stats, run := reportFixture()
	out := renderMarkdown(items, stats, run)

	// In the root group: logs and src (directories) before notes.txt and
	// readme.md (files).
	logsIdx := strings.Index(out, "**📁 logs**")
	srcIdx := strings.Index(out, "**📁 src**")
	notesIdx := strings.Index(out, "**📄 notes.txt**")
	readmeIdx := strings.Index(out, "**📄 readme.md**")
	for _, idx := range []int{logsIdx, srcIdx, notesIdx, readmeIdx} {
		require.GreaterOrEqual(t, idx, 0)
	}
	assert.Less(t, logsIdx, srcIdx)
	assert.Less(t, srcIdx, notesIdx)
	assert.Less(t, notesIdx, readmeIdx)
}

func TestRenderMarkdownItemDetails(t *testing.T) {
	items, stats, run := reportFixture()
	out := renderMarkdown(items, stats, run)

	assert.Contains(t, out, "**📄 readme.md**\n- **Path:** `readme.md`\n- **Type:** File\n")
	assert.Contains(t, out, "- **Size:** 4.0 B\n")
	assert.Contains(t, out, "- **Extension:** .md\n")

	assert.Contains(t, out, "**📁 src**\n- **Path:** `src`\n- **Type:** Directory\n")
	assert.Contains(t, out, "- **Items:** 2\n")
	assert.Contains(t, out, "- **Status:** Accessible\n")
}

func TestRenderMarkdownRestrictedStatus(t *testing.T) {
	items := []StructureItem{
		{Kind: KindDirectory, Name: "locked", Path: "locked",
			Description: "Directory with restricted access permissions"},
	}
	out := renderMarkdown(items, StatsSnapshot{}, RunInfo{})
	assert.Contains(t, out, "- **Status:** Restricted\n")
}

func TestRenderMarkdownExtensionHistogram(t *testing.T) {
	items, stats, run := reportFixture()
	out := renderMarkdown(items, stats, run)

	// .py leads on count; .md and .txt tie and fall back to alphabetical.
	pyIdx := strings.Index(out, "- **.py:** 2 files\n")
	mdIdx := strings.Index(out, "- **.md:** 1 files\n")
	txtIdx := strings.Index(out, "- **.txt:** 1 files\n")
	for _, idx := range []int{pyIdx, mdIdx, txtIdx} {
		require.GreaterOrEqual(t, idx, 0)
	}
	assert.Less(t, pyIdx, mdIdx)
	assert.Less(t, mdIdx, txtIdx)
}

func TestRenderMarkdownEmptyRun(t *testing.T) {
	out := renderMarkdown(nil, StatsSnapshot{}, RunInfo{Source: "empty.zip"})

	assert.Contains(t, out, "- **Total Files:** 0\n")
	assert.Contains(t, out, "## Detailed File and Folder Listings")
	assert.Contains(t, out, "*Report generated by argus*\n")
}
