package main

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 5   // Line height in mm
	pdfFontSize   = 9
)

// renderPDF writes the report as a PDF with the same sections as the
// markdown: header, summary statistics, directory tree, detailed listings,
// and the extension summary. The core fonts cannot render the tree glyphs,
// so the PDF uses plain indentation instead.
func renderPDF(items []StructureItem, stats StatsSnapshot, run RunInfo, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "") // Portrait, mm, A4, default font dir
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	width := float64(pdfPageWidth - 2*pdfMargin)

	// Header
	pdf.SetFont("Helvetica", "B", pdfFontSize+5)
	pdf.MultiCell(width, pdfLineHeight+2, "Comprehensive Folder Mapping Report", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	header := fmt.Sprintf("Generated: %s\nSource: %s\nProcessing Time: %s",
		run.GeneratedAt.Format("2006-01-02 15:04:05"),
		run.Source,
		run.GeneratedAt.Sub(run.StartedAt).Round(time.Millisecond))
	pdf.MultiCell(width, pdfLineHeight, header, "", "L", false)
	pdf.Ln(pdfLineHeight)

	// Summary statistics
	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.MultiCell(width, pdfLineHeight, "Summary Statistics", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	summary := fmt.Sprintf(
		"Total Files: %s\nTotal Folders: %s\nTotal Size: %s\nLarge Files (>100MB): %s\nEmpty Directories: %s\nPermission Denials: %s\nProcessing Errors: %s",
		humanize.Comma(stats.ProcessedFiles),
		humanize.Comma(stats.ProcessedFolders),
		formatSize(stats.TotalSizeBytes),
		humanize.Comma(stats.LargeFiles),
		humanize.Comma(stats.EmptyDirectories),
		humanize.Comma(stats.PermissionDenials),
		humanize.Comma(stats.ErrorsEncountered))
	pdf.MultiCell(width, pdfLineHeight, summary, "", "L", false)
	pdf.Ln(pdfLineHeight)

	// Directory tree
	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.MultiCell(width, pdfLineHeight, "Directory Structure Tree", "", "L", false)
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.MultiCell(width, pdfLineHeight, buildPlainTree(items), "", "L", false)
	pdf.Ln(pdfLineHeight)

	// Detailed listings
	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.MultiCell(width, pdfLineHeight, "Detailed File and Folder Listings", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	sorted := make([]StructureItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	currentParent := "\x00"
	for _, item := range sorted {
		parent := path.Dir(item.Path)
		if parent != currentParent {
			currentParent = parent
			title := "Root Directory"
			if parent != "." {
				title = "Directory: " + parent
			}
			pdf.SetFont("Helvetica", "B", pdfFontSize+1)
			pdf.MultiCell(width, pdfLineHeight, title, "", "L", false)
			pdf.Ln(pdfLineHeight / 2)
		}

		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.MultiCell(width, pdfLineHeight, item.Name, "", "L", false)
		pdf.SetFont("Helvetica", "", pdfFontSize)
		detail := fmt.Sprintf("Path: %s\nDescription: %s", item.Path, item.Description)
		if item.Kind == KindFile {
			detail += fmt.Sprintf("\nSize: %s", item.SizeHuman)
		} else {
			detail += fmt.Sprintf("\nItems: %d", item.ItemCount)
		}
		pdf.MultiCell(width, pdfLineHeight, detail, "", "L", false)
		pdf.Ln(pdfLineHeight / 2)
	}

	// Extension summary
	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.MultiCell(width, pdfLineHeight, "File Extensions Summary", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.MultiCell(width, pdfLineHeight, buildExtensionSummary(items), "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}

// buildPlainTree renders the directory-only tree with two-space indentation,
// mirroring the markdown tree without the glyphs.
func buildPlainTree(items []StructureItem) string {
	dirs := make([]StructureItem, 0, len(items))
	for _, item := range items {
		if item.Kind == KindDirectory {
			dirs = append(dirs, item)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Path < dirs[j].Path })

	var builder strings.Builder
	for _, d := range dirs {
		builder.WriteString(strings.Repeat("  ", d.Depth))
		builder.WriteString(d.Name)
		builder.WriteString("/\n")
	}
	return builder.String()
}

func buildExtensionSummary(items []StructureItem) string {
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

	var builder strings.Builder
	for _, ext := range exts {
		fmt.Fprintf(&builder, "%s: %s files\n", ext, humanize.Comma(counts[ext]))
	}
	return builder.String()
}
