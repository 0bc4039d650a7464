package main

import (
	"encoding/json"
	"sort"
	"time"
)

// jsonReport is the artifact written next to the markdown report for
// programmatic consumers.
type jsonReport struct {
	Metadata   jsonMetadata `json:"metadata"`
	Statistics jsonStats    `json:"statistics"`
	Structure  []any        `json:"structure"`
}

type jsonMetadata struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	RunID       string `json:"run_id"`
	GeneratedAt string `json:"generated_at"`
	SourceFile  string `json:"source_file"`
}

type jsonStats struct {
	TotalFiles        int64  `json:"total_files"`
	TotalFolders      int64  `json:"total_folders"`
	TotalSizeBytes    int64  `json:"total_size_bytes"`
	TotalSizeHuman    string `json:"total_size_human"`
	LargeFiles        int64  `json:"large_files"`
	EmptyDirectories  int64  `json:"empty_directories"`
	PermissionDenials int64  `json:"permission_denials"`
	ProcessingErrors  int64  `json:"processing_errors"`
}

// jsonFile and jsonDir mirror the per-kind item shapes of the markdown
// report. Files always carry size fields; modified and mime_type are omitted
// when unknown.
type jsonFile struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Description  string `json:"description"`
	Level        int    `json:"level"`
	Size         int64  `json:"size"`
	SizeHuman    string `json:"size_human"`
	Modified     string `json:"modified,omitempty"`
	Extension    string `json:"extension"`
	MimeType     string `json:"mime_type,omitempty"`
	IsAccessible bool   `json:"is_accessible"`
}

type jsonDir struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Description  string `json:"description"`
	Level        int    `json:"level"`
	ItemCount    int    `json:"item_count"`
	IsEmpty      bool   `json:"is_empty"`
	IsAccessible bool   `json:"is_accessible"`
}

// renderJSON marshals the structure and stats with a stable item order.
func renderJSON(items []StructureItem, stats StatsSnapshot, run RunInfo) ([]byte, error) {
	sorted := make([]StructureItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	structure := make([]any, 0, len(sorted))
	for _, item := range sorted {
		structure = append(structure, itemToJSON(item))
	}

	report := jsonReport{
		Metadata: jsonMetadata{
			Tool:        "argus",
			Version:     version,
			RunID:       run.ID,
			GeneratedAt: run.GeneratedAt.Format(time.RFC3339),
			SourceFile:  run.Source,
		},
		Statistics: statsToJSON(stats),
		Structure:  structure,
	}
	return json.MarshalIndent(report, "", "  ")
}

func statsToJSON(stats StatsSnapshot) jsonStats {
	return jsonStats{
		TotalFiles:        stats.ProcessedFiles,
		TotalFolders:      stats.ProcessedFolders,
		TotalSizeBytes:    stats.TotalSizeBytes,
		TotalSizeHuman:    formatSize(stats.TotalSizeBytes),
		LargeFiles:        stats.LargeFiles,
		EmptyDirectories:  stats.EmptyDirectories,
		PermissionDenials: stats.PermissionDenials,
		ProcessingErrors:  stats.ErrorsEncountered,
	}
}

// itemToJSON converts one structure item to its artifact shape. The bridge
// reuses this for describe responses.
func itemToJSON(item StructureItem) any {
	if item.Kind == KindDirectory {
		return jsonDir{
			Type:         string(item.Kind),
			Name:         item.Name,
			Path:         item.Path,
			Description:  item.Description,
			Level:        item.Depth,
			ItemCount:    item.ItemCount,
			IsEmpty:      item.IsEmpty,
			IsAccessible: item.Accessible,
		}
	}

	modified := ""
	if !item.Modified.IsZero() {
		modified = item.Modified.Format(time.RFC3339)
	}
	return jsonFile{
		Type:         string(item.Kind),
		Name:         item.Name,
		Path:         item.Path,
		Description:  item.Description,
		Level:        item.Depth,
		Size:         item.Size,
		SizeHuman:    item.SizeHuman,
		Modified:     modified,
		Extension:    item.Extension,
		MimeType:     item.MimeType,
		IsAccessible: item.Accessible,
	}
}
