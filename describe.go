package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yml
var categoriesYAML []byte

// previewBytes is how much of a file head the content hints may look at.
const previewBytes = 500

// patternRule maps name keywords to a description template taking the file
// count and the subdirectory count.
type patternRule struct {
	Keywords []string `yaml:"keywords"`
	Template string   `yaml:"template"`
}

// labelRule maps file extensions to a category label.
type labelRule struct {
	Extensions []string `yaml:"extensions"`
	Label      string   `yaml:"label"`
}

// keywordRule maps file-name keywords to a category label.
type keywordRule struct {
	Keywords []string `yaml:"keywords"`
	Label    string   `yaml:"label"`
}

// dominantRule maps a directory's dominant file extension to a template.
type dominantRule struct {
	Extensions []string `yaml:"extensions"`
	Template   string   `yaml:"template"`
}

// hintRule is one content-preview check. Exactly one of the match fields is
// expected to be set.
type hintRule struct {
	Contains     string   `yaml:"contains,omitempty"`
	ContainsAll  []string `yaml:"contains_all,omitempty"`
	NameContains string   `yaml:"name_contains,omitempty"`
	Hint         string   `yaml:"hint"`
}

// hintGroup binds a set of extensions to an ordered list of hint rules.
type hintGroup struct {
	Extensions []string   `yaml:"extensions"`
	Rules      []hintRule `yaml:"rules"`
}

// categoryTables is the full YAML document shape.
type categoryTables struct {
	RestrictedDirectory      string         `yaml:"restricted_directory"`
	RestrictedFile           string         `yaml:"restricted_file"`
	EmptyDirectory           string         `yaml:"empty_directory"`
	DirectoryPatterns        []patternRule  `yaml:"directory_patterns"`
	DefaultDirectoryTemplate string         `yaml:"default_directory_template"`
	DominantExtensions       []dominantRule `yaml:"dominant_extensions"`
	FileExtensions           []labelRule    `yaml:"file_extensions"`
	FileKeywords             []keywordRule  `yaml:"file_keywords"`
	DefaultFileLabel         string         `yaml:"default_file_label"`
	ContentHints             []hintGroup    `yaml:"content_hints"`
}

// Describer builds the heuristic descriptions for files and directories from
// the loaded category tables.
type Describer struct {
	tables    categoryTables
	extLabels map[string]string     // extension -> file category label
	hints     map[string][]hintRule // extension -> ordered hint rules
}

// newDescriber loads the embedded category tables.
func newDescriber() (*Describer, error) {
	return newDescriberFromYAML(categoriesYAML)
}

// newDescriberFromYAML parses category tables from a YAML document. Tests use
// this to supply trimmed-down tables.
func newDescriberFromYAML(data []byte) (*Describer, error) {
	var tables categoryTables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("error parsing category tables: %w", err)
	}
	if tables.DefaultFileLabel == "" || tables.DefaultDirectoryTemplate == "" {
		return nil, fmt.Errorf("category tables are missing the default entries")
	}
	for _, rule := range tables.DirectoryPatterns {
		if strings.Count(rule.Template, "%d") != 2 {
			return nil, fmt.Errorf("bad directory template %q", rule.Template)
		}
	}
	for _, rule := range tables.DominantExtensions {
		if strings.Count(rule.Template, "%d") != 2 {
			return nil, fmt.Errorf("bad dominant-extension template %q", rule.Template)
		}
	}

	d := &Describer{
		tables:    tables,
		extLabels: make(map[string]string),
		hints:     make(map[string][]hintRule),
	}
	for _, rule := range tables.FileExtensions {
		for _, ext := range rule.Extensions {
			lowerExt := strings.ToLower(ext)
			if d.extLabels[lowerExt] == "" { // first rule keeps the extension
				d.extLabels[lowerExt] = rule.Label
			}
		}
	}
	for _, group := range tables.ContentHints {
		for _, ext := range group.Extensions {
			d.hints[strings.ToLower(ext)] = group.Rules
		}
	}
	return d, nil
}

// DescribeFile returns the description for one file. absPath may be "" when
// no on-disk content is available; the content hint is skipped then.
func (d *Describer) DescribeFile(name, absPath string, size int64, accessible bool) string {
	if !accessible {
		return d.tables.RestrictedFile
	}

	label := d.fileLabel(name)
	ext := strings.ToLower(filepath.Ext(name))
	if rules, ok := d.hints[ext]; ok && absPath != "" {
		if hint := contentHint(absPath, name, rules); hint != "" {
			label = label + " " + hint
		}
	}
	return fmt.Sprintf("%s (%s size: %s)", label, sizeBucket(size), formatSize(size))
}

// fileLabel resolves the category label: extension rules first, then name
// keywords, then the default.
func (d *Describer) fileLabel(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" {
		if label, ok := d.extLabels[ext]; ok {
			return label
		}
	}
	lower := strings.ToLower(name)
	for _, rule := range d.tables.FileKeywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Label
			}
		}
	}
	return d.tables.DefaultFileLabel
}

// DescribeDirectory returns the description for one directory, given the
// counts and extension histogram of its immediate children.
func (d *Describer) DescribeDirectory(name string, files, dirs int, extCounts map[string]int, accessible, empty bool) string {
	if !accessible {
		return d.tables.RestrictedDirectory
	}
	if empty {
		return d.tables.EmptyDirectory
	}

	lower := strings.ToLower(name)
	for _, rule := range d.tables.DirectoryPatterns {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return fmt.Sprintf(rule.Template, files, dirs)
			}
		}
	}

	if ext := dominantExtension(extCounts); ext != "" {
		for _, rule := range d.tables.DominantExtensions {
			for _, e := range rule.Extensions {
				if strings.EqualFold(e, ext) {
					return fmt.Sprintf(rule.Template, files, dirs)
				}
			}
		}
	}

	return fmt.Sprintf(d.tables.DefaultDirectoryTemplate, files, dirs)
}

// dominantExtension picks the most common extension; ties break
// alphabetically so descriptions stay deterministic.
func dominantExtension(extCounts map[string]int) string {
	best, bestCount := "", 0
	for ext, n := range extCounts {
		if n > bestCount || (n == bestCount && ext < best) {
			best, bestCount = ext, n
		}
	}
	return best
}

// contentHint reads up to previewBytes of the file head and returns the hint
// of the first matching rule. Any read failure degrades to no hint.
func contentHint(absPath, name string, rules []hintRule) string {
	f, err := os.Open(absPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, previewBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return ""
	}
	head := string(buf[:n])

	for _, rule := range rules {
		if rule.matches(head, name) {
			return rule.Hint
		}
	}
	return ""
}

// matches evaluates one hint rule against the preview and the file name.
func (r hintRule) matches(head, name string) bool {
	switch {
	case r.NameContains != "":
		return strings.Contains(strings.ToUpper(name), strings.ToUpper(r.NameContains))
	case len(r.ContainsAll) > 0:
		for _, s := range r.ContainsAll {
			if !strings.Contains(head, s) {
				return false
			}
		}
		return true
	default:
		return r.Contains != "" && strings.Contains(head, r.Contains)
	}
}

// sizeBucket names the size class used inside file descriptions.
func sizeBucket(size int64) string {
	switch {
	case size < 1024:
		return "small"
	case size < 1024*1024:
		return "medium"
	default:
		return "large"
	}
}

// formatSize renders a byte count with one decimal place and the largest
// unit that keeps the value under 1024, e.g. "500.0 B", "2.0 KB", "1.5 MB".
func formatSize(size int64) string {
	v := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if v < 1024.0 {
			return strconv.FormatFloat(v, 'f', 1, 64) + " " + unit
		}
		v /= 1024.0
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " PB"
}
