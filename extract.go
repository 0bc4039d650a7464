package main

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// nestedArchiveSuffixes are the archive names recognized inside an extracted
// tree. Only zip and tar.gz have decoders; the rest log a warning and stay
// mapped as plain archive files.
var nestedArchiveSuffixes = []string{".zip", ".tar.gz", ".rar", ".7z"}

// extractArchive unpacks the archive at path into a fresh temporary directory
// and returns the extraction root. The caller owns the directory and must
// remove it when the run is over.
func extractArchive(path string, log *slog.Logger) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	tempDir, err := os.MkdirTemp("", "argus-")
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	log.Info("created temporary directory", "path", tempDir)

	lower := strings.ToLower(path)
	var count int
	switch {
	case strings.HasSuffix(lower, ".zip"):
		count, err = extractZip(path, tempDir)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		count, err = extractTarGz(path, tempDir)
	default:
		err = fmt.Errorf("unsupported archive format %q", filepath.Ext(path))
	}
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", &ExtractionError{Path: path, Err: err}
	}
	log.Info("extraction completed", "source", path, "entries", count, "root", tempDir)

	extractNestedArchives(tempDir, log)
	return tempDir, nil
}

// extractZip unpacks a zip archive into dest and returns the entry count.
func extractZip(src, dest string) (int, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := writeZipEntry(f, dest); err != nil {
			return 0, err
		}
	}
	return len(r.File), nil
}

func writeZipEntry(f *zip.File, dest string) error {
	target, err := safeJoin(dest, f.Name)
	if err != nil {
		return err
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 { // archives written without permission bits
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// extractTarGz unpacks a gzipped tarball into dest and returns the entry
// count. Symlinks and special entries are skipped.
func extractTarGz(src, dest string) (int, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return 0, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	count := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return count, err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return count, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return count, err
			}
			perm := fs.FileMode(hdr.Mode).Perm()
			if perm == 0 {
				perm = 0o644
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
			if err != nil {
				return count, err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return count, err
			}
			if err := out.Close(); err != nil {
				return count, err
			}
		}
		count++
	}
	return count, nil
}

// safeJoin resolves an archive entry name inside dest, rejecting entries that
// would escape the extraction root.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if target != dest && !strings.HasPrefix(target, dest+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes extraction root: %s", name)
	}
	return target, nil
}

// extractNestedArchives runs one pass over the extracted tree and unpacks any
// archives found inside it next to themselves. Failures are warnings: the
// archive file itself still gets mapped.
func extractNestedArchives(root string, log *slog.Logger) {
	var archives []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		lower := strings.ToLower(d.Name())
		for _, suffix := range nestedArchiveSuffixes {
			if strings.HasSuffix(lower, suffix) {
				archives = append(archives, path)
				break
			}
		}
		return nil
	})
	if len(archives) == 0 {
		return
	}

	log.Info("found nested archives", "count", len(archives))
	for _, archive := range archives {
		if err := extractNested(archive); err != nil {
			log.Warn("failed to extract nested archive", "path", archive, "error", err)
			continue
		}
		log.Info("extracted nested archive", "path", archive)
	}
}

// extractNested unpacks one nested archive into a sibling directory named
// after it: inner.zip becomes inner_extracted/.
func extractNested(path string) error {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dest := filepath.Join(filepath.Dir(path), stem+"_extracted")

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return err
		}
		_, err := extractZip(path, dest)
		return err
	case strings.HasSuffix(lower, ".tar.gz"):
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return err
		}
		_, err := extractTarGz(path, dest)
		return err
	default:
		return fmt.Errorf("no extractor for %s", filepath.Base(path))
	}
}
