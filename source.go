package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source is a resolved input ready for walking.
type Source struct {
	Root    string // directory whose contents get mapped
	Label   string // what the report names as the source
	owned   bool   // true when Root is a temporary tree this run created
	cleaned bool
}

// resolveSource turns the CLI input into a directory tree to map. Git URLs
// are cloned, archives extracted, and existing directories mapped in place.
func resolveSource(input string, log *slog.Logger) (*Source, error) {
	if isGitURL(input) {
		dir, err := cloneGitRepo(input, log)
		if err != nil {
			return nil, &ExtractionError{Path: input, Err: err}
		}
		return &Source{Root: dir, Label: input, owned: true}, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, &ExtractionError{Path: input, Err: err}
	}
	if info.IsDir() {
		// Existing directories are mapped in place and never deleted.
		return &Source{Root: input, Label: input}, nil
	}

	root, err := extractArchive(input, log)
	if err != nil {
		return nil, err
	}
	return &Source{Root: root, Label: input, owned: true}, nil
}

// Cleanup removes the working tree when this run owns it. Calling it again,
// or on a nil source, is a no-op.
func (s *Source) Cleanup(log *slog.Logger) {
	if s == nil || !s.owned || s.cleaned {
		return
	}
	s.cleaned = true
	if err := os.RemoveAll(s.Root); err != nil {
		log.Error("failed to clean up temporary directory", "path", s.Root, "error", err)
		return
	}
	log.Info("cleaned up temporary directory", "path", s.Root)
}

// isGitURL checks if the input string looks like a Git repository URL.
// Prioritizes .git suffix or git@ prefix; plain https:// is ambiguous with
// nothing else to go on, so it is not treated as git.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") ||
		strings.HasPrefix(input, "git@")
}

// cloneGitRepo clones a Git repository URL into a temporary directory and
// returns its path. Only the default branch is fetched.
func cloneGitRepo(url string, log *slog.Logger) (string, error) {
	tempDir, err := os.MkdirTemp("", "argus-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	log.Info("cloning git repository", "url", url, "dir", tempDir)
	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		// Attempt cleanup even if clone failed
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository %q: %w", url, err)
	}
	return tempDir, nil
}
