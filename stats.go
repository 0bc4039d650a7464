package main

import (
	"sync"
	"time"
)

// largeFileThreshold is the size above which a file counts as large.
const largeFileThreshold = 100 * 1024 * 1024

// StatsSnapshot is a point-in-time copy of the run counters.
type StatsSnapshot struct {
	ProcessedFiles    int64
	ProcessedFolders  int64
	ErrorsEncountered int64
	PermissionDenials int64
	LargeFiles        int64
	EmptyDirectories  int64
	TotalSizeBytes    int64
	StartTime         time.Time
}

// Stats aggregates the run-wide counters. All increments take the lock, so
// the classification workers can share one instance.
type Stats struct {
	mu sync.Mutex
	s  StatsSnapshot
}

func newStats(start time.Time) *Stats {
	return &Stats{s: StatsSnapshot{StartTime: start}}
}

// AddFile records one classified file. Inaccessible files pass size 0, so
// they never contribute to the total size or the large-file count.
func (st *Stats) AddFile(size int64) {
	st.mu.Lock()
	st.s.ProcessedFiles++
	st.s.TotalSizeBytes += size
	if size > largeFileThreshold {
		st.s.LargeFiles++
	}
	st.mu.Unlock()
}

// AddFolder records one classified directory.
func (st *Stats) AddFolder(empty bool) {
	st.mu.Lock()
	st.s.ProcessedFolders++
	if empty {
		st.s.EmptyDirectories++
	}
	st.mu.Unlock()
}

// AddPermissionDenial records an entry that survived with restricted access.
func (st *Stats) AddPermissionDenial() {
	st.mu.Lock()
	st.s.PermissionDenials++
	st.mu.Unlock()
}

// AddError records an entry that was dropped because classification failed.
func (st *Stats) AddError() {
	st.mu.Lock()
	st.s.ErrorsEncountered++
	st.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (st *Stats) Snapshot() StatsSnapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}
