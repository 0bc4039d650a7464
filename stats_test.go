package main

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsCounters(t *testing.T) {
	st := newStats(time.Now())

	st.AddFile(100)
	st.AddFile(largeFileThreshold) // boundary stays below the large bucket
	st.AddFile(largeFileThreshold + 1)
	st.AddFolder(false)
	st.AddFolder(true)
	st.AddPermissionDenial()
	st.AddError()

	snap := st.Snapshot()
	assert.Equal(t, int64(3), snap.ProcessedFiles)
	assert.Equal(t, int64(2), snap.ProcessedFolders)
	assert.Equal(t, int64(1), snap.EmptyDirectories)
	assert.Equal(t, int64(1), snap.LargeFiles)
	assert.Equal(t, int64(1), snap.PermissionDenials)
	assert.Equal(t, int64(1), snap.ErrorsEncountered)
	assert.Equal(t, int64(100+largeFileThreshold+largeFileThreshold+1), snap.TotalSizeBytes)
	assert.False(t, snap.StartTime.IsZero())
}

func TestStatsConcurrentUpdates(t *testing.T) {
	st := newStats(time.Now())

	const workers = 16
	const perWorker = 500
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				st.AddFile(2)
				st.AddFolder(j%2 == 0)
			}
		}()
	}
	wg.Wait()

	snap := st.Snapshot()
	assert.Equal(t, int64(workers*perWorker), snap.ProcessedFiles)
	assert.Equal(t, int64(workers*perWorker), snap.ProcessedFolders)
	assert.Equal(t, int64(workers*perWorker/2), snap.EmptyDirectories)
	assert.Equal(t, int64(workers*perWorker*2), snap.TotalSizeBytes)
}

func TestStatsSnapshotIsACopy(t *testing.T) {
	st := newStats(time.Now())
	st.AddFile(10)

	snap := st.Snapshot()
	st.AddFile(10)

	assert.Equal(t, int64(1), snap.ProcessedFiles)
	assert.Equal(t, int64(2), st.Snapshot().ProcessedFiles)
}
