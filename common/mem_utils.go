// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"log"
	"runtime"
	"time"
)

// MemoryUsageCallback is a callback function that will be called with the current memory stats
type MemoryUsageCallback func(*runtime.MemStats)

// GetMemoryUsage returns the memory usage statistics.
// If runGc is true, it will run the garbage collector before getting the stats.
func GetMemoryUsage(runGc bool) runtime.MemStats {
	if runGc {
		runtime.GC()
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m
}

// SampleMemoryUsage runs f and reports the memory usage every interval
// while it is running. The result of f is returned.
func SampleMemoryUsage(interval time.Duration, runGc bool, f func() error, report MemoryUsageCallback) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m := GetMemoryUsage(runGc)
				report(&m)
			}
		}
	}()
	return f()
}

// LogMemoryUsage logs the allocated, total and OS memory as well as the
// number of completed garbage collection cycles.
func LogMemoryUsage(stats *runtime.MemStats) {
	log.Printf("Alloc = %s\tTotalAlloc = %s\tSys = %s\tNumGC = %d",
		formatMemoryAmount(uintptr(stats.Alloc)),
		formatMemoryAmount(uintptr(stats.TotalAlloc)),
		formatMemoryAmount(uintptr(stats.Sys)),
		stats.NumGC,
	)
}
