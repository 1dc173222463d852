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
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestSampleMemoryUsage_ReportsWhileRunning(t *testing.T) {
	var reports atomic.Int32
	failure := errors.New("done")
	err := SampleMemoryUsage(time.Millisecond, false, func() error {
		for reports.Load() < 3 {
			time.Sleep(time.Millisecond)
		}
		return failure
	}, func(stats *runtime.MemStats) {
		if stats.Sys == 0 {
			t.Errorf("empty memory stats")
		}
		reports.Add(1)
	})
	if !errors.Is(err, failure) {
		t.Errorf("result of sampled function lost: %v", err)
	}
}

func TestGetMemoryUsage_ReportsAllocations(t *testing.T) {
	if stats := GetMemoryUsage(true); stats.NumGC == 0 || stats.Sys == 0 {
		t.Errorf("unexpected memory stats: %d cycles, %d bytes", stats.NumGC, stats.Sys)
	}
}
