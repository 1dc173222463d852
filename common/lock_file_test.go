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
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestLockFile_DefaultLockFileIsInvalid(t *testing.T) {
	lock := lockFile{}
	if lock.Valid() {
		t.Errorf("default lockfile should be invalid")
	}
}

func TestLockFile_CanBeAcquiredAndReleased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a")
	lock, err := CreateLockFile(path)
	if err != nil {
		t.Fatalf("failed to acquire lock: %v", err)
	}
	if _, err := os.Stat(path); err != nil || !lock.Valid() {
		t.Errorf("acquired lock should be valid and exist: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) || lock.Valid() {
		t.Errorf("released lock should be invalid and removed: %v", err)
	}
	if err := lock.Release(); err == nil {
		t.Errorf("second release should have failed")
	}
}

func TestLockFile_LockFilesAreExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a")
	lock, err := CreateLockFile(path)
	if err != nil {
		t.Fatalf("failed to acquire lock: %v", err)
	}
	if _, err := CreateLockFile(path); !errors.Is(err, ErrLocked) {
		t.Errorf("occupied lock should be reported as locked, got %v", err)
	}
	if owner, found := lockOwner(path); !found || owner != os.Getpid() {
		t.Errorf("unexpected lock owner, wanted %d, got %d", os.Getpid(), owner)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}
	lock, err = CreateLockFile(path)
	if err != nil {
		t.Fatalf("should be able to acquire a released lock: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("failed to release lock: %v", err)
	}
}

func TestLockFile_ForeignLockFilesAreRespected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a")
	if err := os.WriteFile(path, []byte("garbage"), 0600); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if _, err := CreateLockFile(path); !errors.Is(err, ErrLocked) {
		t.Errorf("existing file should be reported as locked, got %v", err)
	}
	if _, found := lockOwner(path); found {
		t.Errorf("unparsable lock file should have no owner")
	}
}

func TestLockFile_GovernsExclusiveAccessForSingleProcess(t *testing.T) {
	const N = 8
	path := filepath.Join(t.TempDir(), "a")
	var acquired, owners atomic.Int32

	var wg sync.WaitGroup
	wg.Add(N)
	for i := 0; i < N; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				lock, err := CreateLockFile(path)
				if err != nil {
					continue
				}
				acquired.Add(1)
				if current := owners.Add(1); current > 1 {
					t.Errorf("invalid number of lock owners: %d", current)
				}
				owners.Add(-1)
				if err := lock.Release(); err != nil {
					t.Errorf("failed to release lock: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if acquired.Load() < 1 {
		t.Errorf("lock was never acquired")
	}
}
