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
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrLocked is reported if a lock file is already held by another owner.
const ErrLocked = ConstError("resource is locked")

// LockFile guards a resource against concurrent use by multiple processes.
// The lock is represented by a file holding the id of the owning process.
// The file is created atomically when the lock is acquired and removed when
// it is released. Locks of crashed processes remain in place until the file
// is deleted manually.
type LockFile interface {
	// Release releases the lock by deleting the underlying file. Each lock
	// may only be released once.
	Release() error
	// Valid checks whether this lock still owns the underlying resource.
	Valid() bool
}

type lockFile struct {
	path string
	file *os.File
}

// CreateLockFile atomically creates a file with the given path and holds
// a lock on it. The operation fails with ErrLocked if the file exists. The
// error then names the owning process if it can be determined.
func CreateLockFile(path string) (LockFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if errors.Is(err, fs.ErrExist) {
		if owner, found := lockOwner(path); found {
			return nil, errors.Wrapf(ErrLocked, "%s is held by process %d", path, owner)
		}
		return nil, errors.Wrapf(ErrLocked, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to acquire file lock %s", path)
	}
	if _, err := file.WriteString(strconv.Itoa(os.Getpid()) + "\n"); err != nil {
		return nil, errors.CombineErrors(
			errors.Wrapf(err, "failed to record owner of %s", path),
			errors.CombineErrors(file.Close(), os.Remove(path)),
		)
	}
	return &lockFile{path: path, file: file}, nil
}

// lockOwner reads the id of the process holding the lock of the given file.
func lockOwner(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

func (f *lockFile) Valid() bool {
	return f.file != nil
}

func (f *lockFile) Release() error {
	if f.file == nil {
		return errors.New("unable to release invalid lock")
	}
	err := errors.CombineErrors(f.file.Close(), os.Remove(f.path))
	f.file = nil
	if err != nil {
		return errors.Wrapf(err, "failed to release file lock %s", f.path)
	}
	return nil
}
