// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package job

//go:generate mockgen -source executor.go -destination executor_mocks.go -package job

import (
	"context"

	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/cockroachdb/errors"
)

const (
	// ErrJobFailure is reported if a task of a job still fails after the
	// retry budget of the executor is exhausted.
	ErrJobFailure = common.ConstError("job: unit failed")

	errPermanent = common.ConstError("permanent failure")
)

// Task is a single unit of work. Tasks may be executed more than once and
// must thus be idempotent.
type Task func(ctx context.Context) error

// Executor runs the tasks of a job. Every task is executed at least once.
// If a task can not be completed, an error matching ErrJobFailure is returned.
type Executor interface {
	Execute(ctx context.Context, name string, tasks []Task) error
}

// Permanent marks an error as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, errPermanent)
}

// IsPermanent reports whether the error was marked by Permanent.
func IsPermanent(err error) bool {
	return errors.Is(err, errPermanent)
}
