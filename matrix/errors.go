// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package matrix

import (
	"github.com/Fantom-foundation/MatrixStore/backend/rowkey"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/Fantom-foundation/MatrixStore/job"
	"github.com/cockroachdb/errors"
)

const (
	ErrIndexOutOfRange   = common.ConstError("matrix: index out of range")
	ErrDimensionMismatch = common.ConstError("matrix: dimension mismatch")
	ErrInvalidDensity    = common.ConstError("matrix: density not in [0, 1]")
	ErrUnknownNorm       = common.ConstError("matrix: unknown norm")
	ErrTableClosed       = common.ConstError("matrix: table closed")

	ErrEncoding          = rowkey.ErrEncoding
	ErrStoreUnavailable  = rowstore.ErrStoreUnavailable
	ErrJobFailure        = job.ErrJobFailure
	ErrUnknownMatrix     = rowstore.ErrUnknownMatrix
	ErrMatrixExists      = rowstore.ErrMatrixExists
	ErrInvalidDimensions = rowstore.ErrInvalidDimensions
)

// permanent marks caller errors, which would fail again on every retry of a unit.
func permanent(err error) error {
	if errors.IsAny(err, ErrIndexOutOfRange, ErrDimensionMismatch, ErrEncoding, ErrUnknownMatrix, ErrTableClosed) {
		return job.Permanent(err)
	}
	return err
}
