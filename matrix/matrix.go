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

//go:generate mockgen -source matrix.go -destination matrix_mocks.go -package matrix

// Matrix is the set of operations supported by all matrix representations.
type Matrix interface {
	// Identity is the name under which the matrix is stored.
	Identity() string

	// Type names the representation of the matrix.
	Type() string

	// Dimensions returns the number of rows and columns.
	Dimensions() (rows, columns int)

	// GetCell returns the value at (i, j), 0 for absent entries.
	GetCell(i, j int) (float64, error)

	// SetCell updates the value at (i, j). Zero values are not stored.
	SetCell(i, j int, value float64) error

	// GetRow returns all non-zero entries of row i.
	GetRow(i int) (*SparseRow, error)

	// SetRow writes all entries of the given row into row i atomically.
	SetRow(i int, row *SparseRow) error

	// Norm evaluates the given norm over all stored entries.
	Norm(kind NormKind) (float64, error)
}
