// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rowstore

//go:generate mockgen -source rowstore.go -destination rowstore_mocks.go -package rowstore

import (
	"bytes"
	"fmt"

	"github.com/Fantom-foundation/MatrixStore/backend/rowkey"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slices"
)

const (
	// ErrStoreUnavailable is reported if the backing store can not be reached
	// or has been closed. Operations failing with it may be retried.
	ErrStoreUnavailable = common.ConstError("rowstore: store unavailable")
	// ErrMatrixExists is reported when creating a matrix with a used identity.
	ErrMatrixExists = common.ConstError("rowstore: matrix already exists")
	// ErrUnknownMatrix is reported for identities not present in the catalog.
	ErrUnknownMatrix = common.ConstError("rowstore: unknown matrix")
	// ErrInvalidDimensions is reported for dimensions outside [0, rowkey.MaxIndex+1].
	ErrInvalidDimensions = common.ConstError("rowstore: invalid matrix dimensions")
)

// TablePrefix is the prefix of identities generated for unnamed matrices.
const TablePrefix = "SparseMatrix"

// Entry is a single non-zero value of a row record.
type Entry struct {
	Column rowkey.ColumnKey
	Value  float64
}

// Metadata is the catalog record of a matrix.
type Metadata struct {
	Identity string
	ID       uint32
	Rows     int
	Columns  int
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s (id %d, %d x %d)", m.Identity, m.ID, m.Rows, m.Columns)
}

// Store is a row-partitioned key-value store: each row key maps to a record
// of column qualifiers and values. Entries of a record are always reported
// in ascending column order. Implementations are safe for concurrent use.
type Store interface {
	// Get reads a single entry of a row record.
	Get(row rowkey.RowKey, column rowkey.ColumnKey) (value float64, found bool, err error)

	// GetColumns reads the given entries of a row record. Absent columns
	// are skipped.
	GetColumns(row rowkey.RowKey, columns []rowkey.ColumnKey) ([]Entry, error)

	// GetRow reads all entries of a row record.
	GetRow(row rowkey.RowKey) ([]Entry, error)

	// PutRow writes all given entries into a row record atomically. Entries
	// of the record not listed are kept.
	PutRow(row rowkey.RowKey, entries []Entry) error

	// Delete removes a single entry of a row record, if present.
	Delete(row rowkey.RowKey, column rowkey.ColumnKey) error

	// Scan visits all non-empty row records in [start, limit) in ascending
	// key order. An error returned by visit aborts the scan and is returned.
	Scan(start, limit rowkey.RowKey, visit func(rowkey.RowKey, []Entry) error) error

	// DeleteRange removes all row records in [start, limit).
	DeleteRange(start, limit rowkey.RowKey) error

	// CreateMatrix registers a new matrix and allocates its id. An empty
	// identity is replaced by a generated one.
	CreateMatrix(identity string, rows, columns int) (Metadata, error)

	// LookupMatrix returns the catalog record of the given matrix.
	LookupMatrix(identity string) (Metadata, bool, error)

	// ListMatrices returns the catalog records of all matrices ordered by identity.
	ListMatrices() ([]Metadata, error)

	// DropMatrix removes the matrix from the catalog and deletes all its rows.
	DropMatrix(identity string) error

	// provides the size of the store in memory in bytes
	common.MemoryFootprintProvider

	// needs to be flush and closable
	common.FlushAndCloser
}

// Unavailable marks a failure of the underlying storage as ErrStoreUnavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, "row store failure"), ErrStoreUnavailable)
}

// GeneratedIdentity returns the identity given to the unnamed matrix with the given id.
func GeneratedIdentity(id uint32) string {
	return fmt.Sprintf("%s_%d", TablePrefix, id)
}

// CheckDimensions verifies that the given matrix dimensions are encodable.
func CheckDimensions(rows, columns int) error {
	if rows < 0 || columns < 0 || rows > rowkey.MaxIndex+1 || columns > rowkey.MaxIndex+1 {
		return errors.Wrapf(ErrInvalidDimensions, "%d x %d", rows, columns)
	}
	return nil
}

// CompareColumns orders column qualifiers by their byte representation,
// which equals the order of the encoded column indices.
func CompareColumns(a, b rowkey.ColumnKey) int {
	return bytes.Compare(a[:], b[:])
}

// SortedColumns returns a sorted copy of the given qualifiers without duplicates.
func SortedColumns(columns []rowkey.ColumnKey) []rowkey.ColumnKey {
	res := slices.Clone(columns)
	slices.SortFunc(res, CompareColumns)
	return slices.Compact(res)
}
