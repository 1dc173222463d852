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
	"log"
	"sync/atomic"
	"unsafe"

	"github.com/Fantom-foundation/MatrixStore/backend/rowkey"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/cockroachdb/errors"
)

// TypeName is the representation name reported by Table.Type.
const TypeName = "SparseMatrix"

// Table is a sparse matrix persisted row by row in a row store. Each row is
// one record of the store holding the non-zero entries of the row. Tables
// are safe for concurrent use; writes to different rows never interfere.
type Table struct {
	store  rowstore.Store
	meta   rowstore.Metadata
	codec  rowkey.Codec
	closed atomic.Bool
}

// Create registers a new, empty matrix with a generated identity.
func Create(store rowstore.Store, rows, columns int) (*Table, error) {
	return CreateNamed(store, "", rows, columns)
}

// CreateNamed registers a new, empty matrix with the given identity.
func CreateNamed(store rowstore.Store, identity string, rows, columns int) (*Table, error) {
	meta, err := store.CreateMatrix(identity, rows, columns)
	if err != nil {
		return nil, err
	}
	log.Printf("created matrix %v", meta)
	return newTable(store, meta), nil
}

// Open binds to an existing matrix. Only its catalog record is read.
func Open(store rowstore.Store, identity string) (*Table, error) {
	meta, found, err := store.LookupMatrix(identity)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrUnknownMatrix, "%s", identity)
	}
	return newTable(store, meta), nil
}

func newTable(store rowstore.Store, meta rowstore.Metadata) *Table {
	return &Table{
		store: store,
		meta:  meta,
		codec: rowkey.NewCodec(meta.ID),
	}
}

func (t *Table) Identity() string {
	return t.meta.Identity
}

func (t *Table) Type() string {
	return TypeName
}

func (t *Table) Dimensions() (rows, columns int) {
	return t.meta.Rows, t.meta.Columns
}

func (t *Table) String() string {
	return t.meta.String()
}

func (t *Table) GetCell(i, j int) (float64, error) {
	if err := t.checkCell(i, j); err != nil {
		return 0, err
	}
	row, column, err := t.encodeCell(i, j)
	if err != nil {
		return 0, err
	}
	value, _, err := t.store.Get(row, column)
	return value, err
}

func (t *Table) SetCell(i, j int, value float64) error {
	if err := t.checkCell(i, j); err != nil {
		return err
	}
	row, column, err := t.encodeCell(i, j)
	if err != nil {
		return err
	}
	if value == 0 {
		return t.store.Delete(row, column)
	}
	return t.store.PutRow(row, []rowstore.Entry{{Column: column, Value: value}})
}

func (t *Table) GetRow(i int) (*SparseRow, error) {
	if err := t.checkRow(i); err != nil {
		return nil, err
	}
	key, err := t.codec.EncodeRow(i)
	if err != nil {
		return nil, err
	}
	entries, err := t.store.GetRow(key)
	if err != nil {
		return nil, err
	}
	return toSparseRow(entries), nil
}

// SetRow writes all entries of the given row into row i with a single
// atomic write. Stored columns not present in the given row are kept. An
// empty row is a no-op.
func (t *Table) SetRow(i int, row *SparseRow) error {
	if err := t.checkRow(i); err != nil {
		return err
	}
	if row.IsEmpty() {
		return nil
	}
	key, err := t.codec.EncodeRow(i)
	if err != nil {
		return err
	}
	entries := make([]rowstore.Entry, 0, row.Len())
	for _, j := range row.Columns() {
		if j < 0 || j >= t.meta.Columns {
			return errors.Wrapf(ErrIndexOutOfRange, "column %d of row %d not in %d x %d", j, i, t.meta.Rows, t.meta.Columns)
		}
		column, err := rowkey.EncodeColumn(j)
		if err != nil {
			return err
		}
		entries = append(entries, rowstore.Entry{Column: column, Value: row.Get(j)})
	}
	return t.store.PutRow(key, entries)
}

// Scan visits all non-empty rows in ascending order.
func (t *Table) Scan(visit func(i int, row *SparseRow) error) error {
	return t.ScanRows(0, t.meta.Rows, visit)
}

// ScanRows visits all non-empty rows in [from, to) in ascending order.
func (t *Table) ScanRows(from, to int, visit func(i int, row *SparseRow) error) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if from < 0 || from > to || to > t.meta.Rows {
		return errors.Wrapf(ErrIndexOutOfRange, "rows [%d, %d) not in %d x %d", from, to, t.meta.Rows, t.meta.Columns)
	}
	if from == to {
		return nil
	}
	start, limit, err := t.codec.RowSpan(from, to)
	if err != nil {
		return err
	}
	return t.store.Scan(start, limit, func(key rowkey.RowKey, entries []rowstore.Entry) error {
		_, i := key.Decode()
		return visit(i, toSparseRow(entries))
	})
}

// ClearRows removes all entries of the rows in [from, to).
func (t *Table) ClearRows(from, to int) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if from < 0 || from > to || to > t.meta.Rows {
		return errors.Wrapf(ErrIndexOutOfRange, "rows [%d, %d) not in %d x %d", from, to, t.meta.Rows, t.meta.Columns)
	}
	if from == to {
		return nil
	}
	start, limit, err := t.codec.RowSpan(from, to)
	if err != nil {
		return err
	}
	return t.store.DeleteRange(start, limit)
}

// CountNonZero returns the number of stored entries.
func (t *Table) CountNonZero() (int, error) {
	count := 0
	err := t.Scan(func(_ int, row *SparseRow) error {
		count += row.Len()
		return nil
	})
	return count, err
}

// RowHash computes a digest of the entries of row i.
func (t *Table) RowHash(i int) (common.Hash, error) {
	row, err := t.GetRow(i)
	if err != nil {
		return common.Hash{}, err
	}
	return rowHash(row), nil
}

// Hash computes a digest of all entries of the matrix and its dimensions.
func (t *Table) Hash() (common.Hash, error) {
	dims := make([]byte, 8)
	common.Identifier32Serializer{}.CopyBytes(uint32(t.meta.Rows), dims[:4])
	common.Identifier32Serializer{}.CopyBytes(uint32(t.meta.Columns), dims[4:])
	parts := [][]byte{dims}
	err := t.Scan(func(i int, row *SparseRow) error {
		hash := rowHash(row)
		parts = append(parts, common.Identifier32Serializer{}.ToBytes(uint32(i)), hash[:])
		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}
	return common.Keccak256Parts(parts...), nil
}

func rowHash(row *SparseRow) common.Hash {
	data := make([]byte, 0, row.Len()*(rowkey.ColumnKeySize+rowkey.ValueSize))
	row.ForEach(func(column int, value float64) {
		data = append(data, common.Identifier32Serializer{}.ToBytes(uint32(column))...)
		data = append(data, common.Float64Serializer{}.ToBytes(value)...)
	})
	return common.Keccak256(data)
}

func (t *Table) Norm(kind NormKind) (float64, error) {
	return Norm(t, kind)
}

// Drop deletes all entries and the catalog record of the matrix. The table
// is closed afterwards.
func (t *Table) Drop() error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if err := t.store.DropMatrix(t.meta.Identity); err != nil {
		return err
	}
	t.closed.Store(true)
	log.Printf("dropped matrix %v", t.meta)
	return nil
}

// Close releases the table. The data is kept in the store, which remains
// owned by the caller.
func (t *Table) Close() error {
	t.closed.Store(true)
	return nil
}

// GetMemoryFootprint provides the size of the table handle in memory in bytes.
func (t *Table) GetMemoryFootprint() *common.MemoryFootprint {
	return common.NewMemoryFootprint(unsafe.Sizeof(*t) + uintptr(len(t.meta.Identity)))
}

func (t *Table) checkOpen() error {
	if t.closed.Load() {
		return errors.Wrapf(ErrTableClosed, "%s", t.meta.Identity)
	}
	return nil
}

func (t *Table) checkRow(i int) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if i < 0 || i >= t.meta.Rows {
		return errors.Wrapf(ErrIndexOutOfRange, "row %d not in %d x %d", i, t.meta.Rows, t.meta.Columns)
	}
	return nil
}

func (t *Table) checkCell(i, j int) error {
	if err := t.checkRow(i); err != nil {
		return err
	}
	if j < 0 || j >= t.meta.Columns {
		return errors.Wrapf(ErrIndexOutOfRange, "column %d not in %d x %d", j, t.meta.Rows, t.meta.Columns)
	}
	return nil
}

func (t *Table) encodeCell(i, j int) (rowkey.RowKey, rowkey.ColumnKey, error) {
	row, err := t.codec.EncodeRow(i)
	if err != nil {
		return rowkey.RowKey{}, rowkey.ColumnKey{}, err
	}
	column, err := rowkey.EncodeColumn(j)
	if err != nil {
		return rowkey.RowKey{}, rowkey.ColumnKey{}, err
	}
	return row, column, nil
}

func toSparseRow(entries []rowstore.Entry) *SparseRow {
	row := NewSparseRow()
	for _, entry := range entries {
		row.Set(entry.Column.Decode(), entry.Value)
	}
	return row
}
