// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package rowkey encodes matrix row and column indices into keys of a sorted
// key-value store such that the byte-wise order of keys equals the numeric
// order of the encoded indices.
//
// A row key is laid out as
//
//	[table space][matrix id, 4 bytes BE][row index, 4 bytes BE]
//
// and a cell key appends the column qualifier
//
//	[row key][column index, 4 bytes BE]
//
// Thus all cells of a row share the row key as a prefix, and all rows of a
// matrix in a range [a,b) lie between the row keys of a and b.
package rowkey

import (
	"fmt"
	"math"

	"github.com/Fantom-foundation/MatrixStore/backend"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/cockroachdb/errors"
)

// ErrEncoding is returned for indices outside the fixed-width range of the codec.
const ErrEncoding = common.ConstError("rowkey: index cannot be encoded")

// MaxIndex is the largest encodable row or column index. The value
// math.MaxUint32 is reserved as the exclusive upper bound of key spans.
const MaxIndex = math.MaxUint32 - 1

const (
	tableSpace    = backend.MatrixEntryKey
	matrixIDSize  = 4
	indexSize     = 4
	RowKeySize    = 1 + matrixIDSize + indexSize
	ColumnKeySize = indexSize
	CellKeySize   = RowKeySize + ColumnKeySize
)

var idSerializer common.Serializer[uint32] = common.Identifier32Serializer{}

// RowKey addresses the record of a single matrix row.
type RowKey [RowKeySize]byte

// ColumnKey is the column qualifier of an entry within a row record.
type ColumnKey [ColumnKeySize]byte

// CellKey addresses a single matrix cell; it is a RowKey followed by a ColumnKey.
type CellKey [CellKeySize]byte

// Codec encodes indices of a single matrix.
type Codec struct {
	matrix uint32
}

// NewCodec creates a codec for the matrix with the given id.
func NewCodec(matrixID uint32) Codec {
	return Codec{matrix: matrixID}
}

// MatrixID returns the id of the matrix this codec is encoding keys for.
func (c Codec) MatrixID() uint32 {
	return c.matrix
}

// EncodeRow produces the key of the given row.
func (c Codec) EncodeRow(row int) (RowKey, error) {
	if err := checkIndex("row", row); err != nil {
		return RowKey{}, err
	}
	return c.rowKey(uint32(row)), nil
}

// EncodeCell produces the key of the cell at the given position.
func (c Codec) EncodeCell(row, column int) (CellKey, error) {
	rowKey, err := c.EncodeRow(row)
	if err != nil {
		return CellKey{}, err
	}
	columnKey, err := EncodeColumn(column)
	if err != nil {
		return CellKey{}, err
	}
	return Join(rowKey, columnKey), nil
}

// RowSpan covers the rows [from, to) by a half-open key range [start, limit).
// The bound to may be MaxIndex+1 to cover all rows starting at from.
func (c Codec) RowSpan(from, to int) (start, limit RowKey, err error) {
	if err = checkIndex("row", from); err != nil {
		return
	}
	if to < from || to > MaxIndex+1 {
		err = errors.Wrapf(ErrEncoding, "invalid row range [%d, %d)", from, to)
		return
	}
	return c.rowKey(uint32(from)), c.rowKey(uint32(to)), nil
}

// MatrixSpan covers every row key of the matrix.
func (c Codec) MatrixSpan() (start, limit RowKey) {
	return c.rowKey(0), c.rowKey(MaxIndex + 1)
}

func (c Codec) rowKey(row uint32) RowKey {
	var key RowKey
	key[0] = byte(tableSpace)
	idSerializer.CopyBytes(c.matrix, key[1:1+matrixIDSize])
	idSerializer.CopyBytes(row, key[1+matrixIDSize:])
	return key
}

// EncodeColumn produces the column qualifier of the given column.
func EncodeColumn(column int) (ColumnKey, error) {
	if err := checkIndex("column", column); err != nil {
		return ColumnKey{}, err
	}
	var key ColumnKey
	idSerializer.CopyBytes(uint32(column), key[:])
	return key, nil
}

// Join concatenates a row key and a column qualifier into a cell key.
func Join(row RowKey, column ColumnKey) CellKey {
	var key CellKey
	copy(key[:RowKeySize], row[:])
	copy(key[RowKeySize:], column[:])
	return key
}

func checkIndex(kind string, index int) error {
	if index < 0 || index > MaxIndex {
		return errors.Wrapf(ErrEncoding, "%s index %d outside of [0, %d]", kind, index, MaxIndex)
	}
	return nil
}

// Decode returns the matrix id and row index encoded in the key.
func (k RowKey) Decode() (matrixID uint32, row int) {
	return idSerializer.FromBytes(k[1 : 1+matrixIDSize]), int(idSerializer.FromBytes(k[1+matrixIDSize:]))
}

func (k RowKey) String() string {
	id, row := k.Decode()
	return fmt.Sprintf("%d/%d", id, row)
}

// Decode returns the column index of the qualifier.
func (k ColumnKey) Decode() int {
	return int(idSerializer.FromBytes(k[:]))
}

// Decode returns the matrix id, row and column index encoded in the key.
func (k CellKey) Decode() (matrixID uint32, row, column int) {
	matrixID, row = k.Row().Decode()
	return matrixID, row, k.Column().Decode()
}

// Row returns the key of the row the cell belongs to.
func (k CellKey) Row() RowKey {
	var row RowKey
	copy(row[:], k[:RowKeySize])
	return row
}

// Column returns the column qualifier of the cell.
func (k CellKey) Column() ColumnKey {
	var column ColumnKey
	copy(column[:], k[RowKeySize:])
	return column
}

func (k CellKey) String() string {
	id, row, column := k.Decode()
	return fmt.Sprintf("%d/%d/%d", id, row, column)
}

// RowKeyFromBytes validates and converts a raw store key into a row key.
func RowKeyFromBytes(raw []byte) (RowKey, error) {
	var key RowKey
	if len(raw) != RowKeySize || raw[0] != byte(tableSpace) {
		return key, errors.Wrapf(ErrEncoding, "invalid row key %x", raw)
	}
	copy(key[:], raw)
	return key, nil
}

// CellKeyFromBytes validates and converts a raw store key into a cell key.
func CellKeyFromBytes(raw []byte) (CellKey, error) {
	var key CellKey
	if len(raw) != CellKeySize || raw[0] != byte(tableSpace) {
		return key, errors.Wrapf(ErrEncoding, "invalid cell key %x", raw)
	}
	copy(key[:], raw)
	return key, nil
}

// ColumnKeyFromBytes validates and converts a raw qualifier into a column key.
func ColumnKeyFromBytes(raw []byte) (ColumnKey, error) {
	var key ColumnKey
	if len(raw) != ColumnKeySize {
		return key, errors.Wrapf(ErrEncoding, "invalid column key %x", raw)
	}
	copy(key[:], raw)
	return key, nil
}

var valueSerializer common.Serializer[float64] = common.Float64Serializer{}

// ValueSize is the number of bytes of an encoded value.
const ValueSize = 8

// EncodeValue encodes a matrix value as an 8-byte IEEE-754 big-endian double.
func EncodeValue(value float64) [ValueSize]byte {
	var res [ValueSize]byte
	valueSerializer.CopyBytes(value, res[:])
	return res
}

// DecodeValue decodes a value produced by EncodeValue.
func DecodeValue(raw []byte) (float64, error) {
	if len(raw) != ValueSize {
		return 0, errors.Wrapf(ErrEncoding, "invalid value of %d bytes", len(raw))
	}
	return valueSerializer.FromBytes(raw), nil
}
