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
	"context"
	"log"
	"sync/atomic"
	"unsafe"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/Fantom-foundation/MatrixStore/job"
	"github.com/cockroachdb/errors"
)

// DefaultRowCacheSize is the number of rows of the right operand cached by
// each unit of a multiplication.
const DefaultRowCacheSize = 1024

// MultiplyJob computes Result = Left * Right. Left is m x k, Right is k x n
// and Result an existing m x n matrix. Rows of Left are split into units of
// RowsPerUnit rows; each unit produces the same rows of Result. Each unit
// replaces its rows of Result, so entries of a previously filled Result do
// not survive.
type MultiplyJob struct {
	Left         string
	Right        string
	Result       string
	RowsPerUnit  int // 1 if not positive
	RowCacheSize int // DefaultRowCacheSize if not positive
}

// cellKey packs a result position into a grouping key ordered by row, then column.
func cellKey(i, j int) uint64 {
	return uint64(i)<<32 | uint64(uint32(j))
}

func splitCellKey(key uint64) (i, j int) {
	return int(key >> 32), int(uint32(key))
}

// Run verifies the dimensions of the operands and computes the product.
// No unit is scheduled if the dimensions do not match.
func (m MultiplyJob) Run(ctx context.Context, store rowstore.Store, executor job.Executor) error {
	left, right, result, err := m.open(store)
	if err != nil {
		return err
	}
	if err := checkProduct(left, right, result); err != nil {
		return err
	}
	leftRows, _ := left.Dimensions()

	cacheSize := m.RowCacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultRowCacheSize
	}
	log.Printf("multiplying %v with %v into %v", left, right, result)
	var cachePeak atomic.Uint64

	err = job.Run(ctx, executor, job.Job[uint64, float64, float64]{
		Name:  "multiply " + m.Left + " " + m.Right,
		Units: job.Chunks(leftRows, m.RowsPerUnit),
		Map: func(ctx context.Context, unit job.Unit, emit func(uint64, float64)) error {
			left, right, _, err := m.open(store)
			if err != nil {
				return permanent(err)
			}
			cache := common.NewLruCache[int, *SparseRow](cacheSize)
			for i := unit.Start; i < unit.End; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				row, err := left.GetRow(i)
				if err != nil {
					return permanent(err)
				}
				for _, p := range row.Columns() {
					a := row.Get(p)
					other, found := cache.Get(p)
					if !found {
						if other, err = right.GetRow(p); err != nil {
							return permanent(err)
						}
						cache.Set(p, other)
					}
					other.ForEach(func(q int, b float64) {
						emit(cellKey(i, q), a*b)
					})
				}
			}
			updateMax(&cachePeak, uint64(cache.GetDynamicMemoryFootprint(sparseRowSize).Total()))
			return nil
		},
		Reduce: func(_ uint64, products []float64) (float64, bool) {
			sum := 0.0
			for _, product := range products {
				sum += product
			}
			return sum, sum != 0
		},
		Commit: func(ctx context.Context, unit job.Unit, groups []job.Group[uint64, float64]) error {
			_, _, result, err := m.open(store)
			if err != nil {
				return permanent(err)
			}
			if err := result.ClearRows(unit.Start, unit.End); err != nil {
				return permanent(err)
			}
			row := NewSparseRow()
			current := -1
			flush := func() error {
				if current < 0 || row.IsEmpty() {
					return nil
				}
				return permanent(result.SetRow(current, row))
			}
			for _, group := range groups {
				i, j := splitCellKey(group.Key)
				if i != current {
					if err := flush(); err != nil {
						return err
					}
					row = NewSparseRow()
					current = i
				}
				row.Set(j, group.Result)
			}
			return flush()
		},
	})
	if err != nil {
		return err
	}
	log.Printf("multiplied %v with %v, row cache peaked at %v per unit", left, right, common.NewMemoryFootprint(uintptr(cachePeak.Load())))
	return nil
}

func updateMax(max *atomic.Uint64, value uint64) {
	for current := max.Load(); value > current; current = max.Load() {
		if max.CompareAndSwap(current, value) {
			return
		}
	}
}

// sparseRowSize approximates the memory held by a row, its map buckets
// included.
func sparseRowSize(row *SparseRow) uintptr {
	entry := unsafe.Sizeof(int(0)) + unsafe.Sizeof(float64(0))
	return unsafe.Sizeof(*row) + uintptr(row.Len())*entry*2
}

// checkProduct verifies that left and right can be multiplied and, if
// given, that result has the dimensions of the product.
func checkProduct(left, right, result Matrix) error {
	leftRows, leftColumns := left.Dimensions()
	rightRows, rightColumns := right.Dimensions()
	if leftColumns != rightRows {
		return errors.Wrapf(ErrDimensionMismatch, "can not multiply %s (%d x %d) with %s (%d x %d)",
			left.Identity(), leftRows, leftColumns, right.Identity(), rightRows, rightColumns)
	}
	if result == nil {
		return nil
	}
	if rows, columns := result.Dimensions(); rows != leftRows || columns != rightColumns {
		return errors.Wrapf(ErrDimensionMismatch, "result %s (%d x %d) must be %d x %d",
			result.Identity(), rows, columns, leftRows, rightColumns)
	}
	return nil
}

func (m MultiplyJob) open(store rowstore.Store) (left, right, result *Table, err error) {
	if left, err = Open(store, m.Left); err != nil {
		return nil, nil, nil, err
	}
	if right, err = Open(store, m.Right); err != nil {
		return nil, nil, nil, err
	}
	if result, err = Open(store, m.Result); err != nil {
		return nil, nil, nil, err
	}
	return left, right, result, nil
}

// Multiply creates a new matrix holding the product of the given matrices.
// The result has as many rows as a and as many columns as b; every row of
// a is computed by its own unit.
func Multiply(ctx context.Context, store rowstore.Store, executor job.Executor, a, b string) (*Table, error) {
	left, err := Open(store, a)
	if err != nil {
		return nil, err
	}
	right, err := Open(store, b)
	if err != nil {
		return nil, err
	}
	if err := checkProduct(left, right, nil); err != nil {
		return nil, err
	}
	rows, _ := left.Dimensions()
	_, columns := right.Dimensions()
	result, err := Create(store, rows, columns)
	if err != nil {
		return nil, err
	}
	product := MultiplyJob{Left: a, Right: b, Result: result.Identity()}
	if err := product.Run(ctx, store, executor); err != nil {
		return nil, errors.CombineErrors(err, result.Drop())
	}
	return result, nil
}
