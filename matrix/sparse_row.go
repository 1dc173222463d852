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
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SparseRow is a mapping of column indices to non-zero values. A zero value
// is equivalent to an absent entry and is never kept. The zero value is not
// usable, rows are created with NewSparseRow.
type SparseRow struct {
	entries map[int]float64
}

func NewSparseRow() *SparseRow {
	return &SparseRow{entries: map[int]float64{}}
}

// Set updates the value of a column; setting 0 removes the entry.
func (r *SparseRow) Set(column int, value float64) {
	if value == 0 {
		delete(r.entries, column)
		return
	}
	r.entries[column] = value
}

// Get returns the value of a column, 0 if absent.
func (r *SparseRow) Get(column int) float64 {
	return r.entries[column]
}

// Merge copies all entries of other into this row, overriding existing values.
func (r *SparseRow) Merge(other *SparseRow) {
	for column, value := range other.entries {
		r.entries[column] = value
	}
}

func (r *SparseRow) IsEmpty() bool {
	return len(r.entries) == 0
}

func (r *SparseRow) Len() int {
	return len(r.entries)
}

// Columns returns the columns with non-zero values in ascending order.
func (r *SparseRow) Columns() []int {
	columns := maps.Keys(r.entries)
	slices.Sort(columns)
	return columns
}

// ForEach visits all entries in ascending column order.
func (r *SparseRow) ForEach(visit func(column int, value float64)) {
	for _, column := range r.Columns() {
		visit(column, r.entries[column])
	}
}

func (r *SparseRow) Clear() {
	maps.Clear(r.entries)
}

func (r *SparseRow) Clone() *SparseRow {
	return &SparseRow{entries: maps.Clone(r.entries)}
}

func (r *SparseRow) Equal(other *SparseRow) bool {
	return maps.Equal(r.entries, other.entries)
}

func (r *SparseRow) String() string {
	var b strings.Builder
	b.WriteString("{")
	r.ForEach(func(column int, value float64) {
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: %v", column, value)
	})
	b.WriteString("}")
	return b.String()
}
