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
	"testing"
)

func TestSparseRow_ZeroValuesAreNotKept(t *testing.T) {
	row := NewSparseRow()
	row.Set(3, 1.5)
	row.Set(4, 0)
	if row.Len() != 1 || row.Get(3) != 1.5 || row.Get(4) != 0 {
		t.Errorf("unexpected row content: %v", row)
	}
	row.Set(3, 0)
	if !row.IsEmpty() {
		t.Errorf("setting zero should remove the entry: %v", row)
	}
}

func TestSparseRow_ColumnsAreSorted(t *testing.T) {
	row := NewSparseRow()
	for _, column := range []int{9, 1, 100, 4, 0} {
		row.Set(column, float64(column+1))
	}
	want := []int{0, 1, 4, 9, 100}
	got := row.Columns()
	if len(got) != len(want) {
		t.Fatalf("unexpected columns %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("unexpected columns, wanted %v, got %v", want, got)
		}
	}
	visited := []int{}
	row.ForEach(func(column int, value float64) {
		if value != float64(column+1) {
			t.Errorf("unexpected value %v of column %d", value, column)
		}
		visited = append(visited, column)
	})
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("unexpected visiting order %v", visited)
		}
	}
}

func TestSparseRow_MergeOverridesExistingEntries(t *testing.T) {
	a := NewSparseRow()
	a.Set(1, 1)
	a.Set(2, 2)
	b := NewSparseRow()
	b.Set(2, 20)
	b.Set(3, 30)
	a.Merge(b)

	want := NewSparseRow()
	want.Set(1, 1)
	want.Set(2, 20)
	want.Set(3, 30)
	if !a.Equal(want) {
		t.Errorf("unexpected merge result %v, wanted %v", a, want)
	}
}

func TestSparseRow_CloneIsIndependent(t *testing.T) {
	a := NewSparseRow()
	a.Set(1, 1)
	b := a.Clone()
	b.Set(2, 2)
	if a.Len() != 1 || b.Len() != 2 {
		t.Errorf("clone shares state: %v, %v", a, b)
	}
	b.Clear()
	if !b.IsEmpty() || a.IsEmpty() {
		t.Errorf("clear affected wrong row: %v, %v", a, b)
	}
}

func TestSparseRow_String(t *testing.T) {
	row := NewSparseRow()
	row.Set(2, 0.5)
	row.Set(1, -1)
	if got, want := row.String(), "{1: -1, 2: 0.5}"; got != want {
		t.Errorf("unexpected print, wanted %s, got %s", want, got)
	}
}
