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
	"math"
	"testing"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore/memory"
	"github.com/cockroachdb/errors"
	"go.uber.org/mock/gomock"
)

func TestNorm_KnownValues(t *testing.T) {
	forEachStore(t, func(t *testing.T, store rowstore.Store) {
		table := create(t, store, 2, 2)
		if err := table.SetCell(0, 0, 3); err != nil {
			t.Fatalf("failed to set cell: %v", err)
		}
		if err := table.SetCell(0, 1, -4); err != nil {
			t.Fatalf("failed to set cell: %v", err)
		}
		tests := []struct {
			kind NormKind
			want float64
		}{
			{One, 4},
			{Infinity, 7},
			{Frobenius, 5},
			{Max, 4},
		}
		for _, test := range tests {
			got, err := table.Norm(test.kind)
			if err != nil {
				t.Fatalf("failed to evaluate %v norm: %v", test.kind, err)
			}
			if math.Abs(got-test.want) > 1e-12 {
				t.Errorf("unexpected %v norm, wanted %v, got %v", test.kind, test.want, got)
			}
		}
	})
}

func TestNorm_EmptyMatrixIsZero(t *testing.T) {
	table := create(t, memory.NewStore(), 10, 10)
	norms, err := EvaluateNorms(table)
	if err != nil {
		t.Fatalf("failed to evaluate norms: %v", err)
	}
	if norms != (Norms{}) {
		t.Errorf("unexpected norms of empty matrix: %v", norms)
	}
}

func TestNorm_ColumnSumsSpanRows(t *testing.T) {
	table := create(t, memory.NewStore(), 3, 2)
	for i := 0; i < 3; i++ {
		if err := table.SetCell(i, 1, -2); err != nil {
			t.Fatalf("failed to set cell: %v", err)
		}
	}
	if err := table.SetCell(0, 0, 5); err != nil {
		t.Fatalf("failed to set cell: %v", err)
	}
	norms, err := EvaluateNorms(table)
	if err != nil {
		t.Fatalf("failed to evaluate norms: %v", err)
	}
	if want := (Norms{One: 6, Frobenius: math.Sqrt(37), Infinity: 7, Max: 5}); norms != want {
		t.Errorf("unexpected norms, wanted %v, got %v", want, norms)
	}
}

func TestNorm_UnknownKindIsRejected(t *testing.T) {
	table := create(t, memory.NewStore(), 1, 1)
	if _, err := table.Norm(NormKind(42)); !errors.Is(err, ErrUnknownNorm) {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := (Norms{}).Get(NormKind(-1)); !errors.Is(err, ErrUnknownNorm) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNorm_ParseNormKind(t *testing.T) {
	for _, kind := range []NormKind{One, Frobenius, Infinity, Max} {
		got, err := ParseNormKind(kind.String())
		if err != nil || got != kind {
			t.Errorf("failed to parse %v: %v, %v", kind, got, err)
		}
	}
	if _, err := ParseNormKind("two"); !errors.Is(err, ErrUnknownNorm) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNorm_ScanFailuresArePropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := rowstore.NewMockStore(ctrl)
	store.EXPECT().LookupMatrix("A").Return(rowstore.Metadata{Identity: "A", ID: 1, Rows: 2, Columns: 2}, true, nil)
	store.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any()).Return(rowstore.Unavailable(errors.New("down")))

	table, err := Open(store, "A")
	if err != nil {
		t.Fatalf("failed to open matrix: %v", err)
	}
	if _, err := table.Norm(Frobenius); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("unexpected error: %v", err)
	}
}
