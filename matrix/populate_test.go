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
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Fantom-foundation/MatrixStore/backend/rowkey"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore/memory"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/Fantom-foundation/MatrixStore/job"
	"github.com/cockroachdb/errors"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/rand"
)

func testExecutor(workers int) *job.LocalExecutor {
	return job.NewLocalExecutor(job.Config{
		Workers:    workers,
		Retries:    3,
		Backoff:    time.Millisecond,
		MaxBackoff: time.Millisecond,
	})
}

func TestPopulation_DensityIsRespected(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()

	params := NewPopulationJob("")
	params.Workers = 8
	params.Seed = 17
	table, err := Random(context.Background(), store, testExecutor(8), 1000, 1000, params)
	if err != nil {
		t.Fatalf("failed to create random matrix: %v", err)
	}
	count := 0
	err = table.Scan(func(i int, row *SparseRow) error {
		row.ForEach(func(j int, value float64) {
			if value <= 0 || value >= 1 {
				t.Errorf("value at (%d, %d) out of range: %v", i, j, value)
			}
		})
		count += row.Len()
		return nil
	})
	if err != nil {
		t.Fatalf("failed to scan matrix: %v", err)
	}
	// 3 standard deviations of a binomial distribution with n = 10^6, p = 0.5
	if expected, sigma := 500_000.0, 500.0; math.Abs(float64(count)-expected) > 3*sigma {
		t.Errorf("number of non-zero entries %d out of expected range", count)
	}
}

func TestPopulation_ExtremeDensities(t *testing.T) {
	store := memory.NewStore()
	for _, density := range []float64{0, 1} {
		params := NewPopulationJob("")
		params.Density = density
		params.Seed = 1
		table, err := Random(context.Background(), store, testExecutor(2), 20, 30, params)
		if err != nil {
			t.Fatalf("failed to create random matrix: %v", err)
		}
		count, err := table.CountNonZero()
		if err != nil {
			t.Fatalf("failed to count entries: %v", err)
		}
		if want := int(density * 20 * 30); count != want {
			t.Errorf("density %v: unexpected number of entries %d, wanted %d", density, count, want)
		}
	}
}

func TestPopulation_InvalidDensityIsRejected(t *testing.T) {
	store := memory.NewStore()
	for _, density := range []float64{-0.1, 1.5, math.NaN()} {
		params := NewPopulationJob("")
		params.Density = density
		if _, err := Random(context.Background(), store, testExecutor(1), 2, 2, params); !errors.Is(err, ErrInvalidDensity) {
			t.Errorf("density %v: unexpected error %v", density, err)
		}
	}
	if matrices, _ := store.ListMatrices(); len(matrices) != 0 {
		t.Errorf("rejected job created matrices: %v", matrices)
	}
}

func TestPopulation_SameSeedAndWorkersProduceSameMatrix(t *testing.T) {
	store := memory.NewStore()
	hashes := map[common.Hash]bool{}
	for i := 0; i < 2; i++ {
		params := NewPopulationJob("")
		params.Workers = 4
		params.Seed = 99
		table, err := Random(context.Background(), store, testExecutor(4), 50, 50, params)
		if err != nil {
			t.Fatalf("failed to create random matrix: %v", err)
		}
		hashes[mustHash(t, table)] = true
	}
	if len(hashes) != 1 {
		t.Errorf("identical jobs produced different matrices")
	}
}

func TestPopulation_CustomVariable(t *testing.T) {
	store := memory.NewStore()
	params := NewPopulationJob("")
	params.Density = 1
	params.Variable = Uniform{Min: -10, Max: -5}
	table, err := Random(context.Background(), store, testExecutor(1), 5, 5, params)
	if err != nil {
		t.Fatalf("failed to create random matrix: %v", err)
	}
	norms, err := EvaluateNorms(table)
	if err != nil {
		t.Fatalf("failed to evaluate norms: %v", err)
	}
	if norms.Max > 10 || norms.Max < 5 {
		t.Errorf("values outside of variable range, max %v", norms.Max)
	}
}

// storedRowsRecorder records the number of stored entries of a matrix
// whenever a value is drawn.
type storedRowsRecorder struct {
	table  *Table
	counts []int
	t      *testing.T
}

func (r *storedRowsRecorder) Sample(*rand.Rand) float64 {
	count, err := r.table.CountNonZero()
	if err != nil {
		r.t.Errorf("failed to count entries: %v", err)
	}
	r.counts = append(r.counts, count)
	return 1
}

func TestPopulation_RowsAreStoredWhileUnitIsRunning(t *testing.T) {
	store := memory.NewStore()
	table := create(t, store, 10, 1)
	recorder := &storedRowsRecorder{table: table, t: t}

	params := NewPopulationJob(table.Identity())
	params.Density = 1
	params.Variable = recorder
	if err := params.Run(context.Background(), store, testExecutor(1)); err != nil {
		t.Fatalf("failed to populate matrix: %v", err)
	}
	if len(recorder.counts) != 10 {
		t.Fatalf("unexpected number of samples: %d", len(recorder.counts))
	}
	for i, count := range recorder.counts {
		if count != i {
			t.Errorf("row %d was drawn with %d stored rows, wanted %d", i, count, i)
		}
	}
}

func TestPopulation_DisjointRangesDoNotInterfere(t *testing.T) {
	store := memory.NewStore()
	table := create(t, store, 100, 20)
	fill := NewPopulationJob(table.Identity())
	fill.Seed = 1
	fill.Workers = 4
	if err := fill.Run(context.Background(), store, testExecutor(4)); err != nil {
		t.Fatalf("failed to populate matrix: %v", err)
	}

	before := make([]common.Hash, 100)
	for i := range before {
		hash, err := table.RowHash(i)
		if err != nil {
			t.Fatalf("failed to hash row: %v", err)
		}
		before[i] = hash
	}

	// a second job re-populates the first half only
	refill := NewPopulationJob(table.Identity())
	refill.Seed = 2
	refill.Workers = 3
	refill.Start, refill.End = 0, 50
	refill.Variable = Uniform{Min: 2, Max: 3}
	if err := refill.Run(context.Background(), store, testExecutor(3)); err != nil {
		t.Fatalf("failed to populate matrix: %v", err)
	}

	for i := range before {
		hash, err := table.RowHash(i)
		if err != nil {
			t.Fatalf("failed to hash row: %v", err)
		}
		if changed := hash != before[i]; changed != (i < 50) {
			t.Errorf("row %d: unexpected change %t", i, changed)
		}
	}
}

func TestPopulation_InvalidRangeIsRejected(t *testing.T) {
	store := memory.NewStore()
	table := create(t, store, 10, 10)
	params := NewPopulationJob(table.Identity())
	params.Start, params.End = 5, 11
	if err := params.Run(context.Background(), store, testExecutor(1)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPopulation_UnitsAreSplitByWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := job.NewMockExecutor(ctrl)
	store := memory.NewStore()
	table := create(t, store, 10, 10)

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Len(3)).Return(nil)

	params := NewPopulationJob(table.Identity())
	params.Workers = 3
	if err := params.Run(context.Background(), store, executor); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// flakyStore rejects the first row writes it receives.
type flakyStore struct {
	rowstore.Store
	failures int32
	calls    atomic.Int32
}

func (s *flakyStore) PutRow(row rowkey.RowKey, entries []rowstore.Entry) error {
	if s.calls.Add(1) <= s.failures {
		return rowstore.Unavailable(errors.New("write rejected"))
	}
	return s.Store.PutRow(row, entries)
}

func TestPopulation_RetriedUnitsProduceSameResult(t *testing.T) {
	reference := memory.NewStore()
	flaky := &flakyStore{Store: memory.NewStore(), failures: 2}

	var hashes []common.Hash
	for _, store := range []rowstore.Store{reference, flaky} {
		table, err := CreateNamed(store, "R", 30, 30)
		if err != nil {
			t.Fatalf("failed to create matrix: %v", err)
		}
		params := NewPopulationJob("R")
		params.Seed = 5
		params.Workers = 3
		if err := params.Run(context.Background(), store, testExecutor(3)); err != nil {
			t.Fatalf("failed to populate matrix: %v", err)
		}
		hashes = append(hashes, mustHash(t, table))
	}
	if hashes[0] != hashes[1] {
		t.Errorf("retried units produced a different matrix")
	}
}

func TestPopulation_PersistentFailureIsJobFailure(t *testing.T) {
	store := &flakyStore{Store: memory.NewStore(), failures: math.MaxInt32}
	table := create(t, store, 4, 4)
	params := NewPopulationJob(table.Identity())
	params.Density = 1
	err := params.Run(context.Background(), store, testExecutor(2))
	if !errors.Is(err, ErrJobFailure) || !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUniform_SamplesWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	variable := Uniform{Min: 0, Max: 1}
	for i := 0; i < 10_000; i++ {
		if v := variable.Sample(rng); v <= 0 || v >= 1 {
			t.Fatalf("sample out of range: %v", v)
		}
	}
	if v := (Uniform{Min: 3, Max: 3}).Sample(rng); v != 3 {
		t.Errorf("degenerate range should produce its bound, got %v", v)
	}
}

func TestExponential_SamplesArePositive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sum := 0.0
	const n = 10_000
	for i := 0; i < n; i++ {
		v := (Exponential{Rate: 2}).Sample(rng)
		if v <= 0 {
			t.Fatalf("non-positive sample %v", v)
		}
		sum += v
	}
	if mean := sum / n; math.Abs(mean-0.5) > 0.05 {
		t.Errorf("unexpected mean %v", mean)
	}
}

func TestUnitSeed_DiffersPerUnit(t *testing.T) {
	seen := map[uint64]bool{}
	for unit := 0; unit < 1000; unit++ {
		seen[unitSeed(42, unit)] = true
	}
	if len(seen) != 1000 {
		t.Errorf("unit seeds collide")
	}
	if unitSeed(1, 0) == unitSeed(2, 0) {
		t.Errorf("unit seeds do not depend on job seed")
	}
}
