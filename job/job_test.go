// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package job

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"go.uber.org/mock/gomock"
)

func TestSplitRange_ProducesBalancedContiguousUnits(t *testing.T) {
	tests := []struct {
		n, parts int
		sizes    []int
	}{
		{0, 4, nil},
		{1, 4, []int{1}},
		{4, 4, []int{1, 1, 1, 1}},
		{10, 3, []int{4, 3, 3}},
		{11, 3, []int{4, 4, 3}},
		{7, 1, []int{7}},
		{5, 0, []int{5}},
		{5, 9, []int{1, 1, 1, 1, 1}},
	}
	for _, test := range tests {
		units := SplitRange(test.n, test.parts)
		if len(units) != len(test.sizes) {
			t.Fatalf("SplitRange(%d, %d): unexpected units %v", test.n, test.parts, units)
		}
		next := 0
		for i, unit := range units {
			if unit.ID != i || unit.Start != next || unit.Len() != test.sizes[i] {
				t.Errorf("SplitRange(%d, %d): unexpected unit %v", test.n, test.parts, unit)
			}
			next = unit.End
		}
		if len(units) > 0 && next != test.n {
			t.Errorf("SplitRange(%d, %d): units end at %d", test.n, test.parts, next)
		}
	}
}

func TestChunks_CoverRange(t *testing.T) {
	units := Chunks(10, 4)
	want := []Unit{{0, 0, 4}, {1, 4, 8}, {2, 8, 10}}
	if len(units) != len(want) {
		t.Fatalf("unexpected units %v", units)
	}
	for i := range want {
		if units[i] != want[i] {
			t.Errorf("unexpected unit %v, wanted %v", units[i], want[i])
		}
	}
	if got := Chunks(3, 0); len(got) != 3 {
		t.Errorf("chunks of size 0 should default to single rows, got %v", got)
	}
	if got := Chunks(0, 4); len(got) != 0 {
		t.Errorf("empty range should not produce units, got %v", got)
	}
}

// wordLengths sums the values emitted for each key and keeps only even sums.
func wordLengths(units []Unit, committed map[int][]Group[string, int], lock *sync.Mutex) Job[string, int, int] {
	return Job[string, int, int]{
		Name:  "test",
		Units: units,
		Map: func(ctx context.Context, unit Unit, emit func(string, int)) error {
			for i := unit.Start; i < unit.End; i++ {
				emit("b", i)
				emit("a", 1)
				emit("c", 1)
			}
			return nil
		},
		Reduce: func(key string, values []int) (int, bool) {
			sum := 0
			for _, v := range values {
				sum += v
			}
			return sum, key != "c"
		},
		Commit: func(ctx context.Context, unit Unit, groups []Group[string, int]) error {
			lock.Lock()
			defer lock.Unlock()
			committed[unit.ID] = groups
			return nil
		},
	}
}

func TestRun_GroupsReducesAndCommitsPerUnit(t *testing.T) {
	var lock sync.Mutex
	committed := map[int][]Group[string, int]{}
	job := wordLengths(SplitRange(6, 2), committed, &lock)

	if err := Run(context.Background(), NewLocalExecutor(Config{Workers: 2}), job); err != nil {
		t.Fatalf("failed to run job: %v", err)
	}
	want := map[int][]Group[string, int]{
		0: {{"a", 3}, {"b", 0 + 1 + 2}},
		1: {{"a", 3}, {"b", 3 + 4 + 5}},
	}
	for id, groups := range want {
		got := committed[id]
		if len(got) != len(groups) {
			t.Fatalf("unit %d: unexpected groups %v", id, got)
		}
		for i := range groups {
			if got[i] != groups[i] {
				t.Errorf("unit %d: unexpected group %v, wanted %v", id, got[i], groups[i])
			}
		}
	}
}

func TestRun_ReportsIncompleteJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := NewMockExecutor(ctrl)

	if err := Run(context.Background(), executor, Job[int, int, int]{Name: "empty"}); err == nil {
		t.Errorf("incomplete job should be rejected")
	}
}

func TestRun_PassesOneTaskPerUnitToExecutor(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := NewMockExecutor(ctrl)

	var lock sync.Mutex
	committed := map[int][]Group[string, int]{}
	job := wordLengths(SplitRange(10, 4), committed, &lock)

	executor.EXPECT().Execute(gomock.Any(), "test", gomock.Len(4)).DoAndReturn(
		func(ctx context.Context, name string, tasks []Task) error {
			for _, task := range tasks {
				if err := task(ctx); err != nil {
					return err
				}
			}
			return nil
		})

	if err := Run(context.Background(), executor, job); err != nil {
		t.Fatalf("failed to run job: %v", err)
	}
	if len(committed) != 4 {
		t.Errorf("unexpected number of committed units: %d", len(committed))
	}
}

func TestRun_ExecutorErrorsArePropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := NewMockExecutor(ctrl)

	injected := errors.Mark(errors.New("injected"), ErrJobFailure)
	executor.EXPECT().Execute(gomock.Any(), "test", gomock.Any()).Return(injected)

	var lock sync.Mutex
	job := wordLengths(SplitRange(2, 2), map[int][]Group[string, int]{}, &lock)
	if err := Run(context.Background(), executor, job); !errors.Is(err, ErrJobFailure) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRun_MapFailureSkipsCommit(t *testing.T) {
	failure := errors.New("map failed")
	committed := false
	job := Job[int, int, int]{
		Name:  "failing",
		Units: SplitRange(1, 1),
		Map: func(context.Context, Unit, func(int, int)) error {
			return Permanent(failure)
		},
		Reduce: func(int, []int) (int, bool) { return 0, true },
		Commit: func(context.Context, Unit, []Group[int, int]) error {
			committed = true
			return nil
		},
	}
	err := Run(context.Background(), NewLocalExecutor(Config{Workers: 1, Retries: 3}), job)
	if !errors.Is(err, ErrJobFailure) || !errors.Is(err, failure) {
		t.Errorf("unexpected error: %v", err)
	}
	if committed {
		t.Errorf("failed unit should not be committed")
	}
}

func TestRunStream_CommitsEachPairBeforeTheNextIsProduced(t *testing.T) {
	var committed []int
	var seen []int
	stream := Stream[int, string]{
		Name:  "stream",
		Units: SplitRange(5, 1),
		Map: func(ctx context.Context, unit Unit, emit func(int, string) error) error {
			for i := unit.Start; i < unit.End; i++ {
				seen = append(seen, len(committed))
				if err := emit(i, "v"); err != nil {
					return err
				}
			}
			return nil
		},
		Commit: func(_ context.Context, key int, _ string) error {
			committed = append(committed, key)
			return nil
		},
	}
	if err := RunStream(context.Background(), NewLocalExecutor(Config{Workers: 1}), stream); err != nil {
		t.Fatalf("failed to run stream: %v", err)
	}
	for i := range seen {
		if seen[i] != i {
			t.Errorf("pair %d was produced with %d committed pairs", i, seen[i])
		}
	}
	if len(committed) != 5 {
		t.Errorf("unexpected committed keys %v", committed)
	}
}

func TestRunStream_CommitFailureAbortsUnit(t *testing.T) {
	failure := errors.New("commit failed")
	emitted := 0
	stream := Stream[int, int]{
		Name:  "failing",
		Units: SplitRange(5, 1),
		Map: func(ctx context.Context, unit Unit, emit func(int, int) error) error {
			for i := unit.Start; i < unit.End; i++ {
				emitted++
				if err := emit(i, i); err != nil {
					return err
				}
			}
			return nil
		},
		Commit: func(_ context.Context, key int, _ int) error {
			if key == 2 {
				return Permanent(failure)
			}
			return nil
		},
	}
	err := RunStream(context.Background(), NewLocalExecutor(Config{Workers: 1, Retries: 3}), stream)
	if !errors.Is(err, ErrJobFailure) || !errors.Is(err, failure) {
		t.Errorf("unexpected error: %v", err)
	}
	if emitted != 3 {
		t.Errorf("unit should stop at the failing commit, emitted %d", emitted)
	}
}

func TestRunStream_RetriedUnitRestartsFromItsStart(t *testing.T) {
	var committed []int
	failed := false
	stream := Stream[int, int]{
		Name:  "retried",
		Units: SplitRange(3, 1),
		Map: func(ctx context.Context, unit Unit, emit func(int, int) error) error {
			for i := unit.Start; i < unit.End; i++ {
				if err := emit(i, i); err != nil {
					return err
				}
			}
			return nil
		},
		Commit: func(_ context.Context, key int, _ int) error {
			if key == 1 && !failed {
				failed = true
				return errors.New("transient")
			}
			committed = append(committed, key)
			return nil
		},
	}
	if err := RunStream(context.Background(), NewLocalExecutor(Config{Workers: 1, Retries: 3}), stream); err != nil {
		t.Fatalf("failed to run stream: %v", err)
	}
	want := []int{0, 0, 1, 2}
	if len(committed) != len(want) {
		t.Fatalf("unexpected committed keys %v, wanted %v", committed, want)
	}
	for i := range want {
		if committed[i] != want[i] {
			t.Errorf("unexpected committed keys %v, wanted %v", committed, want)
		}
	}
}

func TestRunStream_ReportsIncompleteStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := NewMockExecutor(ctrl)
	if err := RunStream(context.Background(), executor, Stream[int, int]{Name: "empty"}); err == nil {
		t.Errorf("incomplete stream should be rejected")
	}
}
