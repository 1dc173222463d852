// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package job describes partitioned map/shuffle/reduce computations over
// row ranges and runs them on an Executor.
package job

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Unit is a contiguous range of rows [Start, End) processed by one task.
type Unit struct {
	ID    int
	Start int
	End   int
}

// Len returns the number of rows covered by the unit.
func (u Unit) Len() int {
	return u.End - u.Start
}

func (u Unit) String() string {
	return fmt.Sprintf("unit %d [%d, %d)", u.ID, u.Start, u.End)
}

// SplitRange partitions [0, n) into at most parts contiguous units whose
// sizes differ by at most one. The first n mod parts units get the extra
// row. No empty units are produced.
func SplitRange(n, parts int) []Unit {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	size, extra := n/parts, n%parts
	res := make([]Unit, 0, parts)
	start := 0
	for i := 0; i < parts; i++ {
		end := start + size
		if i < extra {
			end++
		}
		res = append(res, Unit{ID: i, Start: start, End: end})
		start = end
	}
	return res
}

// Chunks partitions [0, n) into units of size rows each; the last unit may
// be shorter.
func Chunks(n, size int) []Unit {
	if size < 1 {
		size = 1
	}
	var res []Unit
	for start := 0; start < n; start += size {
		res = append(res, Unit{ID: len(res), Start: start, End: min(start+size, n)})
	}
	return res
}

// Group is the reduced result of all values emitted for one key.
type Group[K constraints.Ordered, R any] struct {
	Key    K
	Result R
}

// Job describes a partitioned computation. Map is called
// once per unit and emits key/value pairs. Values are grouped by key and
// reduced; groups for which Reduce reports false are dropped. Commit
// receives the remaining groups of the unit in ascending key order.
//
// Keys emitted by different units must be disjoint, so that every unit can
// be shuffled, reduced and committed independently and re-executed on failure.
type Job[K constraints.Ordered, V any, R any] struct {
	Name   string
	Units  []Unit
	Map    func(ctx context.Context, unit Unit, emit func(K, V)) error
	Reduce func(key K, values []V) (R, bool)
	Commit func(ctx context.Context, unit Unit, groups []Group[K, R]) error
}

// Run executes the given job on the executor, one task per unit.
func Run[K constraints.Ordered, V any, R any](ctx context.Context, executor Executor, job Job[K, V, R]) error {
	if job.Map == nil || job.Reduce == nil || job.Commit == nil {
		return errors.Newf("job %s is incomplete", job.Name)
	}
	tasks := make([]Task, 0, len(job.Units))
	for _, unit := range job.Units {
		unit := unit
		tasks = append(tasks, func(ctx context.Context) error {
			return runUnit(ctx, job, unit)
		})
	}
	return executor.Execute(ctx, job.Name, tasks)
}

func runUnit[K constraints.Ordered, V any, R any](ctx context.Context, job Job[K, V, R], unit Unit) error {
	values := map[K][]V{}
	err := job.Map(ctx, unit, func(key K, value V) {
		values[key] = append(values[key], value)
	})
	if err != nil {
		return errors.Wrapf(err, "map of %v failed", unit)
	}

	keys := maps.Keys(values)
	slices.Sort(keys)
	groups := make([]Group[K, R], 0, len(keys))
	for _, key := range keys {
		if res, keep := job.Reduce(key, values[key]); keep {
			groups = append(groups, Group[K, R]{Key: key, Result: res})
		}
	}

	if err := job.Commit(ctx, unit, groups); err != nil {
		return errors.Wrapf(err, "commit of %v failed", unit)
	}
	return nil
}

// Stream describes a partitioned computation whose keys are unique within
// the whole job, so no grouping is needed. Every pair emitted by Map is
// committed before emit returns, and a unit never holds more than the value
// it is currently producing. A failing commit aborts the unit; the unit is
// then re-executed from its start.
type Stream[K any, V any] struct {
	Name   string
	Units  []Unit
	Map    func(ctx context.Context, unit Unit, emit func(K, V) error) error
	Commit func(ctx context.Context, key K, value V) error
}

// RunStream executes the given stream on the executor, one task per unit.
func RunStream[K any, V any](ctx context.Context, executor Executor, stream Stream[K, V]) error {
	if stream.Map == nil || stream.Commit == nil {
		return errors.Newf("job %s is incomplete", stream.Name)
	}
	tasks := make([]Task, 0, len(stream.Units))
	for _, unit := range stream.Units {
		unit := unit
		tasks = append(tasks, func(ctx context.Context) error {
			return runStreamUnit(ctx, stream, unit)
		})
	}
	return executor.Execute(ctx, stream.Name, tasks)
}

func runStreamUnit[K any, V any](ctx context.Context, stream Stream[K, V], unit Unit) error {
	var commitErr error
	err := stream.Map(ctx, unit, func(key K, value V) error {
		if err := stream.Commit(ctx, key, value); err != nil {
			commitErr = errors.Wrapf(err, "commit of %v in %v failed", key, unit)
			return commitErr
		}
		return nil
	})
	if commitErr != nil {
		return commitErr
	}
	if err != nil {
		return errors.Wrapf(err, "map of %v failed", unit)
	}
	return nil
}
