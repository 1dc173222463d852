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
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"golang.org/x/sync/errgroup"
)

// Config is the configuration of a LocalExecutor.
type Config struct {
	Workers    int              // number of tasks run in parallel, at least 1
	Retries    int              // number of re-executions of a failing task
	Backoff    time.Duration    // delay before the first retry
	MaxBackoff time.Duration    // upper bound of the doubling delay
	Retryable  func(error) bool // if set, only errors it accepts are retried
}

// DefaultConfig returns a configuration using all CPUs with three retries.
func DefaultConfig() Config {
	return Config{
		Workers:    runtime.NumCPU(),
		Retries:    3,
		Backoff:    10 * time.Millisecond,
		MaxBackoff: time.Second,
	}
}

// Stats summarizes the work done by a LocalExecutor.
type Stats struct {
	Tasks    uint64
	Attempts uint64
	Retries  uint64
	Failures uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("tasks: %d, attempts: %d, retries: %d, failures: %d", s.Tasks, s.Attempts, s.Retries, s.Failures)
}

// LocalExecutor runs tasks on a bounded pool of goroutines in this process.
type LocalExecutor struct {
	config   Config
	tasks    atomic.Uint64
	attempts atomic.Uint64
	retries  atomic.Uint64
	failures atomic.Uint64
}

// NewLocalExecutor creates an executor with the given configuration.
func NewLocalExecutor(config Config) *LocalExecutor {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	if config.MaxBackoff < config.Backoff {
		config.MaxBackoff = config.Backoff
	}
	return &LocalExecutor{config: config}
}

// Execute runs all tasks and waits for their completion. The first task
// failing permanently cancels the remaining ones.
func (e *LocalExecutor) Execute(ctx context.Context, name string, tasks []Task) error {
	ctx = logtags.AddTag(ctx, "job", name)
	start := time.Now()
	logf(ctx, "starting %d units on %d workers", len(tasks), e.config.Workers)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.config.Workers)
	for i, task := range tasks {
		if groupCtx.Err() != nil {
			break
		}
		ctx := logtags.AddTag(groupCtx, "unit", i)
		task := task
		e.tasks.Add(1)
		group.Go(func() error {
			return e.run(ctx, task)
		})
	}
	if err := group.Wait(); err != nil {
		logf(ctx, "failed after %v: %v", time.Since(start), err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	logf(ctx, "completed in %v", time.Since(start))
	return nil
}

func (e *LocalExecutor) run(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	backoff := e.config.Backoff
	var err error
	for attempt := 0; ; attempt++ {
		e.attempts.Add(1)
		if err = task(ctx); err == nil {
			return nil
		}
		if attempt >= e.config.Retries || !e.retryable(ctx, err) {
			break
		}
		e.retries.Add(1)
		logf(ctx, "attempt %d failed, retrying in %v: %v", attempt+1, backoff, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(2*backoff, e.config.MaxBackoff)
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	e.failures.Add(1)
	return errors.Mark(errors.Wrapf(err, "%s", logtags.FromContext(ctx)), ErrJobFailure)
}

func (e *LocalExecutor) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || IsPermanent(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return e.config.Retryable == nil || e.config.Retryable(err)
}

// Stats returns the counters accumulated over all executed jobs.
func (e *LocalExecutor) Stats() Stats {
	return Stats{
		Tasks:    e.tasks.Load(),
		Attempts: e.attempts.Load(),
		Retries:  e.retries.Load(),
		Failures: e.failures.Load(),
	}
}

func logf(ctx context.Context, format string, args ...any) {
	if tags := logtags.FromContext(ctx); tags != nil {
		format = "[" + tags.String() + "] " + format
	}
	log.Printf(format, args...)
}
