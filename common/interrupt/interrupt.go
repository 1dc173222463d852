// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package interrupt

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/cockroachdb/errors"
)

// ErrCanceled is the cause of contexts cancelled by a termination signal.
const ErrCanceled = common.ConstError("interrupted")

// Register returns a context that is cancelled with ErrCanceled as soon as
// the process receives SIGINT or SIGTERM. Running jobs observe the
// cancellation before starting their next unit. The returned stop function
// releases the signal handler and must be called once the context is no
// longer needed.
func Register(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			log.Printf("Received %v, stopping after the running units complete", sig)
			cancel(ErrCanceled)
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}

// IsInterrupted reports whether ctx was cancelled by a termination signal.
func IsInterrupted(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrCanceled)
}
