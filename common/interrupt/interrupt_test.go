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
	"syscall"
	"testing"
)

func TestRegister_SignalCancelsContext(t *testing.T) {
	ctx, stop := Register(context.Background())
	defer stop()
	if IsInterrupted(ctx) {
		t.Fatalf("fresh context should not be interrupted")
	}
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		t.Fatalf("failed to send SIGINT: %v", err)
	}
	<-ctx.Done()
	if !IsInterrupted(ctx) {
		t.Errorf("unexpected cause of cancellation: %v", context.Cause(ctx))
	}
}

func TestRegister_StopIsNoInterruption(t *testing.T) {
	ctx, stop := Register(context.Background())
	stop()
	<-ctx.Done()
	if IsInterrupted(ctx) {
		t.Errorf("stopped context should not be reported as interrupted")
	}
}

func TestRegister_ParentCancellationIsNoInterruption(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := Register(parent)
	defer stop()
	cancel()
	<-ctx.Done()
	if IsInterrupted(ctx) {
		t.Errorf("cancelled parent should not be reported as interrupted")
	}
}
