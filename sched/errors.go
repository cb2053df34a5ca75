// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrClosed is returned for submissions after Shutdown has begun.
	ErrClosed = errors.New("sched: pool closed")
	// ErrShutdownTimeout is returned by Shutdown when its context ends
	// before the pool drains. The context error is wrapped alongside.
	ErrShutdownTimeout = errors.New("sched: shutdown timed out")
)

// PanicError carries a panic recovered from a Task or a fiber.
type PanicError struct {
	// Value is the value passed to panic.
	Value any
	// Stack is the goroutine stack at the point of recovery.
	Stack []byte
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sched: panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
