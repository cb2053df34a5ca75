// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// Exec runs a Cont-world fiber computation on the calling goroutine.
// Forks go to p (inline when p is nil). Yield and pending Await wait via
// adaptive backoff (iox.Backoff) without involving a worker.
func Exec[R any](p *Pool, protocol kont.Eff[R]) R {
	h := fiberHandler[R]{env: NewEnv(p)}
	return kont.Handle(protocol, h)
}

// ExecExpr runs an Expr-world fiber computation on the calling goroutine.
// Forks go to p (inline when p is nil). Yield and pending Await wait via
// adaptive backoff (iox.Backoff) without involving a worker.
func ExecExpr[R any](p *Pool, protocol kont.Expr[R]) R {
	h := fiberHandler[R]{env: NewEnv(p)}
	return kont.HandleExpr(protocol, h)
}
