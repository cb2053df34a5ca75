// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"

	"code.hybscloud.com/corelib/sched"
)

func TestStepReturn(t *testing.T) {
	result, susp := sched.Step(kont.ExprReturn(7))
	if susp != nil {
		t.Fatal("expected completion without suspension")
	}
	if result != 7 {
		t.Fatalf("got %d, want 7", result)
	}
}

func TestStepAdvanceYield(t *testing.T) {
	env := sched.NewEnv(nil)
	_, susp := sched.Step(sched.ExprYieldThen(kont.ExprReturn(7)))
	if susp == nil {
		t.Fatal("expected suspension for Yield")
	}
	if _, ok := susp.Op().(sched.Yield); !ok {
		t.Fatalf("expected Yield, got %T", susp.Op())
	}

	// The first dispatch gives up the worker.
	_, again, err := sched.Advance(env, susp)
	if !iox.IsWouldBlock(err) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
	if again != susp {
		t.Fatal("suspension must be left unconsumed on ErrWouldBlock")
	}

	// The retry resumes.
	result, next, err := sched.Advance(env, again)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != nil {
		t.Fatal("expected completion")
	}
	if result != 7 {
		t.Fatalf("got %d, want 7", result)
	}
}

func TestStepInspectOperations(t *testing.T) {
	protocol := sched.ExprForkBind(kont.ExprReturn(1), func(f *sched.Future[int]) kont.Expr[int] {
		return sched.ExprAwaitBind(f, func(v int) kont.Expr[int] {
			return kont.ExprReturn(v)
		})
	})

	_, susp := sched.Step(protocol)
	if susp == nil {
		t.Fatal("expected suspension for Fork")
	}
	if _, ok := susp.Op().(sched.Fork[int]); !ok {
		t.Fatalf("expected Fork[int], got %T", susp.Op())
	}

	// Without a pool the child runs inline.
	env := sched.NewEnv(nil)
	_, susp, err := sched.Advance(env, susp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if susp == nil {
		t.Fatal("expected suspension for Await")
	}
	await, ok := susp.Op().(sched.Await[int])
	if !ok {
		t.Fatalf("expected Await[int], got %T", susp.Op())
	}
	if !await.Future.Done() {
		t.Fatal("inline child should be done")
	}
	result, susp, err := sched.Advance(env, susp)
	if err != nil || susp != nil {
		t.Fatalf("expected completion, got susp=%v err=%v", susp, err)
	}
	if result != 1 {
		t.Fatalf("got %d, want 1", result)
	}
}

func TestAdvanceAwaitPending(t *testing.T) {
	var fut sched.Future[int]
	_, susp := sched.Step(sched.ExprAwaitBind(&fut, func(v int) kont.Expr[int] {
		return kont.ExprReturn(v)
	}))
	if susp == nil {
		t.Fatal("expected suspension for Await")
	}
	env := sched.NewEnv(nil)
	for range 3 {
		_, next, err := sched.Advance(env, susp)
		if !iox.IsWouldBlock(err) {
			t.Fatalf("expected ErrWouldBlock, got %v", err)
		}
		if next != susp {
			t.Fatal("suspension must be left unconsumed on ErrWouldBlock")
		}
	}
	susp.Discard()
}

func TestStepAdvanceLoop(t *testing.T) {
	protocol := sched.ExprLoop(0, func(i int) kont.Expr[kont.Either[int, int]] {
		if i < 100 {
			return kont.ExprReturn(kont.Left[int, int](i + 1))
		}
		return kont.ExprReturn(kont.Right[int, int](i))
	})
	if got := execExpr(sched.NewEnv(nil), protocol); got != 100 {
		t.Fatalf("got %d, want 100", got)
	}
}

func TestAdvanceUnhandledPanics(t *testing.T) {
	type bogus struct{ kont.Phantom[int] }

	_, susp := sched.Step(sched.Reify(kont.Perform(bogus{})))
	if susp == nil {
		t.Fatal("expected suspension")
	}
	defer func() {
		r := recover()
		msg, ok := r.(string)
		if !ok || msg != "sched: unhandled effect in Advance" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	sched.Advance(sched.NewEnv(nil), susp)
}

func TestExecUnhandledPanics(t *testing.T) {
	type bogus struct{ kont.Phantom[int] }

	defer func() {
		r := recover()
		msg, ok := r.(string)
		if !ok || msg != "sched: unhandled effect in fiberHandler" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	sched.Exec(nil, kont.Perform(bogus{}))
}
