package session

import (
	"context"
	"errors"
	"testing"
)

func TestRunStepsStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []int
	err := runSteps(context.Background(),
		func(context.Context) error { ran = append(ran, 1); return nil },
		func(context.Context) error { ran = append(ran, 2); return boom },
		func(context.Context) error { ran = append(ran, 3); return nil },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(ran) != 2 {
		t.Fatalf("expected two steps to run, got %v", ran)
	}
}

func TestRunStepsHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := runSteps(ctx, func(context.Context) error { called = true; return nil })
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected cancellation before first step, err=%v called=%t", err, called)
	}
}

func TestViewFor(t *testing.T) {
	cases := map[State]View{
		StateInitializing:   ViewLoading,
		StateAnonymous:      ViewLanding,
		StateCustomerActive: ViewCustomerDashboard,
		StateAdminActive:    ViewAdminDashboard,
	}
	for state, want := range cases {
		if got := ViewFor(state); got != want {
			t.Fatalf("%s: expected %s got %s", state, want, got)
		}
	}
}
