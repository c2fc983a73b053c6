package service

import (
	"context"
	"testing"
	"time"
)

// ─────────────────────────────────────────────────────────────
// routeComputeGuard tests
// ─────────────────────────────────────────────────────────────

func TestRouteComputeGuard_TryLock(t *testing.T) {
	var g routeComputeGuard

	if !g.TryLock("tatooine", "alderaan") {
		t.Fatal("expected first TryLock for tatooine->alderaan to succeed")
	}
	if g.TryLock("tatooine", "alderaan") {
		t.Fatal("expected second TryLock for the same pair to fail")
	}
	if !g.TryLock("tatooine", "hoth") {
		t.Fatal("expected TryLock for a different destination to succeed")
	}
	if !g.TryLock("alderaan", "tatooine") {
		t.Fatal("expected the reverse pair to be a distinct lock")
	}

	g.Unlock("tatooine", "alderaan")
	g.Unlock("tatooine", "hoth")
	g.Unlock("alderaan", "tatooine")

	if !g.TryLock("tatooine", "alderaan") {
		t.Fatal("expected TryLock to succeed again after unlock")
	}
	g.Unlock("tatooine", "alderaan")
}

func TestRouteComputeGuard_WaitAll(t *testing.T) {
	var g routeComputeGuard

	if !g.TryLock("tatooine", "alderaan") {
		t.Fatal("expected lock to succeed")
	}

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		g.WaitAll(ctx)
		close(done)
	}()

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Unlock("tatooine", "alderaan")
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("WaitAll timed out waiting for the in-flight compute to release")
	}
}

func TestRouteComputeGuard_WaitAllTimesOutWithoutUnlock(t *testing.T) {
	var g routeComputeGuard
	if !g.TryLock("tatooine", "alderaan") {
		t.Fatal("expected lock to succeed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	g.WaitAll(ctx)
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("expected WaitAll to return promptly once ctx is cancelled")
	}
}
