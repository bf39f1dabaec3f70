package gpscontext

import (
	"testing"
	"time"
)

func TestCanWriteAndConfigure(t *testing.T) {
	ctx := New(Config{}, nil)
	if !ctx.CanWrite() || !ctx.CanConfigure() {
		t.Fatalf("default config should allow writes and configuration")
	}

	ctx = New(Config{Passive: true}, nil)
	if !ctx.CanWrite() {
		t.Fatalf("passive mode should still allow probes")
	}
	if ctx.CanConfigure() {
		t.Fatalf("passive mode must suppress configuration writes")
	}

	ctx = New(Config{ReadOnly: true}, nil)
	if ctx.CanWrite() || ctx.CanConfigure() {
		t.Fatalf("readonly mode must suppress all writes")
	}
}

func TestEffectiveLeapSeconds(t *testing.T) {
	ctx := New(Config{}, nil)
	if ctx.EffectiveLeapSeconds() != BaselineLeapSeconds {
		t.Fatalf("expected baseline before any device report")
	}
	ctx.LeapSeconds = 19
	if ctx.EffectiveLeapSeconds() != 19 {
		t.Fatalf("expected reported leap seconds to take priority")
	}
}

func TestMinCycleOverride(t *testing.T) {
	ctx := New(Config{}, nil)
	if ctx.MinCycle(200 * time.Millisecond) != 200*time.Millisecond {
		t.Fatalf("expected driver minimum without override")
	}
	ctx.Config.MinCycleOverride = 500 * time.Millisecond
	if ctx.MinCycle(200 * time.Millisecond) != 500*time.Millisecond {
		t.Fatalf("expected override to win")
	}
}
