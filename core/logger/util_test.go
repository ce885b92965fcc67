package logger

import (
	"testing"
	"time"
)

func TestSanitizeStripsControlRunes(t *testing.T) {
	in := "hello\x00 world\x1b[0m\ttab\nline"
	got := Sanitize(in)
	want := "hello world[0m\ttab\nline"
	if got != want {
		t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("абвгд", 3); got != "абв" {
		t.Fatalf("expected rune-wise truncation, got %q", got)
	}
	if got := SanitizeLimit("abc", 0); got != "" {
		t.Fatalf("expected empty string for zero limit, got %q", got)
	}
}

func TestBuildRID(t *testing.T) {
	if rid := BuildRID(42, 7, 9); rid != "42:7:9" {
		t.Fatalf("unexpected rid %q", rid)
	}
}

func TestContextMeta(t *testing.T) {
	ctx := WithRID(nil, "1:2:3")
	ctx = WithUpdateMeta(ctx, 1, 2, 3)
	if RIDFrom(ctx) != "1:2:3" {
		t.Fatalf("rid lost: %q", RIDFrom(ctx))
	}
	if UpdateIDFrom(ctx) != 1 || UserIDFrom(ctx) != 2 || ChatIDFrom(ctx) != 3 {
		t.Fatalf("update meta lost: %d %d %d", UpdateIDFrom(ctx), UserIDFrom(ctx), ChatIDFrom(ctx))
	}
}

func TestRoundMS(t *testing.T) {
	if RoundMS(-time.Second) != 0 {
		t.Fatal("negative duration should round to zero")
	}
	if RoundMS(1500*time.Microsecond) != 2*time.Millisecond {
		t.Fatalf("unexpected rounding: %v", RoundMS(1500*time.Microsecond))
	}
}
