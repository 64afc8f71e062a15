package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestGuardPanicsConvertsPanicToExitCode(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	code := guardPanics(&out, func() int {
		panic("boom")
	})

	if code != 1 {
		t.Fatalf("expected exit code 1 after panic, got %d", code)
	}

	if !strings.Contains(out.String(), "boom") {
		t.Fatalf("expected panic value in output, got %q", out.String())
	}
}

func TestGuardPanicsPassesThroughExitCode(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	code := guardPanics(&out, func() int {
		return 3
	})

	if code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}

	if out.Len() != 0 {
		t.Fatalf("expected no output without a panic, got %q", out.String())
	}
}
