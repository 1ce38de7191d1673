package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"sideways"}} {
		if err := run(args, logging.NewNop()); !errors.Is(err, errUsage) {
			t.Fatalf("args %v: expected usage error, got %v", args, err)
		}
	}
}

func TestRun_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	err := run([]string{"up"}, logging.NewNop())
	if err == nil || !strings.Contains(err.Error(), "DB_URL") {
		t.Fatalf("expected DB_URL error, got %v", err)
	}
}

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("default steps: got %d err %v", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("explicit steps: got %d err %v", got, err)
	}
	for _, raw := range []string{"0", "-2", "x"} {
		if _, err := parseSteps([]string{raw}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected negative version error")
	}
	if got, err := parseTarget("20260301000001"); err != nil || got != 20260301000001 {
		t.Fatalf("target: got %d err %v", got, err)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("MIGRATION_FLAG", "off")
	if envBool("MIGRATION_FLAG", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("MIGRATION_FLAG", "")
	if !envBool("MIGRATION_FLAG", true) {
		t.Fatalf("expected fallback")
	}
}
