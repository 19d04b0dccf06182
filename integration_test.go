//go:build integration

package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"
)

// buildBinary compiles the CLI once per test into a temp location.
func buildBinary(t *testing.T) string {
	t.Helper()
	bin := "./topspot_test"
	buildCmd := exec.Command("go", "build", "-o", bin, ".")
	if err := buildCmd.Run(); err != nil {
		t.Fatalf("Failed to build binary: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(bin) })
	return bin
}

// TestHistoryEmpty runs the history command against a fresh home
// directory and expects the empty-state message.
func TestHistoryEmpty(t *testing.T) {
	bin := buildBinary(t)
	home := t.TempDir()

	cmd := exec.Command(bin, "history")
	cmd.Env = append(os.Environ(), "HOME="+home)

	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("history command failed: %v\n%s", err, output)
	}
	if !strings.Contains(string(output), "No runs recorded") {
		t.Errorf("expected empty-state message, got:\n%s", output)
	}
}

// TestFetchRequiresAuth runs fetch without stored tokens and expects a
// clear hint to authenticate first.
func TestFetchRequiresAuth(t *testing.T) {
	bin := buildBinary(t)
	home := t.TempDir()

	cmd := exec.Command(bin, "fetch", "--time-range", "medium_term")
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"SPOTIFY_CLIENT_ID=test_id",
		"SPOTIFY_CLIENT_SECRET=test_secret",
	)

	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected fetch to fail without stored tokens")
	}
	if !strings.Contains(string(output), "topspot auth") {
		t.Errorf("expected hint to run 'topspot auth', got:\n%s", output)
	}
}

// TestFetchRejectsInvalidTimeRange checks flag validation.
func TestFetchRejectsInvalidTimeRange(t *testing.T) {
	bin := buildBinary(t)
	home := t.TempDir()

	cmd := exec.Command(bin, "fetch", "--time-range", "yearly")
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"SPOTIFY_CLIENT_ID=test_id",
		"SPOTIFY_CLIENT_SECRET=test_secret",
	)

	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("expected fetch to reject an invalid time range")
	}
	if !strings.Contains(string(output), "invalid time range") {
		t.Errorf("expected time range error, got:\n%s", output)
	}
}
