package main

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestDemoFlowAcrossInvocations(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "demo")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(out, "signed in as") {
		t.Fatalf("demo output = %q", out)
	}

	out, err = run(t, dir, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "<demo@") {
		t.Fatalf("whoami output = %q", out)
	}

	out, err = run(t, dir, "experiment", "start", "template-2", "--start", "2026-01-01")
	if err != nil {
		t.Fatalf("experiment start: %v", err)
	}
	if !strings.Contains(out, "2026-01-01") {
		t.Fatalf("start output = %q", out)
	}

	out, err = run(t, dir, "experiment", "list")
	if err != nil {
		t.Fatalf("experiment list: %v", err)
	}
	if !strings.Contains(out, "Intermittent Fasting") {
		t.Fatalf("list output = %q", out)
	}

	if _, err := run(t, dir, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := run(t, dir, "whoami"); err == nil {
		t.Fatalf("whoami after logout should fail")
	}
}

func TestRejectsBadDateFlag(t *testing.T) {
	_, err := run(t, t.TempDir(), "experiment", "create", "--name", "x", "--start", "01/02/2026")
	if err == nil || !strings.Contains(err.Error(), "parse date") {
		t.Fatalf("err = %v", err)
	}
}

func TestNoStorageRefusesWrites(t *testing.T) {
	_, err := run(t, t.TempDir(), "--storage", "none", "register", "--email", "a@b.co", "--password", "secret1", "--name", "A")
	if err == nil {
		t.Fatalf("register without storage should fail")
	}
}
