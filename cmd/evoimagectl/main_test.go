package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRunRequiresKnownCommand(t *testing.T) {
	for _, args := range [][]string{nil, {"bogus"}} {
		err := run(context.Background(), args, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "usage: evoimagectl") {
			t.Fatalf("args %v: expected usage error, got %v", args, err)
		}
	}
}

func TestRunsOnEmptyStore(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"runs", "-store", "memory"}, &out); err != nil {
		t.Fatalf("runs: %v", err)
	}
	if strings.TrimSpace(out.String()) != "no runs found" {
		t.Fatalf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := run(context.Background(), []string{"runs", "-json"}, &out); err != nil {
		t.Fatalf("runs json: %v", err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Fatalf("unexpected json output: %q", out.String())
	}
}

func TestQueriesNeedRunSelection(t *testing.T) {
	cases := [][]string{
		{"history", "-latest"},
		{"history"},
		{"champion", "-run-id", "abc", "-latest"},
		{"champion", "-run-id", "abc"},
		{"champion", "-latest", "-all", "-o", "x.json"},
		{"runs", "-limit", "0"},
		{"runs", "-store", "bogus"},
	}
	for _, args := range cases {
		if err := run(context.Background(), args, &bytes.Buffer{}); err == nil {
			t.Fatalf("args %v: expected error", args)
		}
	}
}
