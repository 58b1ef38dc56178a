package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-size", "100000"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(out.String(), "number of tasks ") {
		t.Errorf("output = %q, want task count line", out.String())
	}
	if !strings.Contains(out.String(), "finished") {
		t.Errorf("output = %q, want finished line", out.String())
	}
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parsort.yaml")
	content := "pool:\n  workers: 2\nsort:\n  fanout_threshold: 100\n  pivot: median3\nlog:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var out bytes.Buffer
	args := []string{"-config", path, "-size", "20000", "-order", "random", "-seed", "9"}
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if strings.Contains(out.String(), "number of tasks 0\n") {
		t.Errorf("output = %q, expected dispatched tasks with threshold 100", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown order", []string{"-order", "shuffled"}},
		{"negative size", []string{"-size", "-1"}},
		{"unknown flag", []string{"-nope"}},
		{"missing config", []string{"-config", "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(context.Background(), tt.args, &out); err == nil {
				t.Error("run() should fail")
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	data, err := generate("reverse", 5, 0)
	if err != nil {
		t.Fatalf("generate() error = %v", err)
	}
	if !slices.Equal(data, []int{4, 3, 2, 1, 0}) {
		t.Errorf("generate(reverse) = %v", data)
	}

	a, _ := generate("random", 100, 3)
	b, _ := generate("random", 100, 3)
	if !slices.Equal(a, b) {
		t.Error("generate(random) should be deterministic for a seed")
	}
}
