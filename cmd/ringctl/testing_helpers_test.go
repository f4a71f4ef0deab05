package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores the global flag values between tests.
func resetFlags(t *testing.T) {
	t.Helper()
	verbose, quiet, jsonOut = false, false, false
	logFile = ""
	regionSize, regionOffset = defaultRegionSize, 0
	regionFile = ""
	inputEncoding = "utf-8"
	demoSizes = []int{8, 24, 100, 8, 64}
	demoFreeEvery = 2
	if err := setupLogging(); err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
}

// writeCommands writes a command stream to a temp file and returns its path.
func writeCommands(t *testing.T, cmds string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commands.txt")
	if err := os.WriteFile(path, []byte(cmds), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	return string(<-done), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, output)
	}
}
