package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UpdateSnapshotsEnv names the environment variable that switches
// MatchesFile into update mode.
const UpdateSnapshotsEnv = "REEL_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Trace is an ordered record of what a sprite displayed on each pumped frame.
type Trace struct {
	Samples []TraceSample `json:"samples"`
}

// TraceSample is one entry of a Trace. At is measured from the first sample.
type TraceSample struct {
	AtMillis int64  `json:"atMs"`
	Frame    int    `json:"frame"`
	Status   string `json:"status"`
}

// Add appends a sample.
func (tr *Trace) Add(at time.Duration, frame int, status string) {
	tr.Samples = append(tr.Samples, TraceSample{
		AtMillis: at.Milliseconds(),
		Frame:    frame,
		Status:   status,
	})
}

// Frames returns the sampled frame indices in order.
func (tr *Trace) Frames() []int {
	frames := make([]int, len(tr.Samples))
	for i, s := range tr.Samples {
		frames[i] = s.Frame
	}
	return frames
}

// MatchesFile compares this trace against a golden file. On mismatch it
// reports a diff and instructions for updating. When REEL_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (tr *Trace) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := tr.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadTrace(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := tr.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this trace to the given path, creating directories
// as needed.
func (tr *Trace) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalTrace(tr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a unified diff between this trace and other. Returns
// empty string if equal.
func (tr *Trace) Diff(other *Trace) string {
	a, _ := marshalTrace(tr)
	b, _ := marshalTrace(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func loadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &tr, nil
}

func marshalTrace(tr *Trace) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	maxLen := len(expectedLines)
	if len(actualLines) > maxLen {
		maxLen = len(actualLines)
	}

	for i := 0; i < maxLen; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
