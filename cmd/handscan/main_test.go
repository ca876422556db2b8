package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/handscan/internal/config"
	"github.com/ayusman/handscan/internal/detector"
	"github.com/ayusman/handscan/internal/store"
	"github.com/ayusman/handscan/testdata"
)

func TestPrintRuns(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	finished := now.Add(-time.Minute)

	runs := []*store.Run{
		{ID: "run-2", Mode: "tree", Input: "/data", StartedAt: now.Add(-2 * time.Minute), FinishedAt: &finished, Processed: 4, Skipped: 1},
		{ID: "run-1", Mode: "dir", Input: "/imgs", StartedAt: now.Add(-3 * time.Hour)},
	}

	var buf bytes.Buffer
	printRuns(&buf, runs, now)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}

	for _, want := range []string{"run-2", "tree", "2 minutes ago", "4 processed, 1 skipped"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line %q missing %q", lines[0], want)
		}
	}
	for _, want := range []string{"run-1", "3 hours ago", "unfinished"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("line %q missing %q", lines[1], want)
		}
	}
}

func TestPrintRuns_Empty(t *testing.T) {
	var buf bytes.Buffer
	printRuns(&buf, nil, time.Now())

	if got := buf.String(); got != "no runs recorded\n" {
		t.Errorf("output = %q", got)
	}
}

func TestPrintResults(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		wantType bool
	}{
		{"dir omits type", "dir", false},
		{"tree shows type", "tree", true},
	}

	results := []store.Result{
		{File: "img.jpg", Type: "typeA", DetectedCount: 2, TimeNs: 1500000, FirstX: 1, FirstY: 2, FirstW: 150, FirstH: 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printResults(&buf, &store.Run{ID: "r", Mode: tt.mode}, results)

			out := buf.String()
			if !strings.Contains(out, "img.jpg") || !strings.Contains(out, "hands=2") ||
				!strings.Contains(out, "1.50ms") || !strings.Contains(out, "first=(1,2 150x160)") {
				t.Errorf("unexpected output:\n%s", out)
			}
			if got := strings.Contains(out, "typeA"); got != tt.wantType {
				t.Errorf("type shown = %v, want %v", got, tt.wantType)
			}
		})
	}
}

func TestHistoryCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	run := &store.Run{Mode: "dir", Input: "/imgs", CSVPath: "/out/results.csv", Cascade: "hand.xml"}
	if err := st.Runs().Create(run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := st.Results().Add(&store.Result{RunID: run.ID, File: "a.jpg", DetectedCount: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := st.Runs().Finish(run.ID, 1, 0); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	cfg := &config.Config{DBPath: dbPath, History: true}

	t.Run("list", func(t *testing.T) {
		var buf bytes.Buffer
		a := newApp(cfg)
		a.Writer = &buf

		if err := a.Run([]string{"handscan", "history"}); err != nil {
			t.Fatalf("history error = %v", err)
		}
		if !strings.Contains(buf.String(), run.ID) {
			t.Errorf("history output missing run id:\n%s", buf.String())
		}
	})

	t.Run("show", func(t *testing.T) {
		var buf bytes.Buffer
		a := newApp(cfg)
		a.Writer = &buf

		if err := a.Run([]string{"handscan", "history", "show", run.ID}); err != nil {
			t.Fatalf("history show error = %v", err)
		}
		if !strings.Contains(buf.String(), "a.jpg") {
			t.Errorf("show output missing result row:\n%s", buf.String())
		}
	})

	t.Run("show unknown run", func(t *testing.T) {
		a := newApp(cfg)
		a.Writer = &bytes.Buffer{}

		if err := a.Run([]string{"handscan", "history", "show", "missing"}); err == nil {
			t.Error("expected error for unknown run")
		}
	})

	t.Run("delete", func(t *testing.T) {
		var buf bytes.Buffer
		a := newApp(cfg)
		a.Writer = &buf

		if err := a.Run([]string{"handscan", "history", "delete", run.ID}); err != nil {
			t.Fatalf("history delete error = %v", err)
		}
		if got, want := buf.String(), "deleted run "+run.ID+" (1 results)\n"; got != want {
			t.Errorf("delete output = %q, want %q", got, want)
		}

		err := newApp(cfg).Run([]string{"handscan", "history", "delete", run.ID})
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("second delete error = %v, want ErrNotFound", err)
		}
	})
}

func TestRunCommand_MissingCascade(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "input")
	if err := testdata.WriteImage(filepath.Join(input, "a.jpg"), 320, 240); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out := filepath.Join(tmpDir, "output")
	dbPath := filepath.Join(tmpDir, "history", "handscan.db")

	a := newApp(&config.Config{History: true})
	a.Writer = &bytes.Buffer{}

	err := a.Run([]string{
		"handscan",
		"--cascade", filepath.Join(tmpDir, "missing.xml"),
		"--out", out,
		"--db", dbPath,
		"dir", input,
	})
	if !errors.Is(err, detector.ErrCascadeNotFound) {
		t.Fatalf("error = %v, want ErrCascadeNotFound", err)
	}

	// Nothing is processed or recorded after a setup failure.
	for _, p := range []string{out, filepath.Join(out, config.CSVName), dbPath} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should not exist, stat error = %v", p, err)
		}
	}
}

func TestNewApp_FlagDefaults(t *testing.T) {
	cfg := &config.Config{
		CascadePath: "cascade.xml",
		OutputDir:   "out",
		DBPath:      "h.db",
		History:     false,
		Thickness:   4,
	}

	a := newApp(cfg)
	want := map[string]string{
		flagCascade:   "cascade.xml",
		flagOut:       "out",
		flagDB:        "h.db",
		flagThickness: "4",
	}

	for _, f := range a.Flags {
		name := f.Names()[0]
		w, ok := want[name]
		if !ok {
			continue
		}
		if got := f.(interface{ GetValue() string }).GetValue(); got != w {
			t.Errorf("flag %s default = %q, want %q", name, got, w)
		}
	}
}
