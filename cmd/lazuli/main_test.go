package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"lazuli/internal/crash"
	"lazuli/internal/driver"
	"lazuli/internal/ui"
)

func TestParseDefines(t *testing.T) {
	got, err := parseDefines([]string{"DEBUG=1", "NAME=a=b", "FLAG"})
	if err != nil {
		t.Fatalf("parseDefines: %v", err)
	}
	want := map[string]string{"DEBUG": "1", "NAME": "a=b", "FLAG": ""}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}

	if _, err := parseDefines([]string{"=1"}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error")
	}
	if shouldUseTUI(uiModeOn, 1) {
		t.Error("single file must not use TUI")
	}
	if !shouldUseTUI(uiModeOn, 2) || shouldUseTUI(uiModeOff, 5) {
		t.Error("explicit modes ignored")
	}
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		res  driver.FileResult
		want ui.Status
	}{
		{driver.FileResult{Err: errors.New("read")}, ui.StatusError},
		{driver.FileResult{}, ui.StatusError},
		{driver.FileResult{Outcome: &driver.Outcome{Kind: driver.OutcomeExecuted}}, ui.StatusOK},
		{driver.FileResult{Outcome: &driver.Outcome{Kind: driver.OutcomeParseErrors}}, ui.StatusParseErrors},
		{driver.FileResult{Outcome: &driver.Outcome{Kind: driver.OutcomeLanguageFault}}, ui.StatusFault},
		{driver.FileResult{Outcome: &driver.Outcome{Kind: driver.OutcomeCrashed}}, ui.StatusCrashed},
	}
	for i, tc := range cases {
		if got := statusOf(tc.res); got != tc.want {
			t.Errorf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestListCrashes(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	listCrashes(&buf, []crash.Record{{
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Stage:   "execute",
		Context: "a.lzr",
		Message: "boom\nagain",
	}, {
		Stage:   "parse",
		Message: strings.Repeat("x", 100),
	}})
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if want := "  1  2026-01-02 03:04:05  execute    a.lzr  boom again"; lines[0] != want {
		t.Errorf("line 1 = %q, want %q", lines[0], want)
	}
	if !strings.Contains(lines[1], "unknown") || !strings.HasSuffix(lines[1], "...") {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestSessionSinks(t *testing.T) {
	var s runSettings
	s.cfg.Crash.Dir = t.TempDir()
	s.cfg.Crash.Console = true
	s.cfg.Crash.File = true
	s.cfg.Crash.Archive = true

	sinks, file := s.sessionSinks(&bytes.Buffer{})
	if len(sinks) != 3 || file == nil {
		t.Fatalf("got %d sinks, file=%v", len(sinks), file)
	}

	// без консоли (несколько файлов): отчёт уходит в вывод файла
	sinks, _ = s.sessionSinks(nil)
	if len(sinks) != 2 || !s.consoleReport() {
		t.Fatalf("got %d sinks without console", len(sinks))
	}
	for _, sink := range sinks {
		if _, ok := sink.(*crash.ConsoleSink); ok {
			t.Fatal("console sink must be skipped")
		}
	}

	s.noCrashFile = true
	s.quiet = true
	sinks, file = s.sessionSinks(&bytes.Buffer{})
	if len(sinks) != 1 || file != nil {
		t.Fatalf("got %d sinks, file=%v", len(sinks), file)
	}
}
