package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestCIReporterWithPageHook(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}

	r.Start(3)
	hook := PageHook(r)
	hook(1, 25)
	hook(2, 10)
	r.Finish()

	want := []string{
		"Fetching up to 3 pages",
		"[1/3] page 1: 25 items",
		"[2/3] page 2: 35 items",
		"Feed fetch complete",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestTerminalReporterBeforeStart(t *testing.T) {
	r := &TerminalReporter{}
	r.Update(1, "ignored")
	r.Finish()
}
