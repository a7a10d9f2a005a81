package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// GitCommit and BuildDate can be empty (optional)
	_ = GitCommit
	_ = BuildDate
}

func TestColored_NoColor(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()

	color.NoColor = true
	Version = "1.2.3-rc1"
	if got := Colored(); got != "1.2.3-rc1" {
		t.Fatalf("Colored() = %q", got)
	}
	Version = "weird"
	if got := Colored(); got != "weird" {
		t.Fatalf("Colored() = %q", got)
	}
}

func TestSummary(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	got := Summary()
	want := "lazuli 1.2.3 (abc123def456, " + runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH + ")"
	if got != want {
		t.Fatalf("Summary() = %q, want %q", got, want)
	}

	GitCommit = ""
	if strings.Contains(Summary(), "abc") {
		t.Fatal("empty commit still rendered")
	}
}

func TestCurrent(t *testing.T) {
	info := Current()
	if info.Version != Version || info.GoVersion != runtime.Version() {
		t.Fatalf("Current() = %+v", info)
	}
}
