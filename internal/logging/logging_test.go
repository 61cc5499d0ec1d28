package logging

import (
	"path/filepath"
	"testing"
)

func TestResolvePathKeepsAbsolutePaths(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "till.log")
	if got := ResolvePath(abs); got != abs {
		t.Errorf("ResolvePath(%q) = %q, want unchanged", abs, got)
	}
}

func TestResolvePathPlacesBareNamesInConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "till", "lane1.log")
	if got := ResolvePath("lane1.log"); got != want {
		t.Errorf("ResolvePath(\"lane1.log\") = %q, want %q", got, want)
	}
}

func TestResolvePathEmptyDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got := ResolvePath(""); filepath.Base(got) != "till.log" {
		t.Errorf("ResolvePath(\"\") = %q, want a till.log path", got)
	}
}
