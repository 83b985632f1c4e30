package uploads

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// testdataDir returns the absolute path to the testdata/uploads directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	root := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "uploads")
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata dir does not exist: %s", abs)
	}
	return abs
}

func names(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestCollect_RecursiveGlobSkipsDefaultExcludes(t *testing.T) {
	dir := testdataDir(t)

	files, err := Collect([]string{filepath.Join(dir, "**", "*")}, nil)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	got := map[string]bool{}
	for _, f := range files {
		got[f.Name] = true
	}
	for _, want := range []string{"market-survey.txt", "vendors.md", "risks.txt", "old.txt"} {
		if !got[want] {
			t.Errorf("expected %s in %v", want, names(files))
		}
	}
	for _, unwanted := range []string{"index.js", "HEAD"} {
		if got[unwanted] {
			t.Errorf("%s should be excluded, got %v", unwanted, names(files))
		}
	}
}

func TestCollect_ExcludePatterns(t *testing.T) {
	dir := testdataDir(t)

	files, err := Collect([]string{filepath.Join(dir, "research", "**", "*.txt")}, []string{"**/drafts/**"})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(files) != 1 || files[0].Name != "risks.txt" {
		t.Fatalf("expected only risks.txt, got %v", names(files))
	}
	if files[0].Size == 0 {
		t.Error("expected a non-zero size")
	}
}

func TestCollect_PlainPathAndDuplicates(t *testing.T) {
	dir := testdataDir(t)
	path := filepath.Join(dir, "market-survey.txt")

	files, err := Collect([]string{path, path, filepath.Join(dir, "*.txt")}, nil)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one file, got %v", names(files))
	}
}

func TestCollect_NoMatches(t *testing.T) {
	files, err := Collect([]string{filepath.Join(t.TempDir(), "*.pdf")}, nil)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", names(files))
	}
}

func TestMatchesExclude(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"research/drafts/old.txt", []string{"**/drafts/**"}, true},
		{"research/risks.txt", []string{"*.md"}, false},
		{"research/vendors.md", []string{"*.md"}, true},
		{"anything", nil, false},
	}
	for _, tt := range tests {
		if got := MatchesExclude(tt.path, tt.patterns); got != tt.want {
			t.Errorf("MatchesExclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
}
