package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(sources []Source) []string {
	var out []string
	for _, s := range sources {
		out = append(out, filepath.ToSlash(s.RelativePath))
	}
	return out
}

func assertPaths(t *testing.T, got []Source, want ...string) {
	t.Helper()
	paths := relPaths(got)
	if len(paths) != len(want) {
		t.Fatalf("got %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("source %d: got %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "1\n")
	writeFile(t, filepath.Join(root, "sub", "b.log"), "2\n")
	writeFile(t, filepath.Join(root, ".hidden"), "x\n")
	writeFile(t, filepath.Join(root, ".git", "config"), "x\n")

	t.Run("all files", func(t *testing.T) {
		files, err := Discover(root, "")
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected 2 files, got %v", relPaths(files))
		}
		for _, f := range files {
			if f.Type != SourceFile {
				t.Errorf("%s: expected file type, got %s", f.Path, f.Type)
			}
			if f.ModTime.IsZero() {
				t.Errorf("%s: missing modification time", f.Path)
			}
		}
	})

	t.Run("include pattern", func(t *testing.T) {
		files, err := Discover(root, "*.log")
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if len(files) != 1 || filepath.Base(files[0].Path) != "b.log" {
			t.Errorf("expected only b.log, got %v", relPaths(files))
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		if _, err := Discover(filepath.Join(root, "a.txt"), ""); err == nil {
			t.Error("expected error for a file root")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := Discover(filepath.Join(root, "nope"), ""); err == nil {
			t.Error("expected error for a missing root")
		}
	})
}

func TestDiscoverAll(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "1\n")
	writeFile(t, b, "2\n")

	t.Run("no arguments means stdin", func(t *testing.T) {
		got, err := DiscoverAll(nil, "")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Type != SourceStdin {
			t.Errorf("expected stdin, got %v", got)
		}
	})

	t.Run("dedupe", func(t *testing.T) {
		got, err := DiscoverAll([]string{b, a, b, "-", "-"}, "")
		if err != nil {
			t.Fatal(err)
		}
		assertPaths(t, got, filepath.ToSlash(b), filepath.ToSlash(a), "-")
	})

	t.Run("glob", func(t *testing.T) {
		got, err := DiscoverAll([]string{filepath.Join(root, "*.txt")}, "")
		if err != nil {
			t.Fatal(err)
		}
		assertPaths(t, got, filepath.ToSlash(a), filepath.ToSlash(b))
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := DiscoverAll([]string{filepath.Join(root, "missing.txt")}, ""); err == nil {
			t.Error("expected error for a missing input")
		}
	})
}

func TestClassifyArg(t *testing.T) {
	tests := []struct {
		arg  string
		want ArgType
	}{
		{"-", ArgStdin},
		{"data/*.csv", ArgGlob},
		{"file[0-9].txt", ArgGlob},
		{"data", ArgPath},
		{"./-x", ArgPath},
	}
	for _, tt := range tests {
		if got := ClassifyArg(tt.arg); got != tt.want {
			t.Errorf("ClassifyArg(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func TestMatchInclude(t *testing.T) {
	if !MatchInclude("x.log", "") {
		t.Error("empty pattern must accept")
	}
	if !MatchInclude("dir/x.log", "*.log") {
		t.Error("pattern applies to the base name")
	}
	if MatchInclude("x.txt", "*.log") {
		t.Error("x.txt must not match *.log")
	}
	if !IsHidden(".git") || IsHidden(".") || IsHidden("a.txt") {
		t.Error("IsHidden misclassifies")
	}
}
