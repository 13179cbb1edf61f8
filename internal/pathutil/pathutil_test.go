package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRedactPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"bare file", "a.fits", "a.fits"},
		{"nested", "/home/user/project/data/a.fits", ".../data/a.fits"},
		{"root child", "/a.fits", "a.fits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactPath(tt.input); got != tt.want {
				t.Errorf("RedactPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveDir(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		dir     string
		want    string
		wantErr bool
	}{
		{"relative", "data", filepath.Join(root, "data"), false},
		{"nested relative", "out/reports", filepath.Join(root, "out", "reports"), false},
		{"dot", ".", root, false},
		{"absolute passthrough", "/var/tmp/fits", "/var/tmp/fits", false},
		{"escapes root", "../elsewhere", "", true},
		{"empty", "", "", true},
		{"null byte", "da\x00ta", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDir(root, tt.dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDir(%q) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ResolveDir(%q) = %q, want %q", tt.dir, got, tt.want)
			}
		})
	}
}

func TestResolveDir_KeepsRelativeRoot(t *testing.T) {
	got, err := ResolveDir(".", "data")
	if err != nil {
		t.Fatalf("ResolveDir() error = %v", err)
	}
	if got != "data" {
		t.Errorf("ResolveDir(\".\", \"data\") = %q, want %q", got, "data")
	}
}

func TestResolveDir_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Fatal(err)
	}

	if _, err := ResolveDir(root, "link/data"); err == nil {
		t.Error("ResolveDir() expected error for symlink leaving root")
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	for i := 0; i < 2; i++ {
		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir() call %d error = %v", i+1, err)
		}
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestListFITS(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("astronomy_20261019_120000.fits", "ccc")
	write("astronomy_20261019_114500.fits", "a")
	write("notes.txt", "skip me")
	write("upper.FITS", "skip me too")
	if err := os.Mkdir(filepath.Join(dir, "nested.fits"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := ListFITS(dir)
	if err != nil {
		t.Fatalf("ListFITS() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2: %+v", len(files), files)
	}
	if files[0].Name != "astronomy_20261019_114500.fits" {
		t.Errorf("files[0].Name = %q, want the earlier file first", files[0].Name)
	}
	if files[1].Size != 3 {
		t.Errorf("files[1].Size = %d, want 3", files[1].Size)
	}
	if !strings.HasPrefix(files[0].Path, dir) {
		t.Errorf("files[0].Path = %q, want prefix %q", files[0].Path, dir)
	}
}

func TestListFITS_MissingDir(t *testing.T) {
	files, err := ListFITS(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("ListFITS() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("len(files) = %d, want 0", len(files))
	}

	n, err := CountFITS(filepath.Join(t.TempDir(), "missing"))
	if err != nil || n != 0 {
		t.Errorf("CountFITS() = %d, %v; want 0, nil", n, err)
	}
}
