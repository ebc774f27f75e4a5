package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type zipEntry struct {
	name    string
	content string
	dir     bool
}

func makeZip(t *testing.T, entries ...zipEntry) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		if e.dir {
			hdr.SetMode(os.ModeDir | 0755)
		}
		fw, err := w.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	return zipPath
}

func collect(t *testing.T, zipPath, prefix string) []string {
	t.Helper()
	var visited []string
	err := Walk(context.Background(), zipPath, prefix, func(archive string, file *zip.File) error {
		if archive != zipPath {
			t.Errorf("archive = %s, want %s", archive, zipPath)
		}
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return visited
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{name: "styles/site.css", content: "a:hover{}"},
		zipEntry{name: "styles/print.css", content: "a{}"},
		zipEntry{name: "themes/dark.css", content: "b:hover{}"},
		zipEntry{name: "themes/light.css", content: "b{}"},
		zipEntry{name: "themes2/extra.css", content: "c{}"},
		zipEntry{name: "index.html", content: "<html>"},
	)

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"styles prefix", "styles/", []string{"styles/print.css", "styles/site.css"}},
		{"themes prefix", "themes", []string{"themes/dark.css", "themes/light.css"}},
		{"leading slash", "/themes/", []string{"themes/dark.css", "themes/light.css"}},
		{"backslashes", `themes\dark.css`, []string{"themes/dark.css"}},
		{"single file", "index.html", []string{"index.html"}},
		{"no match", "nonexistent/", nil},
		{"partial segment", "theme", nil},
		{"partial file name", "themes/dark", nil},
		{"empty prefix", "", []string{"index.html", "styles/print.css", "styles/site.css", "themes/dark.css", "themes/light.css", "themes2/extra.css"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, zipPath, tt.prefix)
			if !slices.Equal(got, tt.want) {
				t.Errorf("visited %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWalk_NaturalOrder(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{name: "css/part10.css"},
		zipEntry{name: "css/part2.css"},
		zipEntry{name: "css/part1.css"},
	)

	want := []string{"css/part1.css", "css/part2.css", "css/part10.css"}
	if got := collect(t, zipPath, "css/"); !slices.Equal(got, want) {
		t.Errorf("visited %q, want %q", got, want)
	}
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{name: "mydir/", dir: true},
		zipEntry{name: "mydir/file.css", content: "a{}"},
	)

	want := []string{"mydir/file.css"}
	if got := collect(t, zipPath, "mydir/"); !slices.Equal(got, want) {
		t.Errorf("visited %q, want %q (file only, not directory)", got, want)
	}
}

func TestWalk_UnsafePaths(t *testing.T) {
	for _, name := range []string{"../evil.css", "a/../../evil.css", "/abs/evil.css", `\win\evil.css`, `a\..\..\evil.css`} {
		t.Run(name, func(t *testing.T) {
			zipPath := makeZip(t,
				zipEntry{name: "good.css"},
				zipEntry{name: name},
			)
			visited := 0
			err := Walk(context.Background(), zipPath, "", func(string, *zip.File) error {
				visited++
				return nil
			})
			if err == nil {
				t.Error("Expected error for unsafe entry")
			}
			if visited != 0 {
				t.Errorf("visited %d files of unsafe archive", visited)
			}
		})
	}
}

func TestUnderPrefix(t *testing.T) {
	tests := []struct {
		name, prefix string
		want         bool
	}{
		{"themes/a.css", "", true},
		{"themes/a.css", "themes", true},
		{"themes/a.css", "themes/", true},
		{"themes2/a.css", "themes", false},
		{"themes/a.css", "themes/a.css", true},
		{"themes/a.css.bak", "themes/a.css", false},
	}

	for _, tt := range tests {
		if got := underPrefix(tt.name, tt.prefix); got != tt.want {
			t.Errorf("underPrefix(%q, %q) = %v, want %v", tt.name, tt.prefix, got, tt.want)
		}
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.css", true},
		{"dir/a.css", true},
		{"dir/..a.css", true},
		{"..", false},
		{"../a.css", false},
		{"dir/../../a.css", false},
		{"/a.css", false},
		{`\a.css`, false},
	}

	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	noop := func(string, *zip.File) error { return nil }

	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk(context.Background(), "/nonexistent/file.zip", "", noop); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		if err := Walk(context.Background(), invalidZip, "", noop); err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{name: "files/file1.css"},
		zipEntry{name: "files/file2.css"},
		zipEntry{name: "files/file3.css"},
	)

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(context.Background(), zipPath, "files/", func(string, *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})

	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_Cancelled(t *testing.T) {
	zipPath := makeZip(t, zipEntry{name: "a.css"}, zipEntry{name: "b.css"})

	ctx, cancel := context.WithCancel(context.Background())
	var visited int
	err := Walk(ctx, zipPath, "", func(string, *zip.File) error {
		visited++
		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Walk() error = %v, want context.Canceled", err)
	}
	if visited != 1 {
		t.Errorf("visited %d files, want 1", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := []byte("a:hover { color: red }")
	zipPath := makeZip(t, zipEntry{name: "test.css", content: string(content)})

	err := Walk(context.Background(), zipPath, "", func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}
		if !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("content = %s, want %s", buf.Bytes(), content)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}
