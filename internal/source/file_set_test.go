package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.lzr", []byte("hello world"), 0)
	id2 := fs.Add("test.lzr", []byte("hello universe"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("test.lzr")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("old version lost: %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Errorf("Get out of range must return nil")
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("buf", []byte("\xEF\xBB\xBFa\r\nb\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	want := FileVirtual | FileHadBOM | FileNormalizedCRLF
	if f.Flags != want {
		t.Fatalf("flags = %b, want %b", f.Flags, want)
	}
	if f.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", f.LineCount())
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x", []byte("ab\ncd\n\nef"))
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам '\n' принадлежит первой строке
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		got, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if got != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, got, tt.want)
		}
	}
	pos := fs.Position(Span{File: id, Start: 4, End: 5})
	if pos.Line != 2 || pos.Col != 2 || pos.Offset != 4 {
		t.Errorf("Position = %+v", pos)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x", []byte("first\nsecond\nthird")))
	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestSlice(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x", []byte("println(1)"))
	if got := fs.Slice(Span{File: id, Start: 0, End: 7}); got != "println" {
		t.Fatalf("Slice = %q", got)
	}
	if got := fs.Slice(Span{File: id, Start: 5, End: 99}); got != "" {
		t.Fatalf("out of range Slice = %q", got)
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.lzr")
	if err := os.WriteFile(path, []byte("a\r\nb"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f := fs.Get(id); string(f.Content) != "a\nb" || f.Flags&FileVirtual != 0 {
		t.Fatalf("unexpected file: %q flags=%b", f.Content, f.Flags)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.lzr")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
