package folio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	s := FileStore{Path: filepath.Join(t.TempDir(), "folio", "token")}

	token, err := s.Load()
	if err != nil || token != "" {
		t.Fatalf("Load() on a missing file = %q, %v; want empty, nil", token, err)
	}

	if err := s.Save("abc.def.ghi"); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	info, err := os.Stat(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file mode = %v, want 0600", perm)
	}

	token, err = s.Load()
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("Load() = %q, %v; want %q, nil", token, err, "abc.def.ghi")
	}

	if err := s.Delete(); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := s.Delete(); err != nil {
		t.Errorf("Delete() twice unexpected error: %v", err)
	}
	token, _ = s.Load()
	if token != "" {
		t.Errorf("Load() after Delete() = %q, want empty", token)
	}
}

func TestMemoryStore(t *testing.T) {
	var s MemoryStore
	s.Save("t")
	if token, _ := s.Load(); token != "t" {
		t.Errorf("Load() = %q, want %q", token, "t")
	}
	s.Delete()
	if token, _ := s.Load(); token != "" {
		t.Errorf("Load() after Delete() = %q, want empty", token)
	}
}
