package filestore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestLoadJSONMissingFile(t *testing.T) {
	s := newStore(t)

	var dest []string
	status, err := s.LoadJSON("absent.json", &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusMissing {
		t.Fatalf("status = %q, want %q", status, StatusMissing)
	}
	if dest != nil {
		t.Fatalf("dest mutated: %v", dest)
	}
}

func TestLoadJSONEmptyFile(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), "empty.json"), []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var dest []string
	status, err := s.LoadJSON("empty.json", &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusEmpty {
		t.Fatalf("status = %q, want %q", status, StatusEmpty)
	}
}

func TestLoadJSONStripsBOM(t *testing.T) {
	s := newStore(t)
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`["a","b"]`)...)
	if err := os.WriteFile(filepath.Join(s.Dir(), "bom.json"), payload, 0o644); err != nil {
		t.Fatal(err)
	}

	var dest []string
	status, err := s.LoadJSON("bom.json", &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusOK || len(dest) != 2 || dest[0] != "a" {
		t.Fatalf("got status %q dest %v", status, dest)
	}
}

func TestLoadJSONMalformed(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte(`{"oops`), 0o644); err != nil {
		t.Fatal(err)
	}

	var dest map[string]string
	if _, err := s.LoadJSON("bad.json", &dest); err == nil {
		t.Fatal("expected decode error for malformed JSON")
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	s := newStore(t)

	in := []map[string]string{{"k": "v"}}
	if err := s.SaveJSON("doc.json", in); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(s.Dir(), "doc.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "  ") || !strings.HasSuffix(string(raw), "\n") {
		t.Fatalf("document not pretty-printed: %q", raw)
	}

	var out []map[string]string
	status, err := s.LoadJSON("doc.json", &out)
	if err != nil || status != StatusOK {
		t.Fatalf("LoadJSON: status %q err %v", status, err)
	}
	if len(out) != 1 || out[0]["k"] != "v" {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	s := newStore(t)
	for _, key := range []string{"", "../escape.json", "sub/child.json", ".hidden"} {
		if _, err := s.Path(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Path(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
	if _, err := s.Path("NMC_S001.json"); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
}

func TestWithLockSerializes(t *testing.T) {
	s := newStore(t)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithLock("shared.json", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
}
