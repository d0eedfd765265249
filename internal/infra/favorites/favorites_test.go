package favorites_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/travisk/storage-dashboard-go/internal/infra/favorites"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := favorites.NewFileStore(filepath.Join(t.TempDir(), "favorites.json"))

	ids, err := s.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty list, got %v", ids)
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	s := favorites.NewFileStore(filepath.Join(t.TempDir(), "favorites.json"))

	if err := s.Save([]int{3, 1, 7}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ids, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 7 {
		t.Errorf("expected [3 1 7], got %v", ids)
	}
}

func TestFileStore_MalformedContentResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	if err := os.WriteFile(path, []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := favorites.NewFileStore(path)
	ids, err := s.Load()
	if err != nil {
		t.Fatalf("expected corrupt content to be discarded, got %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty list, got %v", ids)
	}
}

func TestFileStore_SaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	s := favorites.NewFileStore(path)

	if err := s.Save(nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected '[]', got %q", string(data))
	}
}
