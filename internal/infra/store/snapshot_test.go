package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/travisk/storage-dashboard-go/internal/domain"
)

func TestLoadEmbeddedSeed(t *testing.T) {
	projects, err := LoadProjects("")
	if err != nil {
		t.Fatalf("LoadProjects: %v", err)
	}
	if len(projects) == 0 {
		t.Fatal("expected embedded projects")
	}

	book, err := LoadDealBook()
	if err != nil {
		t.Fatalf("LoadDealBook: %v", err)
	}
	if len(book.Active) == 0 || len(book.Hot) == 0 || len(book.Warm) == 0 {
		t.Fatalf("expected all three deal categories, got %d/%d/%d",
			len(book.Active), len(book.Hot), len(book.Warm))
	}
}

func TestNewSnapshot(t *testing.T) {
	projects, err := LoadProjects("")
	if err != nil {
		t.Fatal(err)
	}
	book, err := LoadDealBook()
	if err != nil {
		t.Fatal(err)
	}

	snap := NewSnapshot(projects, book)

	t.Run("id index resolves every project", func(t *testing.T) {
		for _, p := range snap.Projects {
			got := snap.ProjectByID(p.ID)
			if got == nil || got.Name != p.Name {
				t.Fatalf("ProjectByID(%d) = %v", p.ID, got)
			}
		}
		if snap.ProjectByID(-1) != nil {
			t.Error("expected nil for unknown id")
		}
	})

	t.Run("deal order is active then hot then warm", func(t *testing.T) {
		want := len(book.Active) + len(book.Hot) + len(book.Warm)
		if len(snap.Deals) != want {
			t.Fatalf("got %d deals, want %d", len(snap.Deals), want)
		}
		if snap.Deals[0].Category != domain.DealActive {
			t.Errorf("first deal category = %s", snap.Deals[0].Category)
		}
		if snap.Deals[len(snap.Deals)-1].Category != domain.DealWarm {
			t.Errorf("last deal category = %s", snap.Deals[len(snap.Deals)-1].Category)
		}
	})

	t.Run("known seed deal matches its project", func(t *testing.T) {
		for _, d := range snap.DealsByCategory(domain.DealActive) {
			if d.Name == "Knoxville Expansion" {
				if !d.Matched() {
					t.Fatal("Knoxville Expansion should match the seeded project")
				}
				if *d.MatchedProjectName != "Knoxville Expansion TN" {
					t.Errorf("matched name = %q", *d.MatchedProjectName)
				}
				return
			}
		}
		t.Fatal("Knoxville Expansion deal not found")
	})

	t.Run("stats add up", func(t *testing.T) {
		stats := snap.DealStats()
		if stats.Total != len(snap.Deals) {
			t.Errorf("total = %d", stats.Total)
		}
		if stats.Matched+stats.Unmatched != stats.Total {
			t.Errorf("matched %d + unmatched %d != total %d", stats.Matched, stats.Unmatched, stats.Total)
		}
		if stats.Active+stats.Hot+stats.Warm != stats.Total {
			t.Errorf("category counts do not sum to total")
		}
	})
}

func TestLoadProjectsRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"projectName":"A"},{"id":1,"projectName":"B"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProjects(path); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
