package store

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/travisk/storage-dashboard-go/internal/domain"
)

//go:embed seed/projects.json seed/deals.json
var seedFS embed.FS

// LoadProjects reads the project dataset. With an empty path it uses the
// embedded seed; otherwise it reads the given JSON file (same schema).
func LoadProjects(path string) ([]domain.Project, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = seedFS.ReadFile("seed/projects.json")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read projects dataset: %w", err)
	}

	var projects []domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("parse projects dataset: %w", err)
	}

	seen := make(map[int]bool, len(projects))
	for _, p := range projects {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate project id %d in dataset", p.ID)
		}
		seen[p.ID] = true
	}
	return projects, nil
}

// LoadDealBook reads the embedded deal configuration.
func LoadDealBook() (DealBook, error) {
	var book DealBook
	data, err := seedFS.ReadFile("seed/deals.json")
	if err != nil {
		return book, fmt.Errorf("read deal book: %w", err)
	}
	if err := json.Unmarshal(data, &book); err != nil {
		return book, fmt.Errorf("parse deal book: %w", err)
	}

	for _, cat := range []struct {
		name  domain.DealCategory
		seeds []domain.DealSeed
	}{
		{domain.DealActive, book.Active},
		{domain.DealHot, book.Hot},
		{domain.DealWarm, book.Warm},
	} {
		for _, seed := range cat.seeds {
			if seed.Name == "" {
				return book, fmt.Errorf("%s deal with empty name", cat.name)
			}
		}
	}
	return book, nil
}
