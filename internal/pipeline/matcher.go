package pipeline

import (
	"fmt"
	"strings"

	"github.com/travisk/storage-dashboard-go/internal/domain"
)

// MatchDeal links one deal to a project by name. Candidate substrings are
// tried in the order given; for each candidate the store is scanned in order
// and the first project whose name contains the candidate (case-insensitive)
// wins. Returns nil when nothing matches, which is a valid terminal result
// ("Not in Database"), not an error.
func MatchDeal(candidates []string, projects []domain.Project) *domain.Project {
	for _, term := range candidates {
		needle := strings.ToLower(term)
		for i := range projects {
			if strings.Contains(strings.ToLower(projects[i].Name), needle) {
				return &projects[i]
			}
		}
	}
	return nil
}

// BuildDeals materializes the deal list for one category, assigning composite
// ids ("<category>-<index>") and running the matcher against the store. A
// project may be claimed by more than one deal; that is not flagged.
func BuildDeals(category domain.DealCategory, seeds []domain.DealSeed, projects []domain.Project) []domain.Deal {
	deals := make([]domain.Deal, 0, len(seeds))
	for i, seed := range seeds {
		d := domain.Deal{
			ID:            fmt.Sprintf("%s-%d", category, i),
			Name:          seed.Name,
			Contact:       seed.Contact,
			Notes:         seed.Notes,
			ExpectedStart: seed.ExpectedStart,
			Category:      category,
		}
		if match := MatchDeal(seed.Search, projects); match != nil {
			id := match.ID
			name := match.Name
			d.MatchedProjectID = &id
			d.MatchedProjectName = &name
		}
		deals = append(deals, d)
	}
	return deals
}
