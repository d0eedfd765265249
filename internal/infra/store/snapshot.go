// Package store builds the immutable in-memory snapshot the whole dashboard
// reads from: the project list, an id index, and the matched deal sheet.
package store

import (
	"time"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/pipeline"
)

// DealBook is the hand-authored deal configuration, grouped by category.
type DealBook struct {
	Active []domain.DealSeed `json:"active"`
	Hot    []domain.DealSeed `json:"hot"`
	Warm   []domain.DealSeed `json:"warm"`
}

// Snapshot is the read-only dataset constructed once at startup (or on a
// remote refresh) and shared by reference with every service. Nothing
// mutates it after construction.
type Snapshot struct {
	Projects []domain.Project
	Deals    []domain.Deal
	BuiltAt  time.Time

	byID map[int]*domain.Project
}

// NewSnapshot indexes the projects and runs the deal matcher. Deal order is
// active, then hot, then warm, each in seed order.
func NewSnapshot(projects []domain.Project, book DealBook) *Snapshot {
	s := &Snapshot{
		Projects: projects,
		BuiltAt:  time.Now().UTC(),
		byID:     make(map[int]*domain.Project, len(projects)),
	}
	for i := range projects {
		s.byID[projects[i].ID] = &projects[i]
	}

	s.Deals = append(s.Deals, pipeline.BuildDeals(domain.DealActive, book.Active, projects)...)
	s.Deals = append(s.Deals, pipeline.BuildDeals(domain.DealHot, book.Hot, projects)...)
	s.Deals = append(s.Deals, pipeline.BuildDeals(domain.DealWarm, book.Warm, projects)...)
	return s
}

// ProjectByID returns the project with the given id, or nil.
func (s *Snapshot) ProjectByID(id int) *domain.Project {
	return s.byID[id]
}

// DealsByCategory returns the deals of one category in seed order.
func (s *Snapshot) DealsByCategory(cat domain.DealCategory) []domain.Deal {
	var out []domain.Deal
	for _, d := range s.Deals {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// DealStats computes the deal-sheet summary counters.
func (s *Snapshot) DealStats() domain.DealStats {
	stats := domain.DealStats{Total: len(s.Deals)}
	for _, d := range s.Deals {
		switch d.Category {
		case domain.DealActive:
			stats.Active++
		case domain.DealHot:
			stats.Hot++
		case domain.DealWarm:
			stats.Warm++
		}
		if d.Matched() {
			stats.Matched++
		} else {
			stats.Unmatched++
		}
	}
	if stats.Total > 0 {
		stats.MatchRate = float64(stats.Matched) / float64(stats.Total) * 100
	}
	return stats
}
