package service

import (
	"context"

	"github.com/travisk/storage-dashboard-go/internal/domain"
)

// ListDeals returns the deal sheet, optionally filtered to one category.
func (s *DashboardService) ListDeals(ctx context.Context, category string) ([]domain.Deal, error) {
	_, span := tracer.Start(ctx, "DashboardService.ListDeals")
	defer span.End()

	if category == "" || category == "all" {
		return s.snap.Deals, nil
	}

	cat := domain.DealCategory(category)
	if !cat.Valid() {
		return nil, &domain.ErrValidation{Field: "category", Message: "must be one of active, hot, warm"}
	}
	return s.snap.DealsByCategory(cat), nil
}

// GetDealStats summarizes the deal sheet.
func (s *DashboardService) GetDealStats(ctx context.Context) domain.DealStats {
	_, span := tracer.Start(ctx, "DashboardService.GetDealStats")
	defer span.End()

	return s.snap.DealStats()
}
