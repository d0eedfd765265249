package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/pipeline"
)

// shortDatePattern matches bare MM/DD/YY acceptance dates from the sheet.
var shortDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)

func sortStableByCountDesc[T any](items []T, count func(T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		return count(items[i]) > count(items[j])
	})
}

// GetFinancialSummary computes the analytics money cards. A zero denominator
// yields a zero conversion rate, never NaN.
func (s *DashboardService) GetFinancialSummary(ctx context.Context) *domain.FinancialSummary {
	_, span := tracer.Start(ctx, "DashboardService.GetFinancialSummary")
	defer span.End()

	if cached, ok := s.cache.Get("financial"); ok {
		s.metrics.IncrCacheHit("analytics")
		return cached.(*domain.FinancialSummary)
	}
	s.metrics.IncrCacheMiss("analytics")

	out := &domain.FinancialSummary{}
	for i := range s.snap.Projects {
		p := &s.snap.Projects[i]

		if p.HasQuote() {
			out.QuotedCount++
			out.TotalQuoteValue += p.QuoteValue()
			// Pipeline value excludes anything with a deposit decision
			// recorded, even "Pending".
			if p.DepositPaid == nil || *p.DepositPaid == "" {
				out.PipelineValue += p.QuoteValue()
			}
		}
		if acceptedForConversion(p) {
			out.AcceptedCount++
			out.AcceptedValue += p.QuoteValue()
		}
	}

	if out.QuotedCount > 0 {
		out.AvgQuoteValue = out.TotalQuoteValue / float64(out.QuotedCount)
		out.ConversionRate = float64(out.AcceptedCount) / float64(out.QuotedCount) * 100
	}

	s.cache.Set("financial", out)
	return out
}

// acceptedForConversion is the conversion-rate notion of acceptance: an
// explicit "accepted" decision or a paid deposit.
func acceptedForConversion(p *domain.Project) bool {
	if p.DepositIsPaid() {
		return true
	}
	if p.QuoteAcceptedDeclined == nil {
		return false
	}
	return strings.EqualFold(*p.QuoteAcceptedDeclined, "accepted")
}

// GetQuoteByState sums quote value per state extracted from project names,
// top 10 by value, ties kept in encounter order.
func (s *DashboardService) GetQuoteByState(ctx context.Context) []domain.StateValue {
	_, span := tracer.Start(ctx, "DashboardService.GetQuoteByState")
	defer span.End()

	totals := make(map[string]float64)
	order := []string{}
	for i := range s.snap.Projects {
		p := &s.snap.Projects[i]
		if !p.HasQuote() {
			continue
		}
		state := pipeline.StateFromName(p.Name)
		if state == "" {
			continue
		}
		if _, seen := totals[state]; !seen {
			order = append(order, state)
		}
		totals[state] += p.QuoteValue()
	}

	out := make([]domain.StateValue, 0, len(order))
	for _, state := range order {
		out = append(out, domain.StateValue{State: state, Value: totals[state]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// GetStatusDistribution tallies projects by color status, falling back to
// the label and then "No Status". Top 8.
func (s *DashboardService) GetStatusDistribution(ctx context.Context) []domain.StatusCount {
	_, span := tracer.Start(ctx, "DashboardService.GetStatusDistribution")
	defer span.End()

	counts := make(map[string]int)
	order := []string{}
	for i := range s.snap.Projects {
		p := &s.snap.Projects[i]
		status := "No Status"
		if p.ColorStatus != nil && *p.ColorStatus != "" {
			status = *p.ColorStatus
		} else if p.Label != nil && *p.Label != "" {
			status = *p.Label
		}
		if _, seen := counts[status]; !seen {
			order = append(order, status)
		}
		counts[status]++
	}

	out := make([]domain.StatusCount, 0, len(order))
	for _, status := range order {
		out = append(out, domain.StatusCount{Name: status, Count: counts[status]})
	}
	sortStableByCountDesc(out, func(sc domain.StatusCount) int { return sc.Count })
	if len(out) > 8 {
		out = out[:8]
	}
	return out
}

// GetTrend splits the store (latest first) into six positional batches and
// reports them oldest first. A stand-in for a real date axis the source
// data never had.
func (s *DashboardService) GetTrend(ctx context.Context) []domain.TrendBucket {
	_, span := tracer.Start(ctx, "DashboardService.GetTrend")
	defer span.End()

	const buckets = 6
	n := len(s.snap.Projects)
	if n == 0 {
		return []domain.TrendBucket{}
	}
	bucketSize := (n + buckets - 1) / buckets

	trend := make([]domain.TrendBucket, 0, buckets)
	for i := 0; i < buckets; i++ {
		start := i * bucketSize
		end := start + bucketSize
		if start > n {
			start = n
		}
		if end > n {
			end = n
		}
		slice := s.snap.Projects[start:end]

		quoteValue := 0.0
		for j := range slice {
			quoteValue += slice[j].QuoteValue()
		}
		trend = append(trend, domain.TrendBucket{
			Period:     fmt.Sprintf("Batch %d", buckets-i),
			Projects:   len(slice),
			QuoteValue: quoteValue,
		})
	}

	// Reverse to chronological order, oldest batch first.
	for i, j := 0, len(trend)-1; i < j; i, j = i+1, j-1 {
		trend[i], trend[j] = trend[j], trend[i]
	}
	return trend
}

// GetCustomers rolls projects up per customer, sorted by project count
// descending with ties in encounter order.
func (s *DashboardService) GetCustomers(ctx context.Context) ([]domain.CustomerSummary, *domain.CustomerStats) {
	_, span := tracer.Start(ctx, "DashboardService.GetCustomers")
	defer span.End()

	byName := make(map[string]*domain.CustomerSummary)
	order := []string{}
	for i := range s.snap.Projects {
		p := &s.snap.Projects[i]
		if p.Customer == nil || *p.Customer == "" {
			continue
		}
		name := *p.Customer
		entry, ok := byName[name]
		if !ok {
			entry = &domain.CustomerSummary{Name: name}
			byName[name] = entry
			order = append(order, name)
		}
		entry.ProjectCount++
		entry.TotalQuoteValue += p.QuoteValue()
		entry.ProjectIDs = append(entry.ProjectIDs, p.ID)
	}

	customers := make([]domain.CustomerSummary, 0, len(order))
	stats := &domain.CustomerStats{}
	for _, name := range order {
		entry := byName[name]
		customers = append(customers, *entry)

		stats.TotalCustomers++
		stats.TotalQuoteValue += entry.TotalQuoteValue
		if entry.ProjectCount > 1 {
			stats.RepeatCustomers++
		}
		if stats.TopCustomer == nil || entry.TotalQuoteValue > stats.TopCustomer.TotalQuoteValue {
			top := *entry
			stats.TopCustomer = &top
		}
	}

	sortStableByCountDesc(customers, func(c domain.CustomerSummary) int { return c.ProjectCount })
	return customers, stats
}

// GetLeaderboard ranks projects by progress score, top 10, score descending
// with ties in store order. Zero-score projects are not ranked.
func (s *DashboardService) GetLeaderboard(ctx context.Context) []domain.LeaderboardEntry {
	_, span := tracer.Start(ctx, "DashboardService.GetLeaderboard")
	defer span.End()

	entries := make([]domain.LeaderboardEntry, 0, len(s.snap.Projects))
	for i := range s.snap.Projects {
		p := &s.snap.Projects[i]
		score := pipeline.ProgressScore(p)
		if score < 1 {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Score:       score,
			MaxScore:    pipeline.MaxProgressScore,
		})
	}
	sortStableByCountDesc(entries, func(e domain.LeaderboardEntry) int { return e.Score })
	if len(entries) > 10 {
		entries = entries[:10]
	}
	return entries
}
