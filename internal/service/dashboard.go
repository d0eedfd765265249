// Package service implements the dashboard use cases over the immutable
// snapshot: project listing, board classification, KPI and analytics
// reductions, deals, exports, favorites, and auth.
package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/infra/observability"
	"github.com/travisk/storage-dashboard-go/internal/infra/store"
	"github.com/travisk/storage-dashboard-go/internal/pipeline"
	"github.com/travisk/storage-dashboard-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service")

// DashboardService serves every read path of the dashboard. All methods are
// pure reductions over the snapshot; the heavier ones go through the TTL
// cache.
type DashboardService struct {
	snap    *store.Snapshot
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewDashboardService creates the service.
func NewDashboardService(snap *store.Snapshot, c port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		snap:    snap,
		cache:   c,
		metrics: metrics,
		logger:  logger,
	}
}

// Snapshot exposes the dataset the service was built over.
func (s *DashboardService) Snapshot() *store.Snapshot {
	return s.snap
}

// ListProjects returns projects in store order, optionally filtered by a
// case-insensitive search over name and customer and by label ("none"
// selects unlabeled projects).
func (s *DashboardService) ListProjects(ctx context.Context, search, label string) []domain.Project {
	_, span := tracer.Start(ctx, "DashboardService.ListProjects")
	defer span.End()

	out := make([]domain.Project, 0, len(s.snap.Projects))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, p := range s.snap.Projects {
		if needle != "" {
			name := strings.ToLower(p.Name)
			customer := ""
			if p.Customer != nil {
				customer = strings.ToLower(*p.Customer)
			}
			if !strings.Contains(name, needle) && !strings.Contains(customer, needle) {
				continue
			}
		}
		switch label {
		case "", "all":
		case "none":
			if p.Label != nil && *p.Label != "" {
				continue
			}
		default:
			if p.Label == nil || *p.Label != label {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// GetProject returns one project by id.
func (s *DashboardService) GetProject(ctx context.Context, id int) (*domain.Project, error) {
	_, span := tracer.Start(ctx, "DashboardService.GetProject")
	defer span.End()

	p := s.snap.ProjectByID(id)
	if p == nil {
		return nil, &domain.ErrNotFound{Resource: "project", ID: strconv.Itoa(id)}
	}
	return p, nil
}

// GetProjectStage classifies one project on demand.
func (s *DashboardService) GetProjectStage(ctx context.Context, id int) (*domain.ProjectStage, error) {
	_, span := tracer.Start(ctx, "DashboardService.GetProjectStage")
	defer span.End()

	p := s.snap.ProjectByID(id)
	if p == nil {
		return nil, &domain.ErrNotFound{Resource: "project", ID: strconv.Itoa(id)}
	}
	stage := pipeline.Classify(p)
	return &domain.ProjectStage{
		ProjectID: p.ID,
		Stage:     stage,
		Title:     stage.Title(),
		Category:  pipeline.Categorize(p),
	}, nil
}

// GetKanban classifies every project into its board column.
func (s *DashboardService) GetKanban(ctx context.Context) []domain.BoardColumn {
	_, span := tracer.Start(ctx, "DashboardService.GetKanban")
	defer span.End()

	byStage := make(map[domain.Stage][]domain.Project)
	for _, p := range s.snap.Projects {
		stage := pipeline.Classify(&p)
		byStage[stage] = append(byStage[stage], p)
	}

	columns := make([]domain.BoardColumn, 0, len(domain.BoardStages))
	for _, stage := range domain.BoardStages {
		projects := byStage[stage]
		if projects == nil {
			projects = []domain.Project{}
		}
		columns = append(columns, domain.BoardColumn{
			ID:       stage,
			Title:    stage.Title(),
			Projects: projects,
		})
	}
	return columns
}

// GetKPIs computes the dashboard KPI card values. Cached.
func (s *DashboardService) GetKPIs(ctx context.Context) *domain.KPIData {
	_, span := tracer.Start(ctx, "DashboardService.GetKPIs")
	defer span.End()

	if cached, ok := s.cache.Get("kpis"); ok {
		s.metrics.IncrCacheHit("analytics")
		return cached.(*domain.KPIData)
	}
	s.metrics.IncrCacheMiss("analytics")

	kpis := computeKPIs(s.snap.Projects)
	s.cache.Set("kpis", kpis)
	return kpis
}

// GetOverview assembles the landing payload. The three parts are independent
// reductions, so they run concurrently.
func (s *DashboardService) GetOverview(ctx context.Context) (*domain.Overview, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.GetOverview")
	defer span.End()

	var overview domain.Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		overview.KPIs = s.GetKPIs(gctx)
		return nil
	})
	g.Go(func() error {
		stats := s.snap.DealStats()
		overview.DealStats = &stats
		return nil
	})
	g.Go(func() error {
		overview.Leaderboard = s.GetLeaderboard(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

func computeKPIs(projects []domain.Project) *domain.KPIData {
	kpis := &domain.KPIData{TotalProjects: len(projects)}

	labelCounts := make(map[string]int)
	labelOrder := []string{}
	locationCounts := make(map[string]int)
	locationOrder := []string{}

	for i := range projects {
		p := &projects[i]

		switch {
		case p.Label != nil && *p.Label == pipeline.LabelNewLead:
			kpis.NewLeads++
		case p.Label != nil && *p.Label == pipeline.LabelActiveBid:
			kpis.ActiveBids++
		case p.Label != nil && *p.Label == pipeline.LabelActiveProject:
			kpis.ActiveProjects++
		}

		if p.ColorStatus != nil {
			cs := *p.ColorStatus
			if strings.Contains(cs, "Quotation") {
				kpis.Quotation++
			}
			if strings.Contains(cs, "Already Quoted") {
				kpis.AlreadyQuoted++
			}
			if strings.Contains(cs, "Needs Clarification") {
				kpis.NeedsClarification++
			}
			if strings.Contains(cs, "Ongoing Project") {
				kpis.OngoingProjects++
			}
		}

		if quoteAccepted(p) {
			kpis.QuotesAccepted++
		}
		if p.DepositIsPaid() {
			kpis.DepositsPaid++
		}
		kpis.TotalQuoteValue += p.QuoteValue()

		label := "No Status"
		if p.Label != nil && *p.Label != "" {
			label = *p.Label
		} else if p.ColorStatus != nil && *p.ColorStatus != "" {
			label = *p.ColorStatus
		}
		if _, seen := labelCounts[label]; !seen {
			labelOrder = append(labelOrder, label)
		}
		labelCounts[label]++

		location := ""
		if p.Location != nil && *p.Location != "" {
			location = *p.Location
		} else if st := pipeline.StateFromName(p.Name); st != "" {
			location = st
		}
		if location != "" {
			if _, seen := locationCounts[location]; !seen {
				locationOrder = append(locationOrder, location)
			}
			locationCounts[location]++
		}
	}

	for _, label := range labelOrder {
		kpis.ProjectsByLabel = append(kpis.ProjectsByLabel, domain.LabelCount{Label: label, Count: labelCounts[label]})
	}

	byLocation := make([]domain.LocationCount, 0, len(locationOrder))
	for _, loc := range locationOrder {
		byLocation = append(byLocation, domain.LocationCount{Location: loc, Count: locationCounts[loc]})
	}
	sortStableByCountDesc(byLocation, func(lc domain.LocationCount) int { return lc.Count })
	if len(byLocation) > 15 {
		byLocation = byLocation[:15]
	}
	kpis.ProjectsByLocation = byLocation

	return kpis
}

// quoteAccepted reports whether a quote decision counts as accepted for the
// KPI cards: an explicit "accepted" or a bare MM/DD/YY acceptance date.
func quoteAccepted(p *domain.Project) bool {
	if p.QuoteAcceptedDeclined == nil {
		return false
	}
	v := *p.QuoteAcceptedDeclined
	return strings.EqualFold(v, "accepted") || shortDatePattern.MatchString(v)
}
