package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/infra/observability"
	"github.com/travisk/storage-dashboard-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the dashboard frontend.
func NewRouter(svc *service.DashboardService, exportSvc *service.ExportService, favSvc *service.FavoritesService, authSvc *service.AuthService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(MetricsMiddleware(metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. Projects & kanban board
		// =============================================
		r.Get("/projects", listProjectsHandler(svc))
		r.Get("/projects/{projectID}", getProjectHandler(svc, logger))
		r.Get("/projects/{projectID}/stage", getProjectStageHandler(svc, logger))
		r.Get("/kanban", kanbanHandler(svc))

		// =============================================
		// 2. KPIs & overview
		// =============================================
		r.Get("/kpis", kpisHandler(svc))
		r.Get("/overview", overviewHandler(svc, logger))

		// =============================================
		// 3. Analytics
		// =============================================
		r.Get("/analytics/financial", financialHandler(svc))
		r.Get("/analytics/quote-by-state", quoteByStateHandler(svc))
		r.Get("/analytics/status-distribution", statusDistributionHandler(svc))
		r.Get("/analytics/trend", trendHandler(svc))

		// =============================================
		// 4. Customers & deals
		// =============================================
		r.Get("/customers", customersHandler(svc))
		r.Get("/deals", listDealsHandler(svc, logger))
		r.Get("/deals/stats", dealStatsHandler(svc))

		// =============================================
		// 5. Excel export
		// =============================================
		r.Get("/export/projects", exportProjectsHandler(exportSvc, logger))

		// =============================================
		// 6. Service metrics
		// =============================================
		r.Get("/metrics/summary", opsSummaryHandler(metrics))

		// =============================================
		// 7. Favorites
		// =============================================
		r.Get("/favorites", listFavoritesHandler(favSvc))
		r.Group(func(r chi.Router) {
			if authSvc != nil {
				r.Use(JWTAuthMiddleware(authSvc, logger))
			}
			r.Post("/favorites/{projectID}/toggle", toggleFavoriteHandler(favSvc, logger))
			r.Put("/favorites/{projectID}", addFavoriteHandler(favSvc, logger))
			r.Delete("/favorites/{projectID}", removeFavoriteHandler(favSvc, logger))
			r.Delete("/favorites", clearFavoritesHandler(favSvc))
		})

		// =============================================
		// 8. Authentication
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			if authSvc == nil {
				r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusServiceUnavailable, "auth is not enabled")
				}))
				return
			}
			r.Post("/login", loginHandler(authSvc, logger))
		})
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "healthy",
			"projects": len(snap.Projects),
			"built_at": snap.BuiltAt.Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// ============================================================
// 1. Projects — GET /v1/projects, /v1/projects/{projectID}, /v1/kanban
// ============================================================

func listProjectsHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/projects")
		defer span.End()

		search := r.URL.Query().Get("search")
		label := r.URL.Query().Get("label")
		projects := svc.ListProjects(ctx, search, label)

		// Filter by deposit status if provided — e.g. ?deposit=paid
		if deposit := r.URL.Query().Get("deposit"); deposit != "" {
			wantPaid := deposit == "paid"
			filtered := make([]domain.Project, 0, len(projects))
			for _, p := range projects {
				if p.DepositIsPaid() == wantPaid {
					filtered = append(filtered, p)
				}
			}
			projects = filtered
		}

		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit < len(projects) {
				projects = projects[:limit]
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"projects": projects,
			"total":    len(projects),
		})
	}
}

func getProjectHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/projects/{projectID}")
		defer span.End()

		id, err := strconv.Atoi(chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "project id must be numeric")
			return
		}
		span.SetAttributes(attribute.Int("project.id", id))

		project, err := svc.GetProject(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, project)
	}
}

func getProjectStageHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/projects/{projectID}/stage")
		defer span.End()

		id, err := strconv.Atoi(chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "project id must be numeric")
			return
		}

		stage, err := svc.GetProjectStage(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, stage)
	}
}

func kanbanHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/kanban")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{"columns": svc.GetKanban(ctx)})
	}
}

// ============================================================
// 2. KPIs & overview
// ============================================================

func kpisHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/kpis")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.GetKPIs(ctx))
	}
}

func overviewHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/overview")
		defer span.End()

		overview, err := svc.GetOverview(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}

// ============================================================
// 3. Analytics
// ============================================================

func financialHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/financial")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.GetFinancialSummary(ctx))
	}
}

func quoteByStateHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/quote-by-state")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{"states": svc.GetQuoteByState(ctx)})
	}
}

func statusDistributionHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/status-distribution")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{"statuses": svc.GetStatusDistribution(ctx)})
	}
}

func trendHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/trend")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{"trend": svc.GetTrend(ctx)})
	}
}

// ============================================================
// 4. Customers & deals
// ============================================================

func customersHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers")
		defer span.End()

		customers, stats := svc.GetCustomers(ctx)

		// Filter by name if provided — e.g. ?search=titan
		if search := strings.ToLower(r.URL.Query().Get("search")); search != "" {
			filtered := make([]domain.CustomerSummary, 0, len(customers))
			for _, c := range customers {
				if strings.Contains(strings.ToLower(c.Name), search) {
					filtered = append(filtered, c)
				}
			}
			customers = filtered
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"customers": customers,
			"stats":     stats,
		})
	}
}

func listDealsHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/deals")
		defer span.End()

		category := r.URL.Query().Get("category")
		if category != "" {
			span.SetAttributes(attribute.String("deal.category", category))
		}

		deals, err := svc.ListDeals(ctx, category)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"deals": deals,
			"total": len(deals),
		})
	}
}

func dealStatsHandler(svc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/deals/stats")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.GetDealStats(ctx))
	}
}

// ============================================================
// 5. Excel export — GET /v1/export/projects?groupBy=category|year
// ============================================================

func exportProjectsHandler(exportSvc *service.ExportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/export/projects")
		defer span.End()

		groupBy := r.URL.Query().Get("groupBy")
		result, err := exportSvc.GenerateProjects(ctx, groupBy)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
		w.Header().Set("X-Export-ID", result.ID)
		w.WriteHeader(http.StatusOK)
		w.Write(result.Data)
	}
}

// ============================================================
// 6. Service metrics — GET /v1/metrics/summary
// ============================================================

func opsSummaryHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}

// ============================================================
// 7. Favorites
// ============================================================

func listFavoritesHandler(favSvc *service.FavoritesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/favorites")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{"favorites": favSvc.List(ctx)})
	}
}

func toggleFavoriteHandler(favSvc *service.FavoritesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/favorites/{projectID}/toggle")
		defer span.End()

		id, err := strconv.Atoi(chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "project id must be numeric")
			return
		}

		starred, err := favSvc.Toggle(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"projectId": id,
			"starred":   starred,
		})
	}
}

func addFavoriteHandler(favSvc *service.FavoritesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/favorites/{projectID}")
		defer span.End()

		id, err := strconv.Atoi(chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "project id must be numeric")
			return
		}

		if err := favSvc.Add(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func removeFavoriteHandler(favSvc *service.FavoritesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/favorites/{projectID}")
		defer span.End()

		id, err := strconv.Atoi(chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "project id must be numeric")
			return
		}

		if err := favSvc.Remove(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func clearFavoritesHandler(favSvc *service.FavoritesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/favorites")
		defer span.End()

		favSvc.Clear(ctx)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// 8. Authentication — POST /v1/auth/login
// ============================================================

func loginHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := authSvc.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
