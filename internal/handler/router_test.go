package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/handler"
	"github.com/travisk/storage-dashboard-go/internal/infra/cache"
	"github.com/travisk/storage-dashboard-go/internal/infra/observability"
	"github.com/travisk/storage-dashboard-go/internal/infra/store"
	"github.com/travisk/storage-dashboard-go/internal/service"
)

type memFavoritesStore struct {
	ids []int
}

func (m *memFavoritesStore) Load() ([]int, error) { return m.ids, nil }

func (m *memFavoritesStore) Save(ids []int) error {
	m.ids = append([]int(nil), ids...)
	return nil
}

// newTestRouter builds a router over the embedded seed dataset.
func newTestRouter(t *testing.T, authSvc *service.AuthService) http.Handler {
	t.Helper()

	projects, err := store.LoadProjects("")
	if err != nil {
		t.Fatalf("load projects: %v", err)
	}
	book, err := store.LoadDealBook()
	if err != nil {
		t.Fatalf("load deal book: %v", err)
	}
	snap := store.NewSnapshot(projects, book)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	svc := service.NewDashboardService(snap, cache.New[any](time.Minute), metrics, logger)
	exportSvc := service.NewExportService(snap, metrics, logger, "")
	favSvc := service.NewFavoritesService(&memFavoritesStore{}, snap, logger)

	return handler.NewRouter(svc, exportSvc, favSvc, authSvc, metrics, logger)
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/readyz")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestListProjects(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/v1/projects")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Projects []domain.Project `json:"projects"`
		Total    int              `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total == 0 || len(resp.Projects) != resp.Total {
		t.Errorf("total = %d, projects = %d", resp.Total, len(resp.Projects))
	}

	rec = doGet(t, router, "/v1/projects?search=knoxville")
	var filtered struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&filtered); err != nil {
		t.Fatal(err)
	}
	if filtered.Total == 0 || filtered.Total >= resp.Total {
		t.Errorf("search should narrow the list, got %d of %d", filtered.Total, resp.Total)
	}
}

func TestGetProject(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/v1/projects/345")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var p domain.Project
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.ID != 345 {
		t.Errorf("id = %d, want 345", p.ID)
	}

	if rec := doGet(t, router, "/v1/projects/999999"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", rec.Code)
	}
	if rec := doGet(t, router, "/v1/projects/abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: expected 400, got %d", rec.Code)
	}
}

func TestGetProjectStage(t *testing.T) {
	router := newTestRouter(t, nil)

	// Seed project 345 has a paid deposit, which wins over everything else.
	rec := doGet(t, router, "/v1/projects/345/stage")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stage domain.ProjectStage
	if err := json.NewDecoder(rec.Body).Decode(&stage); err != nil {
		t.Fatal(err)
	}
	if stage.Stage != domain.StageDepositPaid {
		t.Errorf("stage = %s, want %s", stage.Stage, domain.StageDepositPaid)
	}
	if stage.Category != domain.CategoryDepositPaid {
		t.Errorf("category = %s, want %s", stage.Category, domain.CategoryDepositPaid)
	}

	if rec := doGet(t, router, "/v1/projects/999999/stage"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", rec.Code)
	}
}

func TestListProjects_DepositAndLimit(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/v1/projects?deposit=paid")
	var paid struct {
		Projects []domain.Project `json:"projects"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&paid); err != nil {
		t.Fatal(err)
	}
	if len(paid.Projects) == 0 {
		t.Fatal("expected at least one paid-deposit project in the seed")
	}
	for _, p := range paid.Projects {
		if !p.DepositIsPaid() {
			t.Errorf("project %d has no paid deposit", p.ID)
		}
	}

	rec = doGet(t, router, "/v1/projects?limit=3")
	var limited struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&limited); err != nil {
		t.Fatal(err)
	}
	if limited.Total != 3 {
		t.Errorf("limit=3 returned %d projects", limited.Total)
	}
}

func TestCustomersSearch(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/v1/customers?search=titan")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Customers []domain.CustomerSummary `json:"customers"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Customers) == 0 {
		t.Fatal("expected a match for titan in the seed")
	}
	for _, c := range resp.Customers {
		if !strings.Contains(strings.ToLower(c.Name), "titan") {
			t.Errorf("unexpected customer %q", c.Name)
		}
	}
}

func TestKanban(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/v1/kanban")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Columns []domain.BoardColumn `json:"columns"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Columns) != len(domain.BoardStages) {
		t.Errorf("columns = %d, want %d", len(resp.Columns), len(domain.BoardStages))
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{
		"/v1/kpis",
		"/v1/overview",
		"/v1/analytics/financial",
		"/v1/analytics/quote-by-state",
		"/v1/analytics/status-distribution",
		"/v1/analytics/trend",
		"/v1/customers",
		"/v1/deals/stats",
		"/v1/metrics/summary",
	} {
		if rec := doGet(t, router, path); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d. Body: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestListDeals(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/v1/deals?category=hot")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Deals []domain.Deal `json:"deals"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	for _, d := range resp.Deals {
		if d.Category != domain.DealHot {
			t.Errorf("deal %s has category %s", d.ID, d.Category)
		}
	}

	if rec := doGet(t, router, "/v1/deals?category=cold"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category: expected 400, got %d", rec.Code)
	}
}

func TestExportProjects(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doGet(t, router, "/v1/export/projects?groupBy=year")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Export-ID") == "" {
		t.Error("missing X-Export-ID header")
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Storage_Materials_Export_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	// xlsx is a zip archive.
	if body := rec.Body.Bytes(); len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Error("response body is not an xlsx archive")
	}

	if rec := doGet(t, router, "/v1/export/projects?groupBy=weekday"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad groupBy: expected 400, got %d", rec.Code)
	}
}

func TestFavoritesFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/favorites/345/toggle", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var toggled struct {
		ProjectID int  `json:"projectId"`
		Starred   bool `json:"starred"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&toggled); err != nil {
		t.Fatal(err)
	}
	if !toggled.Starred {
		t.Error("first toggle should star the project")
	}

	rec = doGet(t, router, "/v1/favorites")
	var list struct {
		Favorites []int `json:"favorites"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Favorites) != 1 || list.Favorites[0] != 345 {
		t.Errorf("favorites = %v, want [345]", list.Favorites)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/favorites/345", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}

	// Clearing an already-empty set is fine.
	req = httptest.NewRequest(http.MethodDelete, "/v1/favorites", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("clear: expected 204, got %d", rec.Code)
	}
}

func TestFavorites_RequireAuthWhenEnabled(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	authSvc := service.NewAuthService(string(hash), "router-test-secret", time.Minute, zap.NewNop())
	router := newTestRouter(t, authSvc)

	// Mutations are rejected without a token.
	req := httptest.NewRequest(http.MethodPost, "/v1/favorites/345/toggle", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// Reads stay open.
	if rec := doGet(t, router, "/v1/favorites"); rec.Code != http.StatusOK {
		t.Errorf("list should not require auth, got %d", rec.Code)
	}

	// Login, then retry with the token.
	body, _ := json.Marshal(domain.LoginRequest{Password: "secret-pw"})
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var login domain.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&login); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/favorites/345/toggle", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authorized toggle: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthDisabled(t *testing.T) {
	router := newTestRouter(t, nil)

	body, _ := json.Marshal(domain.LoginRequest{Password: "anything"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when auth is disabled, got %d", rec.Code)
	}
}
