package domain

// KPIData backs the dashboard KPI cards. All counts are pure reductions over
// the snapshot; re-running them against an unchanged snapshot yields
// identical values.
type KPIData struct {
	TotalProjects   int     `json:"totalProjects"`
	NewLeads        int     `json:"newLeads"`
	ActiveBids      int     `json:"activeBids"`
	ActiveProjects  int     `json:"activeProjects"`
	QuotesAccepted  int     `json:"quotesAccepted"`
	DepositsPaid    int     `json:"depositsPaid"`
	TotalQuoteValue float64 `json:"totalQuoteValue"`

	// Color-status tallies from the legacy sheet.
	Quotation          int `json:"quotation"`
	AlreadyQuoted      int `json:"alreadyQuoted"`
	NeedsClarification int `json:"needsClarification"`
	OngoingProjects    int `json:"ongoingProjects"`

	ProjectsByLabel    []LabelCount    `json:"projectsByLabel"`
	ProjectsByLocation []LocationCount `json:"projectsByLocation"`
}

// LabelCount is one bucket of the by-label/status grouping.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LocationCount is one bucket of the by-location grouping. Location falls
// back to a US state abbreviation extracted from the project name.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// FinancialSummary backs the analytics page money cards.
type FinancialSummary struct {
	TotalQuoteValue float64 `json:"totalQuoteValue"`
	AvgQuoteValue   float64 `json:"avgQuoteValue"`
	AcceptedValue   float64 `json:"acceptedValue"`
	PipelineValue   float64 `json:"pipelineValue"`
	ConversionRate  float64 `json:"conversionRate"`
	QuotedCount     int     `json:"quotedCount"`
	AcceptedCount   int     `json:"acceptedCount"`
}

// StateValue is quote value summed per extracted US state.
type StateValue struct {
	State string  `json:"state"`
	Value float64 `json:"value"`
}

// StatusCount is one slice of the status distribution pie.
type StatusCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TrendBucket is one position-based batch of the volume trend chart.
type TrendBucket struct {
	Period     string  `json:"period"`
	Projects   int     `json:"projects"`
	QuoteValue float64 `json:"quoteValue"`
}

// CustomerSummary is the per-customer roll-up for the customers page.
type CustomerSummary struct {
	Name            string  `json:"name"`
	ProjectCount    int     `json:"projectCount"`
	TotalQuoteValue float64 `json:"totalQuoteValue"`
	ProjectIDs      []int   `json:"projectIds"`
}

// CustomerStats summarizes the customer roll-ups.
type CustomerStats struct {
	TotalCustomers  int              `json:"totalCustomers"`
	RepeatCustomers int              `json:"repeatCustomers"`
	TopCustomer     *CustomerSummary `json:"topCustomer"`
	TotalQuoteValue float64          `json:"totalQuoteValue"`
}

// LeaderboardEntry is one ranked row of the progress leaderboard.
type LeaderboardEntry struct {
	ProjectID   int    `json:"projectId"`
	ProjectName string `json:"projectName"`
	Score       int    `json:"score"`
	MaxScore    int    `json:"maxScore"`
}

// Overview bundles the dashboard landing payload.
type Overview struct {
	KPIs        *KPIData           `json:"kpis"`
	DealStats   *DealStats         `json:"dealStats"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// BoardColumn is one kanban column with its classified projects.
type BoardColumn struct {
	ID       Stage     `json:"id"`
	Title    string    `json:"title"`
	Projects []Project `json:"projects"`
}

// OpsSnapshot is the JSON operational metrics view served next to the
// Prometheus endpoint.
type OpsSnapshot struct {
	RequestsTotal    int64   `json:"requestsTotal"`
	ExportsGenerated int64   `json:"exportsGenerated"`
	CacheHitRate     float64 `json:"cacheHitRate"`
	DatasetErrors    int64   `json:"datasetErrors"`
	Period           string  `json:"period"`
}
