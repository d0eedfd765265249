package pipeline

import (
	"testing"

	"github.com/travisk/storage-dashboard-go/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		project  domain.Project
		stage    domain.Stage
		category domain.ExportCategory
	}{
		{
			name:     "deposit paid wins over red color status",
			project:  domain.Project{ID: 1, Name: "A", DepositPaid: strPtr("Paid"), ColorStatus: strPtr("Red - Needs Clarification")},
			stage:    domain.StageDepositPaid,
			category: domain.CategoryDepositPaid,
		},
		{
			name:     "accepted quote case-insensitive",
			project:  domain.Project{ID: 2, Name: "B", QuoteAcceptedDeclined: strPtr("ACCEPTED 01/15/25")},
			stage:    domain.StageAccepted,
			category: domain.CategoryAccepted,
		},
		{
			name:     "active project label",
			project:  domain.Project{ID: 3, Name: "C", Label: strPtr(LabelActiveProject)},
			stage:    domain.StageInProgress,
			category: domain.CategoryActiveProject,
		},
		{
			name:     "metal production present means ongoing",
			project:  domain.Project{ID: 4, Name: "D", MetalProduction: strPtr("In Production")},
			stage:    domain.StageInProgress,
			category: domain.CategoryOngoing,
		},
		{
			name:     "brown color status means ongoing",
			project:  domain.Project{ID: 5, Name: "E", ColorStatus: strPtr("Brown - Ongoing Project")},
			stage:    domain.StageInProgress,
			category: domain.CategoryOngoing,
		},
		{
			name:     "quote sent means quoted",
			project:  domain.Project{ID: 6, Name: "F", QuoteSent: true},
			stage:    domain.StageQuoted,
			category: domain.CategoryActiveBid,
		},
		{
			name:     "green color status means quoted",
			project:  domain.Project{ID: 7, Name: "G", ColorStatus: strPtr("Green - Already Quoted")},
			stage:    domain.StageQuoted,
			category: domain.CategoryActiveBid,
		},
		{
			name:     "reached out means new lead",
			project:  domain.Project{ID: 8, Name: "H", ReachedOut: true},
			stage:    domain.StageNewLead,
			category: domain.CategoryNewLead,
		},
		{
			name:     "red color status alone needs attention",
			project:  domain.Project{ID: 9, Name: "I", ColorStatus: strPtr("Red - Needs Clarification")},
			stage:    domain.StageNeedsAttention,
			category: domain.CategoryNeedsClarify,
		},
		{
			name:     "customer only falls back to new lead",
			project:  domain.Project{ID: 10, Name: "J", Customer: strPtr("Acme")},
			stage:    domain.StageNewLead,
			category: domain.CategoryNewLead,
		},
		{
			name:     "empty record has no status",
			project:  domain.Project{ID: 11, Name: "K"},
			stage:    domain.StageNoStatus,
			category: domain.CategoryNoStatus,
		},
		{
			name:     "deposit paid wins over everything at once",
			project:  domain.Project{ID: 12, Name: "L", DepositPaid: strPtr("Paid"), QuoteSent: true, ReachedOut: true, Label: strPtr(LabelActiveBid), ColorStatus: strPtr("Yellow - Quotation")},
			stage:    domain.StageDepositPaid,
			category: domain.CategoryDepositPaid,
		},
		{
			name:     "deposit pending does not count as paid",
			project:  domain.Project{ID: 13, Name: "M", DepositPaid: strPtr("Pending"), QuoteSent: true},
			stage:    domain.StageQuoted,
			category: domain.CategoryActiveBid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(&tt.project); got != tt.stage {
				t.Errorf("Classify() = %q, want %q", got, tt.stage)
			}
			if got := Categorize(&tt.project); got != tt.category {
				t.Errorf("Categorize() = %q, want %q", got, tt.category)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	p := domain.Project{ID: 1, Name: "Repeat", QuoteSent: true, ColorStatus: strPtr("Red")}
	first := Classify(&p)
	for i := 0; i < 10; i++ {
		if got := Classify(&p); got != first {
			t.Fatalf("run %d: Classify() = %q, want %q", i, got, first)
		}
	}
}

func TestRulesCoverEveryProject(t *testing.T) {
	// The final rule is a catch-all, so any record classifies.
	last := Rules[len(Rules)-1]
	if !last.When(&domain.Project{}) {
		t.Fatal("last rule must fire for an empty record")
	}
}
