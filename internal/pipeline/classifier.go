// Package pipeline holds the pure derivation logic of the dashboard: stage
// classification, deal-to-project matching, progress scoring, and state
// extraction. Everything here is deterministic over an immutable snapshot.
package pipeline

import (
	"strings"

	"github.com/travisk/storage-dashboard-go/internal/domain"
)

// Sales-stage tags as they appear in the source dataset.
const (
	LabelNewLead       = "2025 New Lead"
	LabelActiveBid     = "2025 Active Bid"
	LabelActiveProject = "2025 Active project"
)

// Rule is one entry of the classification decision list. When decides whether
// the rule fires; Stage and Category are the board column and export bucket
// it assigns.
type Rule struct {
	Name     string
	When     func(p *domain.Project) bool
	Stage    domain.Stage
	Category domain.ExportCategory
}

// Rules is the classification policy, evaluated top to bottom with
// first-match-wins. The checks are not mutually exclusive in the underlying
// data (a record can carry both depositPaid="Paid" and a red color status),
// so the order of this slice IS the precedence. Do not reorder.
var Rules = []Rule{
	{
		Name:     "deposit_paid",
		When:     func(p *domain.Project) bool { return p.DepositIsPaid() },
		Stage:    domain.StageDepositPaid,
		Category: domain.CategoryDepositPaid,
	},
	{
		Name:     "quote_accepted",
		When:     func(p *domain.Project) bool { return containsFold(p.QuoteAcceptedDeclined, "accept") },
		Stage:    domain.StageAccepted,
		Category: domain.CategoryAccepted,
	},
	{
		Name:     "active_project_label",
		When:     func(p *domain.Project) bool { return labelIs(p, LabelActiveProject) },
		Stage:    domain.StageInProgress,
		Category: domain.CategoryActiveProject,
	},
	{
		Name: "production_started",
		When: func(p *domain.Project) bool {
			return present(p.MetalProduction) || present(p.MetalDelivery) || present(p.DoorDelivery)
		},
		Stage:    domain.StageInProgress,
		Category: domain.CategoryOngoing,
	},
	{
		Name: "ongoing_color",
		When: func(p *domain.Project) bool {
			return colorContains(p, "Brown") || colorContains(p, "Ongoing")
		},
		Stage:    domain.StageInProgress,
		Category: domain.CategoryOngoing,
	},
	{
		Name: "quoted",
		When: func(p *domain.Project) bool {
			return labelIs(p, LabelActiveBid) || p.QuoteSent ||
				colorContains(p, "Green") || colorContains(p, "Already Quoted")
		},
		Stage:    domain.StageQuoted,
		Category: domain.CategoryActiveBid,
	},
	{
		Name: "new_lead",
		When: func(p *domain.Project) bool {
			return labelIs(p, LabelNewLead) || p.ReachedOut ||
				colorContains(p, "Yellow") || colorContains(p, "Quotation")
		},
		Stage:    domain.StageNewLead,
		Category: domain.CategoryNewLead,
	},
	{
		Name: "needs_clarification",
		When: func(p *domain.Project) bool {
			return colorContains(p, "Red") || colorContains(p, "Needs Clarification")
		},
		Stage:    domain.StageNeedsAttention,
		Category: domain.CategoryNeedsClarify,
	},
	{
		Name:     "has_customer",
		When:     func(p *domain.Project) bool { return present(p.Customer) },
		Stage:    domain.StageNewLead,
		Category: domain.CategoryNewLead,
	},
	{
		Name:     "no_status",
		When:     func(p *domain.Project) bool { return true },
		Stage:    domain.StageNoStatus,
		Category: domain.CategoryNoStatus,
	},
}

// Classify returns the kanban board stage for a project.
func Classify(p *domain.Project) domain.Stage {
	for _, r := range Rules {
		if r.When(p) {
			return r.Stage
		}
	}
	return domain.StageNoStatus
}

// Categorize returns the export bucket for a project.
func Categorize(p *domain.Project) domain.ExportCategory {
	for _, r := range Rules {
		if r.When(p) {
			return r.Category
		}
	}
	return domain.CategoryNoStatus
}

func present(s *string) bool {
	return s != nil && *s != ""
}

func labelIs(p *domain.Project, label string) bool {
	return p.Label != nil && *p.Label == label
}

func colorContains(p *domain.Project, substr string) bool {
	return containsFold(p.ColorStatus, substr)
}

func containsFold(s *string, substr string) bool {
	if s == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*s), strings.ToLower(substr))
}
