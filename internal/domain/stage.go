package domain

// Stage is the derived pipeline stage of a project as shown on the kanban
// board. It is recomputed from the full record on every classification; there
// is no stored state and no transitions.
type Stage string

const (
	StageNewLead        Stage = "new_lead"
	StageQuoted         Stage = "quoted"
	StageNeedsAttention Stage = "needs_attention"
	StageAccepted       Stage = "accepted"
	StageDepositPaid    Stage = "deposit_paid"
	StageInProgress     Stage = "in_progress"
	StageNoStatus       Stage = "no_status"
)

// Title returns the human label used by the board columns.
func (s Stage) Title() string {
	switch s {
	case StageNewLead:
		return "New Lead"
	case StageQuoted:
		return "Quoted"
	case StageNeedsAttention:
		return "Needs Attention"
	case StageAccepted:
		return "Accepted"
	case StageDepositPaid:
		return "Deposit Paid"
	case StageInProgress:
		return "In Progress"
	case StageNoStatus:
		return "No Status"
	}
	return string(s)
}

// BoardStages is the fixed column order of the kanban board.
var BoardStages = []Stage{
	StageNewLead,
	StageQuoted,
	StageNeedsAttention,
	StageAccepted,
	StageDepositPaid,
	StageInProgress,
	StageNoStatus,
}

// ProjectStage is the classification result for a single project.
type ProjectStage struct {
	ProjectID int            `json:"projectId"`
	Stage     Stage          `json:"stage"`
	Title     string         `json:"title"`
	Category  ExportCategory `json:"category"`
}

// ExportCategory is the bucket label used by the spreadsheet export. It words
// the same pipeline buckets differently from the board columns.
type ExportCategory string

const (
	CategoryDepositPaid   ExportCategory = "Deposit Paid"
	CategoryAccepted      ExportCategory = "Quote Accepted"
	CategoryActiveProject ExportCategory = "2025 Active Projects"
	CategoryOngoing       ExportCategory = "Ongoing Projects"
	CategoryActiveBid     ExportCategory = "2025 Active Bids"
	CategoryNewLead       ExportCategory = "2025 New Leads"
	CategoryNeedsClarify  ExportCategory = "Needs Clarification"
	CategoryNoStatus      ExportCategory = "No Status"
)

// ExportCategories is the fixed group order of the exported Projects sheet.
var ExportCategories = []ExportCategory{
	CategoryDepositPaid,
	CategoryAccepted,
	CategoryActiveProject,
	CategoryOngoing,
	CategoryActiveBid,
	CategoryNewLead,
	CategoryNeedsClarify,
	CategoryNoStatus,
}
