package pipeline

import "github.com/travisk/storage-dashboard-go/internal/domain"

// MaxProgressScore is the number of milestones a project can complete.
const MaxProgressScore = 6

// ProgressScore counts completed milestones for a project (0-6): reached out,
// quote sent, quote decision recorded, deposit paid, metal production
// started, and any delivery marked "Delivered".
func ProgressScore(p *domain.Project) int {
	score := 0
	if p.ReachedOut {
		score++
	}
	if p.QuoteSent {
		score++
	}
	if p.QuoteAcceptedDeclined != nil && *p.QuoteAcceptedDeclined != "" {
		score++
	}
	if p.DepositIsPaid() {
		score++
	}
	if p.MetalProduction != nil && *p.MetalProduction != "" {
		score++
	}
	if delivered(p.MetalDelivery) || delivered(p.DoorDelivery) {
		score++
	}
	return score
}

func delivered(s *string) bool {
	return s != nil && *s == "Delivered"
}
