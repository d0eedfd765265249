package domain

// DealCategory is the sales temperature of a deal.
type DealCategory string

const (
	DealActive DealCategory = "active" // under contract, verbally won, or in permitting
	DealHot    DealCategory = "hot"    // strong momentum, bids sent, waiting on feedback
	DealWarm   DealCategory = "warm"   // stalled, early-stage, or future timeline
)

// Valid reports whether c is one of the three known categories.
func (c DealCategory) Valid() bool {
	switch c {
	case DealActive, DealHot, DealWarm:
		return true
	}
	return false
}

// DealSeed is the hand-authored configuration for one sales opportunity.
// Search holds candidate substrings, in priority order, used to link the deal
// to a project in the snapshot.
type DealSeed struct {
	Name          string   `json:"name"`
	Contact       *string  `json:"contact"`
	Notes         *string  `json:"notes"`
	ExpectedStart *string  `json:"expectedStart"`
	Search        []string `json:"search"`
}

// Deal is a matched sales opportunity. MatchedProjectID/Name are derived by
// the matcher at snapshot construction; nil means "Not in Database", which is
// a valid terminal state, not an error.
type Deal struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Contact       *string      `json:"contact"`
	Notes         *string      `json:"notes"`
	ExpectedStart *string      `json:"expectedStart"`
	Category      DealCategory `json:"category"`

	MatchedProjectID   *int    `json:"matchedProjectId"`
	MatchedProjectName *string `json:"matchedProjectName"`
}

// Matched reports whether the deal was linked to a project.
func (d *Deal) Matched() bool {
	return d.MatchedProjectID != nil
}

// DealStats summarizes the deal sheet for the KPI cards.
type DealStats struct {
	Total     int     `json:"total"`
	Active    int     `json:"active"`
	Hot       int     `json:"hot"`
	Warm      int     `json:"warm"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
	MatchRate float64 `json:"matchRate"`
}
