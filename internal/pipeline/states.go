package pipeline

import "regexp"

// stateAbbreviations are the 50 US state postal codes.
var stateAbbreviations = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var statePattern = buildStatePattern()

func buildStatePattern() *regexp.Regexp {
	expr := `\b(`
	for i, abbr := range stateAbbreviations {
		if i > 0 {
			expr += "|"
		}
		expr += abbr
	}
	expr += `)\b`
	return regexp.MustCompile(expr)
}

// StateFromName extracts a US state postal abbreviation from a project name
// by whole-word match. Names with no matching token yield "" and contribute
// to no state bucket. The token must be uppercase in the name, matching how
// the source data writes states ("Dallas TX Storage Unit").
func StateFromName(name string) string {
	return statePattern.FindString(name)
}
