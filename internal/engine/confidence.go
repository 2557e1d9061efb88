package engine

// Confidence grades for a computed line.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Confidence grades how much to trust a fair line, with the reason. Missing
// star-tax data or a roster full of game-time decisions both degrade the
// grade; a clean computation is HIGH.
func Confidence(f *FairLine) (grade, reason string) {
	questionable := len(f.QuestionableHome) + len(f.QuestionableAway)

	switch {
	case questionable >= 2:
		return ConfidenceLow, "two or more questionable players in the matchup"
	case f.StarTaxUnavailable():
		return ConfidenceMedium, "star on/off data unavailable for at least one side"
	case questionable == 1:
		return ConfidenceMedium, "one questionable player in the matchup"
	default:
		return ConfidenceHigh, "all inputs available"
	}
}
