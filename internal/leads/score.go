package leads

import (
	"strings"

	"github.com/wolfman30/leadline/internal/intent"
)

// Score is the purchase-readiness tier of a lead, ordered HOT > WARM > COLD.
type Score string

const (
	ScoreHot  Score = "HOT"
	ScoreWarm Score = "WARM"
	ScoreCold Score = "COLD"
)

// buyingKeywords signal purchase readiness when present in the message.
var buyingKeywords = []string{
	"price", "pricing", "cost", "buy", "purchase",
	"budget", "payment", "charges",
}

// scoringIntents are the intents that contribute points on their own.
var scoringIntents = map[intent.Intent]bool{
	intent.IntentPricing:  true,
	intent.IntentBooking:  true,
	intent.IntentServices: true,
}

// CalculateScore derives the lead score from intent and message text. Two
// binary point sources of 2 points each: HOT needs both, WARM needs one.
// The thresholds assume exactly these two sources; revisit the scheme before
// adding any further signal.
func CalculateScore(in intent.Intent, message string) Score {
	score := 0

	if scoringIntents[in] {
		score += 2
	}

	lower := strings.ToLower(message)
	for _, word := range buyingKeywords {
		if strings.Contains(lower, word) {
			score += 2
			break
		}
	}

	if score >= 4 {
		return ScoreHot
	}
	if score >= 2 {
		return ScoreWarm
	}
	return ScoreCold
}
