// Package intent classifies inbound messages into a fixed set of
// conversational intents using an LLM.
package intent

// Intent is a closed-set label describing the conversational purpose of a
// message.
type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentPricing  Intent = "pricing"
	IntentServices Intent = "services"
	IntentBooking  Intent = "booking"
	IntentLead     Intent = "lead"
	IntentGeneral  Intent = "general"
)

// validIntents is the closed label set the classifier may return.
var validIntents = map[Intent]bool{
	IntentGreeting: true,
	IntentPricing:  true,
	IntentServices: true,
	IntentBooking:  true,
	IntentLead:     true,
	IntentGeneral:  true,
}

// Valid reports whether the label is part of the closed set.
func (i Intent) Valid() bool {
	return validIntents[i]
}

func (i Intent) String() string {
	return string(i)
}
