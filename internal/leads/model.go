package leads

import (
	"strings"
	"time"

	"github.com/wolfman30/leadline/internal/intent"
)

// UnknownName is recorded when no name could be extracted from the message.
const UnknownName = "Unknown"

// Record represents one captured lead, appended once and never mutated.
type Record struct {
	Name    string        `json:"name"`
	Phone   string        `json:"phone"`
	Intent  intent.Intent `json:"intent"`
	Score   Score         `json:"score"`
	Message string        `json:"message"`
	Time    time.Time     `json:"time"`
}

// Validate checks the fields every sink needs.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Phone) == "" {
		return ErrMissingPhone
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrMissingMessage
	}
	return nil
}

// FormattedTime renders the receipt time the way the sheet expects it.
func (r *Record) FormattedTime() string {
	return r.Time.Format("1/2/2006, 3:04:05 PM")
}
