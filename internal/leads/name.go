package leads

import "regexp"

// namePattern matches a self-introduction trigger phrase followed by one run
// of letters. Single-token Latin names only; multi-word names and non-Latin
// scripts are a known limitation of this extractor, kept for compatibility.
var namePattern = regexp.MustCompile(`(?i)(i am|i'm|this is|my name is)\s+([a-zA-Z]+)`)

// ExtractName returns the first name-like token introduced by a trigger
// phrase, exactly as captured, or false if no trigger phrase occurs.
func ExtractName(text string) (string, bool) {
	match := namePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[2], true
}
