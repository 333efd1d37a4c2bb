package core

import "strings"

// Intent is the routing decision for one turn. The classifier's raw text
// is decoded exactly once, at the LLM boundary; everything downstream
// switches on the enum.
type Intent int

const (
	IntentOutOfDomain Intent = iota
	IntentPreviousConversation
	IntentWebContent
	IntentDBQuery
)

var intentLabels = []struct {
	label  string
	intent Intent
}{
	{"PREVIOUS_CONVERSATION", IntentPreviousConversation},
	{"WEB_CONTENT", IntentWebContent},
	{"DB_QUERY", IntentDBQuery},
	{"OUT_OF_DOMAIN", IntentOutOfDomain},
}

// ParseIntent maps classifier output to an Intent by case-insensitive
// containment, first match wins. Anything unrecognized is out of domain.
func ParseIntent(s string) Intent {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range intentLabels {
		if strings.Contains(s, c.label) {
			return c.intent
		}
	}
	return IntentOutOfDomain
}

func (i Intent) String() string {
	switch i {
	case IntentPreviousConversation:
		return "PREVIOUS_CONVERSATION"
	case IntentWebContent:
		return "WEB_CONTENT"
	case IntentDBQuery:
		return "DB_QUERY"
	default:
		return "OUT_OF_DOMAIN"
	}
}

// Verdict is the normalized result of SQL validation.
type Verdict int

const (
	VerdictInvalid Verdict = iota
	VerdictValid
)

// ParseVerdict is fail-closed: only a response whose trimmed text is
// literally prefixed with VALID passes. Everything else, including empty,
// lowercase or malformed output, is invalid.
func ParseVerdict(s string) Verdict {
	if strings.HasPrefix(strings.TrimSpace(s), "VALID") {
		return VerdictValid
	}
	return VerdictInvalid
}

func (v Verdict) String() string {
	if v == VerdictValid {
		return "VALID"
	}
	return "INVALID"
}
