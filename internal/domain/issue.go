package domain

import "strings"

// IssueType classifies a thermal event.
// Only the two canonical values below are ever persisted.
type IssueType string

const (
	IssueThrottled IssueType = "throttled"
	IssueFailed    IssueType = "failed"
)

// reasonSynonyms maps lower-cased reason text to its canonical issue type.
var reasonSynonyms = map[string]IssueType{
	"thermally failed":   IssueFailed,
	"thermal failure":    IssueFailed,
	"failed":             IssueFailed,
	"throttled":          IssueThrottled,
	"thermal throttling": IssueThrottled,
	"throttling":         IssueThrottled,
}

// NormalizeReason maps free-text reason to a canonical IssueType.
// The text is trimmed and lower-cased before lookup. The second return
// value is false when the reason is not recognized.
func NormalizeReason(reason string) (IssueType, bool) {
	issue, ok := reasonSynonyms[strings.ToLower(strings.TrimSpace(reason))]
	return issue, ok
}

// IsValid reports whether the issue type is one of the canonical values
func (t IssueType) IsValid() bool {
	return t == IssueThrottled || t == IssueFailed
}

func (t IssueType) String() string {
	return string(t)
}
