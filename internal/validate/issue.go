// Package validate audits recorded bets for internal consistency: do the
// numbers written to the tracker agree with each other under the current
// model constants. It is structural validation only: the snapshot caches are
// overwritten daily, so historical lines can never be re-predicted, only
// checked against themselves.
package validate

import "fmt"

// Severity ranks a validation issue.
type Severity string

const (
	SeverityError Severity = "ERROR"
	SeverityWarn  Severity = "WARN"
	SeverityInfo  Severity = "INFO"
)

// Issue is one finding against one recorded bet. Issues are values, never
// errors: a dirty tracker is a report, not a failure.
type Issue struct {
	Severity Severity `json:"severity"`
	BetID    string   `json:"bet_id"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s %s: %s", i.Severity, i.BetID, i.Field, i.Message)
}

func errorf(id, field, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityError, BetID: id, Field: field, Message: fmt.Sprintf(format, args...)}
}

func warnf(id, field, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityWarn, BetID: id, Field: field, Message: fmt.Sprintf(format, args...)}
}

func infof(id, field, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityInfo, BetID: id, Field: field, Message: fmt.Sprintf(format, args...)}
}
