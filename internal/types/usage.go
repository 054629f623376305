package types

import (
	"fmt"
	"regexp"
	"time"
)

// PeriodKey buckets usage into calendar months, formatted "2006-01".
// It is computed once per request at the orchestrator boundary and threaded
// through every ledger call so tests can inject arbitrary periods.
type PeriodKey string

var periodKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// NewPeriodKey returns the period key for the calendar month containing t
func NewPeriodKey(t time.Time) PeriodKey {
	return PeriodKey(t.Format("2006-01"))
}

// CurrentPeriodKey returns the period key for the server's local calendar month
func CurrentPeriodKey() PeriodKey {
	return NewPeriodKey(time.Now())
}

func (k PeriodKey) String() string {
	return string(k)
}

func (k PeriodKey) Validate() error {
	if !periodKeyPattern.MatchString(string(k)) {
		return fmt.Errorf("invalid period key %q, expected YYYY-MM", string(k))
	}
	return nil
}

// LimitKey identifies a numeric plan limit and its ledger counter
type LimitKey string

const (
	LimitKeyTasks           LimitKey = "tasks"
	LimitKeyCustomTemplates LimitKey = "custom_templates"
	LimitKeyStorage         LimitKey = "storage"
	LimitKeyTeamMembers     LimitKey = "team_members"
)

// UnlimitedSentinel is the conventional plan-limit value meaning "no limit"
const UnlimitedSentinel int64 = 0
