package plan

import (
	"encoding/json"

	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// Limits are the numeric plan limits. The value 0 is the conventional
// unlimited sentinel for every key.
type Limits struct {
	Tasks           int64 `json:"tasks"`
	CustomTemplates int64 `json:"custom_templates"`
	StorageBytes    int64 `json:"storage_bytes"`
	TeamMembers     int64 `json:"team_members"`
}

// For returns the limit value for a limit key
func (l Limits) For(key types.LimitKey) int64 {
	switch key {
	case types.LimitKeyTasks:
		return l.Tasks
	case types.LimitKeyCustomTemplates:
		return l.CustomTemplates
	case types.LimitKeyStorage:
		return l.StorageBytes
	case types.LimitKeyTeamMembers:
		return l.TeamMembers
	default:
		return types.UnlimitedSentinel
	}
}

// Plan is a named subscription tier with a feature set and numeric limits
type Plan struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LookupKey   string `json:"lookup_key"`
	Description string `json:"description,omitempty"`
	// FeaturesRaw is the serialized capability list as stored; use Features()
	// for the decoded form
	FeaturesRaw string `json:"-"`
	Limits      Limits `json:"limits"`
	IsDefault   bool   `json:"is_default"`
	types.BaseModel
}

// Features decodes the serialized capability list. Parse failures degrade to
// an empty feature set rather than failing the call: a corrupt feature blob
// must never block execution, it only disables feature-gated paths.
func (p *Plan) Features() []string {
	if p.FeaturesRaw == "" {
		return []string{}
	}
	var features []string
	if err := json.Unmarshal([]byte(p.FeaturesRaw), &features); err != nil {
		return []string{}
	}
	return features
}

// HasFeature reports whether the plan carries the named capability
func (p *Plan) HasFeature(name string) bool {
	for _, f := range p.Features() {
		if f == name {
			return true
		}
	}
	return false
}

func (p *Plan) Validate() error {
	if p.Name == "" {
		return ierr.NewError("plan name is required").
			WithHint("Plan name is required").
			Mark(ierr.ErrValidation)
	}
	if p.Limits.Tasks < 0 || p.Limits.CustomTemplates < 0 ||
		p.Limits.StorageBytes < 0 || p.Limits.TeamMembers < 0 {
		return ierr.NewError("plan limits cannot be negative").
			WithHint("Use 0 for unlimited, positive values otherwise").
			Mark(ierr.ErrValidation)
	}
	return nil
}
