package template

import (
	"time"

	"github.com/samber/lo"

	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/types"
)

// FieldType is the input type of a template variable field
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
)

// FieldDescriptor describes one variable of a template's schema. The base
// template's schema is authoritative even when an override's prompt runs;
// schemas are never overridden independently.
type FieldDescriptor struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// ROIParams are the operator-entered return-on-investment figures copied
// verbatim into lazily materialized overrides
type ROIParams struct {
	MinutesSavedPerRun float64 `json:"minutes_saved_per_run,omitempty"`
	HourlyRate         float64 `json:"hourly_rate,omitempty"`
	BaselineErrorRate  float64 `json:"baseline_error_rate,omitempty"`
}

// Template is the operator-authored base task definition. The execution path
// never mutates it.
type Template struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	LookupKey        string            `json:"lookup_key"`
	Description      string            `json:"description,omitempty"`
	PromptText       string            `json:"prompt_text"`
	Fields           []FieldDescriptor `json:"fields"`
	RequiresDocument bool              `json:"requires_document"`
	Public           bool              `json:"public"`
	ROIParams        *ROIParams        `json:"roi_params,omitempty"`
	types.BaseModel
}

func (t *Template) Validate() error {
	if t.Name == "" {
		return ierr.NewError("template name is required").
			WithHint("Template name is required").
			Mark(ierr.ErrValidation)
	}
	keys := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if f.Key == "" {
			return ierr.NewError("field key is required").
				WithHint("Every template field needs a key").
				Mark(ierr.ErrValidation)
		}
		if _, ok := keys[f.Key]; ok {
			return ierr.NewErrorf("duplicate field key %q", f.Key).
				WithHint("Template field keys must be unique").
				Mark(ierr.ErrValidation)
		}
		keys[f.Key] = struct{}{}
	}
	return nil
}

// RequiredFields returns the descriptors marked required in the schema
func (t *Template) RequiredFields() []FieldDescriptor {
	return lo.Filter(t.Fields, func(f FieldDescriptor, _ int) bool {
		return f.Required
	})
}

// Override is a scoped alternate prompt body for a base template. Exactly one
// of UserID/OrganizationID is set for user/org scopes; both are empty for a
// platform-wide global override. Overrides are deactivated, never deleted.
type Override struct {
	ID             string     `json:"id"`
	TemplateID     string     `json:"template_id"`
	UserID         string     `json:"user_id,omitempty"`
	OrganizationID string     `json:"organization_id,omitempty"`
	PromptText     string     `json:"prompt_text"`
	ROIParams      *ROIParams `json:"roi_params,omitempty"`
	Version        int        `json:"version"`
	UsageCount     int64      `json:"usage_count"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	types.BaseModel
}

// Scope returns the tagged owner scope of the override
func (o *Override) Scope() types.OverrideScope {
	switch {
	case o.UserID != "":
		return types.UserScope(o.UserID)
	case o.OrganizationID != "":
		return types.OrganizationScope(o.OrganizationID)
	default:
		return types.GlobalScope()
	}
}

func (o *Override) Validate() error {
	if o.TemplateID == "" {
		return ierr.NewError("override template_id is required").
			WithHint("Override must reference a base template").
			Mark(ierr.ErrValidation)
	}
	if o.UserID != "" && o.OrganizationID != "" {
		return ierr.NewError("override cannot be owned by both a user and an organization").
			WithHint("Set at most one owner on an override").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// NewUserOverride materializes a user-scoped copy of the base template's
// current prompt text and ROI parameters. The copy starts with usage count 1
// since it is created as a side effect of the resolution that will use it
// from the next call onward.
func NewUserOverride(t *Template, userID string) *Override {
	now := time.Now().UTC()
	var roi *ROIParams
	if t.ROIParams != nil {
		cp := *t.ROIParams
		roi = &cp
	}
	return &Override{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEMPLATE_OVERRIDE),
		TemplateID: t.ID,
		UserID:     userID,
		PromptText: t.PromptText,
		ROIParams:  roi,
		Version:    1,
		UsageCount: 1,
		LastUsedAt: &now,
		BaseModel:  types.GetDefaultBaseModel(userID),
	}
}
