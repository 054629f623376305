package usage

import (
	"github.com/shopspring/decimal"

	"github.com/docutask/docutask/internal/types"
)

// PeriodRecord is one calendar month's accumulated usage for a subscriber.
// At most one record exists per (user, period); counters only ever grow
// within a period and records are never deleted.
type PeriodRecord struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	OrganizationID      string          `json:"organization_id,omitempty"`
	PeriodKey           types.PeriodKey `json:"period_key"`
	TasksUsed           int64           `json:"tasks_used"`
	CustomTemplates     int64           `json:"custom_templates"`
	StorageUsedBytes    int64           `json:"storage_used_bytes"`
	DocumentsUploaded   int64           `json:"documents_uploaded"`
	DocumentsDownloaded int64           `json:"documents_downloaded"`
	InputTokens         int64           `json:"input_tokens"`
	OutputTokens        int64           `json:"output_tokens"`
	Cost                decimal.Decimal `json:"cost"`
	types.BaseModel
}

// CounterFor returns the counter value gated by a plan limit key
func (r *PeriodRecord) CounterFor(key types.LimitKey) int64 {
	if r == nil {
		return 0
	}
	switch key {
	case types.LimitKeyTasks:
		return r.TasksUsed
	case types.LimitKeyCustomTemplates:
		return r.CustomTemplates
	case types.LimitKeyStorage:
		return r.StorageUsedBytes
	default:
		return 0
	}
}

// Delta is a discriminated increment applied to a period record. Each kind
// maps to a fixed set of counters so increments are validated at compile
// time instead of being assembled by field name.
type Delta interface {
	isDelta()
}

// TaskDelta increments the task counter
type TaskDelta int64

// CustomTemplateDelta increments the custom-template counter
type CustomTemplateDelta int64

// StorageDelta increments the storage counter by a byte count
type StorageDelta int64

// DocumentUploadDelta increments the uploaded-documents counter
type DocumentUploadDelta int64

// DocumentDownloadDelta increments the downloaded-documents counter
type DocumentDownloadDelta int64

// TokenDelta adds reported token usage and its monetary cost
type TokenDelta struct {
	InputTokens  int64
	OutputTokens int64
	Cost         decimal.Decimal
}

func (TaskDelta) isDelta()             {}
func (CustomTemplateDelta) isDelta()   {}
func (StorageDelta) isDelta()          {}
func (DocumentUploadDelta) isDelta()   {}
func (DocumentDownloadDelta) isDelta() {}
func (TokenDelta) isDelta()            {}

// Apply adds the delta to the record's counters in place
func Apply(r *PeriodRecord, d Delta) {
	switch v := d.(type) {
	case TaskDelta:
		r.TasksUsed += int64(v)
	case CustomTemplateDelta:
		r.CustomTemplates += int64(v)
	case StorageDelta:
		r.StorageUsedBytes += int64(v)
	case DocumentUploadDelta:
		r.DocumentsUploaded += int64(v)
	case DocumentDownloadDelta:
		r.DocumentsDownloaded += int64(v)
	case TokenDelta:
		r.InputTokens += v.InputTokens
		r.OutputTokens += v.OutputTokens
		r.Cost = r.Cost.Add(v.Cost)
	}
}
