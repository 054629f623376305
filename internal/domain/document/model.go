package document

import (
	"github.com/docutask/docutask/internal/types"
)

// Document is the extracted-text view of an uploaded document. Text
// extraction happens outside this service; the engine only reads the result
// and treats missing or empty text as an empty string, never an error.
type Document struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	DisplayName   string `json:"display_name"`
	ExtractedText string `json:"extracted_text"`
	SizeBytes     int64  `json:"size_bytes"`
	types.BaseModel
}
