package models

import (
	"encoding/json"
	"time"
)

// ScanMatch is one confirmed match from a scan, with the resolver's
// confidence detail. Card is always verbatim from the missing list.
type ScanMatch struct {
	Card       string  `json:"card"`
	Confidence float64 `json:"confidence"`
}

// ScanRecord is the persisted outcome of one scan: the model's raw
// detections and the reconciled result. RawDetections and Matches are JSONB
// columns; the reconciled list is derived data and is recomputed per scan,
// never edited in place.
type ScanRecord struct {
	ID             string          `json:"id" db:"id"`
	CollectorID    string          `json:"collector_id" db:"collector_id"`
	ImageMimeType  string          `json:"image_mime_type" db:"image_mime_type"`
	ImageBytes     int64           `json:"image_bytes" db:"image_bytes"`
	Model          string          `json:"model" db:"model"`
	RawDetections  json.RawMessage `json:"raw_detections" db:"raw_detections"`
	Matches        json.RawMessage `json:"matches" db:"matches"`
	DetectedCount  int             `json:"detected_count" db:"detected_count"`
	MatchedCount   int             `json:"matched_count" db:"matched_count"`
	DurationMillis int64           `json:"duration_ms" db:"duration_ms"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// ScanResponse is what a scan request returns to the caller.
type ScanResponse struct {
	ScanID        string      `json:"scan_id"`
	Confirmed     []string    `json:"confirmed"`
	Matches       []ScanMatch `json:"matches"`
	RawDetections []string    `json:"raw_detections"`
	DetectedCount int         `json:"detected_count"`
	MatchedCount  int         `json:"matched_count"`
}

// ScanListResponse is the response for listing scan history.
type ScanListResponse struct {
	Items      []ScanRecord `json:"items"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}
