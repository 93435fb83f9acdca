package models

import "time"

// CollectorSettings holds a collector's configuration: where their missing
// list lives and any vision model overrides. One row per collector.
type CollectorSettings struct {
	CollectorID  string     `json:"collector_id" db:"collector_id"`
	SheetURL     string     `json:"sheet_url" db:"sheet_url"`
	SheetGID     string     `json:"sheet_gid" db:"sheet_gid"`
	SheetColumn  string     `json:"sheet_column" db:"sheet_column"`
	VisionModel  *string    `json:"vision_model,omitempty" db:"vision_model"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	RefreshedAt  *time.Time `json:"refreshed_at,omitempty" db:"refreshed_at"`
}

// UpsertSettingsRequest is the request body for updating collector settings.
type UpsertSettingsRequest struct {
	SheetURL    string  `json:"sheet_url" validate:"required,url"`
	SheetGID    string  `json:"sheet_gid"`
	SheetColumn string  `json:"sheet_column" validate:"required"`
	VisionModel *string `json:"vision_model,omitempty"`
}
