// Package models holds the shared domain types for Clover.
package models

import "time"

// MissingCard is one entry of a collector's missing list. Name is the
// canonical user-authored string from the spreadsheet; Position preserves
// source order for display. Matching never depends on Position.
type MissingCard struct {
	ID          string    `json:"id" db:"id"`
	CollectorID string    `json:"collector_id" db:"collector_id"`
	Name        string    `json:"name" db:"name"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MissingListResponse is the response for listing the missing list.
type MissingListResponse struct {
	Items       []MissingCard `json:"items"`
	TotalCount  int           `json:"total_count"`
	RefreshedAt *time.Time    `json:"refreshed_at,omitempty"`
}
