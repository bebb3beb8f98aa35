package models

import "time"

// AuditLog is a best-effort side log of ledger activity. Entries are written
// asynchronously and are not exposed through the API.
type AuditLog struct {
	ID        string         `json:"id"`
	EntityID  string         `json:"entity_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}
