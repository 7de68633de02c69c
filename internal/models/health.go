package models

import "time"

// Upstream health status constants
const (
	HealthUnknown   = "unknown"
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// UpstreamStatus is the last known state of the external answer API.
type UpstreamStatus struct {
	Status    string     `json:"status"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Upstream  *UpstreamStatus `json:"upstream,omitempty"`
}
