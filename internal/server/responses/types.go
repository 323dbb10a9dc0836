// Package responses defines API response types used by docshelf HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
	// Serving is the version resolved at startup.
	Serving string `json:"serving"`
	// Latest is the most recently published version seen in versions.json.
	Latest   string   `json:"latest,omitempty"`
	Versions []string `json:"versions"`
}
