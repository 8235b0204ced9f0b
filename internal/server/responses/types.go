// Package responses defines API response types used by blockmark's HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// LinksResponse lists the links of a parsed document.
type LinksResponse struct {
	Fingerprint string     `json:"fingerprint"`
	Links       []LinkInfo `json:"links"`
}

// LinkInfo is one link with its flattened label.
type LinkInfo struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}
