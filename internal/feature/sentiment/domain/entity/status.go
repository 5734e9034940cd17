package entity

import "time"

// ServiceState is the coarse health of the n8n workflow service.
type ServiceState string

const (
	ServiceHealthy   ServiceState = "healthy"
	ServiceUnhealthy ServiceState = "unhealthy"
	ServiceUnknown   ServiceState = "unknown"
)

// ServiceStatus is the status report of the n8n workflow service.
type ServiceStatus struct {
	Status    ServiceState   `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Services  map[string]any `json:"services"`
	Error     string         `json:"error,omitempty"`
}

// Dashboard bundles everything the main page renders for one symbol.
type Dashboard struct {
	Sentiment SentimentSnapshot `json:"sentiment"`
	Mentions  MentionFeed       `json:"mentions"`
	Status    ServiceStatus     `json:"health"`
}
