package models

import "time"

// AnonymousUser is recorded when no authenticated user is known.
const AnonymousUser = "anonymous"

// AuditEntry is an immutable record of one completed search.
type AuditEntry struct {
	ID           string      `json:"id"`
	Timestamp    time.Time   `json:"timestamp"`
	Query        string      `json:"query"`
	Filters      Filters     `json:"filters"`
	ResultsCount int         `json:"results_count"`
	UserID       string      `json:"user_id"`
	SessionID    string      `json:"session_id"`
	SearchTimeMs float64     `json:"search_time_ms"`
	Language     string      `json:"language"`
	InputMethod  InputMethod `json:"input_method"`
}

// AuditSummary is a dashboard view over the audit history.
type AuditSummary struct {
	Total       int                 `json:"total"`
	Today       int                 `json:"today"`
	ByMethod    map[InputMethod]int `json:"by_input_method"`
	ByLanguage  map[string]int      `json:"by_language"`
	ZeroResults int                 `json:"zero_results"`
	Recent      []AuditEntry        `json:"recent"`
}
