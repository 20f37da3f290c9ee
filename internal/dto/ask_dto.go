package dto

import "time"

type AskRequest struct {
	Query        string `json:"query" validate:"required,min=1,max=2000"`
	Year         int    `json:"year" validate:"omitempty,gte=1990,lte=2100"`
	Category     string `json:"category" validate:"omitempty,max=100"`
	BudgetTokens int    `json:"budget_tokens" validate:"omitempty,gte=100,lte=32000"`
}

type CitationDTO struct {
	SourceID string `json:"source_id"`
	Source   string `json:"source"`
	Title    string `json:"title"`
	Locator  string `json:"locator,omitempty"`
}

type AskResponse struct {
	QueryID     string        `json:"query_id"`
	Answer      string        `json:"answer"`
	Citations   []CitationDTO `json:"citations"`
	Partial     bool          `json:"partial"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
	Cached      bool          `json:"cached"`
	LatencyMs   int64         `json:"latency_ms"`
}

type QueryLogDTO struct {
	Id        string    `json:"id"`
	RawText   string    `json:"raw_text"`
	Answer    *string   `json:"answer,omitempty"`
	ErrorKind *string   `json:"error_kind,omitempty"`
	Citations int       `json:"citations"`
	Partial   bool      `json:"partial"`
	LatencyMs int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// PublishQueryLogMessage is the watermill payload handed to the async
// consumer that persists query logs.
type PublishQueryLogMessage struct {
	QueryID     string   `json:"query_id,omitempty"`
	RawText     string   `json:"raw_text"`
	Answer      string   `json:"answer,omitempty"`
	ErrorKind   string   `json:"error_kind,omitempty"`
	Citations   int      `json:"citations"`
	Partial     bool     `json:"partial"`
	LatencyMs   int64    `json:"latency_ms"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}
