package models

// EvaluateRequest represents the request body for a budget evaluation.
// Amounts arrive as JSON strings or numbers; decimal.Decimal accepts both.
// Missing or zero amounts are not a binding error: the classifier has
// its own verdict for non-positive income and goals.
type EvaluateRequest struct {
	Income        FlexibleAmount `json:"income"`
	FixedExpenses FlexibleAmount `json:"fixed_expenses"`
	SavingGoal    FlexibleAmount `json:"saving_goal"`
	WithAdvice    bool           `json:"with_advice"`
}

// EvaluateResponse carries the stored assessment plus optional prose advice
type EvaluateResponse struct {
	Record    FinancialRecord `json:"record"`
	FollowUps []string        `json:"follow_ups,omitempty"`
	Advice    string          `json:"advice,omitempty"`
}

// HistoryResponse represents a page of a user's stored evaluations
type HistoryResponse struct {
	Records []FinancialRecord `json:"records"`
	Count   int               `json:"count"`
}

// ListRecordsRequest represents the query parameters for listing records
type ListRecordsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Limit     int    `form:"limit"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
