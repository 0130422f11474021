// Package dto defines data transfer objects for the marketdata HTTP API.
package dto

// SyncResponse is the body of a completed batch. Nullable numbers are
// serialized as JSON null, never omitted.
type SyncResponse struct {
	Processed int           `json:"processed"`
	Successes []SuccessItem `json:"successes"`
	Failures  []FailureItem `json:"failures"`
	Timestamp string        `json:"timestamp"`
}

// SuccessItem summarizes one persisted symbol.
type SuccessItem struct {
	Symbol    string   `json:"symbol"`
	Price     *float64 `json:"price"`
	MarketCap *float64 `json:"market_cap"`
}

// FailureItem records one failed symbol.
type FailureItem struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// SyncErrorResponse is returned when the batch could not start.
type SyncErrorResponse struct {
	Error     string        `json:"error"`
	Processed int           `json:"processed"`
	Successes []SuccessItem `json:"successes"`
	Failures  []FailureItem `json:"failures"`
}

// ErrorResponse is a plain error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
