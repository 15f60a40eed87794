package dto

// APIResponse is the envelope for successful single-resource and list responses
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope every failure is rendered with
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"resource not found for id: 1"`
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token"`
}

// PageRef points at a neighbouring page
type PageRef struct {
	Page  int `json:"page" example:"2"`
	Limit int `json:"limit" example:"25"`
}

// Pagination carries the neighbouring pages of a list result; empty when there are none
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// AdvancedResults is the envelope produced by the query middleware for list routes
type AdvancedResults struct {
	Success    bool                     `json:"success" example:"true"`
	Count      int                      `json:"count" example:"1"`
	Pagination Pagination               `json:"pagination"`
	Data       []map[string]interface{} `json:"data"`
}

// NewDataResponse wraps data in a success envelope
func NewDataResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// NewListResponse wraps a list and its length in a success envelope
func NewListResponse(data interface{}, count int) APIResponse {
	return APIResponse{Success: true, Count: &count, Data: data}
}

// NewErrorResponse builds the failure envelope
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}
