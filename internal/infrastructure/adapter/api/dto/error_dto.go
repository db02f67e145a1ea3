package dto

// ErrorResponse is the body of every non-2xx answer. Code is the domain error
// code and the HTTP status is Code/10.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// NewErrorResponse tags an error body with the request's correlation id
func NewErrorResponse(code int, message, requestID string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, RequestID: requestID}
}
