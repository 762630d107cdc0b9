package dto

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	RecordID string `json:"recordID,omitempty"`
}

// ErrorResponse wraps every non-2xx response body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
