package types

// SuccessEnvelope wraps every 2xx payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope wraps every error payload.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// APIError is the public error body. Details is only populated for codes
// whose metadata allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
