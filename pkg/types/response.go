package types

// SuccessEnvelope is the uniform success shape returned by every endpoint.
type SuccessEnvelope struct {
	OK        bool   `json:"ok"`
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the uniform failure shape returned by every endpoint.
type ErrorEnvelope struct {
	OK        bool     `json:"ok"`
	Error     APIError `json:"error"`
	RequestID string   `json:"request_id"`
}
