package dto

// Envelope is the uniform response body: every endpoint, success or
// failure, wraps its payload in this shape.
type Envelope struct {
	Message        string `json:"message"`
	HTTPStatusCode int    `json:"httpStatusCode"`
	Data           any    `json:"data"`
}

func NewEnvelope(message string, code int, data any) Envelope {
	return Envelope{
		Message:        message,
		HTTPStatusCode: code,
		Data:           data,
	}
}
