package annandto

// MoveRequest is the body of POST /api/move.
type MoveRequest struct {
	Move string `json:"move"`
}

// ConfigRequest is the body of POST /api/config.
// AIMode is one of "black", "white", "none".
type ConfigRequest struct {
	AIMode string `json:"ai_mode"`
}

// ConfigResponse is the reply of POST /api/config.
type ConfigResponse struct {
	Status  string `json:"status"`
	AIColor *Color `json:"ai_color"`
}

// ErrorResponse is the server's non-2xx payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
