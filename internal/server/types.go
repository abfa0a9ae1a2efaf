package server

// DetectResponse is the response for the detect endpoint
type DetectResponse struct {
	Format  string `json:"format"`
	Version string `json:"version"`
	Profile string `json:"profile,omitempty"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
