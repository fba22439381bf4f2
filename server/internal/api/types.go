package api

import (
	"github.com/passmeter/passmeter/pkg/types"
	"github.com/passmeter/passmeter/server/internal/metrics"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 64 << 10

// evaluateRequest is the body of POST /api/v1/evaluate and
// POST /api/v1/sessions/{id}/evaluate. A null or missing password is
// evaluated as the empty string.
type evaluateRequest struct {
	Password *string `json:"password" validate:"omitempty,max=4096"`
	Locale   string  `json:"locale" validate:"omitempty,max=35"`
}

// analyzeRequest is the body of POST /api/v1/analyze. The zxcvbn estimate
// covers only the first analysis.MaxEstimateRunes runes of the password.
type analyzeRequest struct {
	Password   *string  `json:"password" validate:"omitempty,max=4096"`
	UserInputs []string `json:"user_inputs" validate:"max=32,dive,max=256"`
	Locale     string   `json:"locale" validate:"omitempty,max=35"`
}

// generateRequest is the body of POST /api/v1/generate and
// POST /api/v1/sessions/{id}/generate. Length 0 selects the configured length.
type generateRequest struct {
	Length int    `json:"length" validate:"omitempty,min=4,max=128"`
	Locale string `json:"locale" validate:"omitempty,max=35"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status   string         `json:"status"`
	Sessions int            `json:"sessions"`
	Totals   metrics.Totals `json:"totals"`
}

// TipsResponse is the payload for GET /api/v1/tips.
type TipsResponse struct {
	Locale string      `json:"locale"`
	Tips   []types.Tip `json:"tips"`
}

// SessionResponse is the payload for POST /api/v1/sessions.
type SessionResponse struct {
	ID        string `json:"id"`
	ExpiresIn string `json:"expires_in"`
}

// SessionEvaluation is the payload for POST /api/v1/sessions/{id}/evaluate.
type SessionEvaluation struct {
	Evaluation types.Evaluation `json:"evaluation"`
	Celebrate  bool             `json:"celebrate"`
}

// VisibilityResponse is the payload for POST /api/v1/sessions/{id}/visibility.
type VisibilityResponse struct {
	Visible bool `json:"visible"`
}

// SessionGenerated is the payload for POST /api/v1/sessions/{id}/generate.
type SessionGenerated struct {
	types.Generated
	Visible   bool `json:"visible"`
	Celebrate bool `json:"celebrate"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
