package models

// CheckUsageSentinel is the special message value the client sends to read
// its remaining quota. It never consumes a credit and never reaches a
// provider.
const CheckUsageSentinel = "__CHECK_USAGE__"

// UserAPIKeys are caller-supplied provider credentials. They live only in
// the request (and the caller's browser storage); they are never persisted
// server-side.
type UserAPIKeys struct {
	OpenAI    string `json:"openai,omitempty"`
	Anthropic string `json:"anthropic,omitempty"`
	Gemini    string `json:"gemini,omitempty"`
}

// HasAny reports whether the caller supplied at least one provider key
func (k UserAPIKeys) HasAny() bool {
	return k.OpenAI != "" || k.Anthropic != "" || k.Gemini != ""
}

// ChatRequest is the body of POST /api/v1/chat
type ChatRequest struct {
	Message     string      `json:"message" binding:"required"`
	EventIDs    []string    `json:"eventIds"`
	UserAPIKeys UserAPIKeys `json:"userApiKeys"`
}

// ChatResponse is the success envelope for a chat reply
type ChatResponse struct {
	Response string `json:"response"`
}

// UsageResponse is returned for the usage-check sentinel
type UsageResponse struct {
	CurrentCount int `json:"currentCount"`
}
