package models

import "time"

// Conversational flows driven by the bot.
const (
	FlowClientRequest = "client_request"
	FlowMasterSignup  = "master_signup"
	FlowReviewComment = "review_comment"
	FlowComplaint     = "complaint"
)

// FormSession holds the state of one in-progress conversational form.
// Sessions live in Redis under a TTL; an expired session restarts the flow.
type FormSession struct {
	ChatID    int64             `json:"chat_id"`
	Flow      string            `json:"flow"`
	Step      string            `json:"step"`
	Data      map[string]string `json:"data"`
	Picks     []string          `json:"picks,omitempty"`      // category picks during master signup
	RequestID int64             `json:"request_id,omitempty"` // reference for review comments and complaints
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewFormSession starts a flow at its first step.
func NewFormSession(chatID int64, flow, step string) *FormSession {
	return &FormSession{
		ChatID:    chatID,
		Flow:      flow,
		Step:      step,
		Data:      map[string]string{},
		UpdatedAt: time.Now(),
	}
}
