package entities

import "time"

// ConversationState is the position of a user in the bot dialog.
type ConversationState string

const (
	StateNone       ConversationState = ""
	StateAskContact ConversationState = "ask_contact"
	StateMenu       ConversationState = "menu"
	StateQuiz       ConversationState = "quiz"
	StateStatsView  ConversationState = "stats_view"
)

// Session is the per-user conversation record.
type Session struct {
	UserID    int64             `json:"user_id"`
	State     ConversationState `json:"state"`
	Quiz      *QuizSession      `json:"quiz,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession creates an empty session for the user.
func NewSession(userID int64) *Session {
	return &Session{UserID: userID, State: StateNone}
}
