package entities

import "time"

// AnswerOption is a single choice offered for a quiz question.
type AnswerOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// AnswerLogEntry is an append-only record of one answered question.
type AnswerLogEntry struct {
	ID         int64
	UserID     int64 // users.id of the row active when the answer was given
	TelegramID int64
	VerbID     int64
	IsCorrect  bool
	AnsweredAt time.Time
}

// NewAnswerLogEntry creates a log entry stamped with the current time.
func NewAnswerLogEntry(user *User, verbID int64, isCorrect bool) *AnswerLogEntry {
	return &AnswerLogEntry{
		UserID:     user.ID,
		TelegramID: user.TelegramID,
		VerbID:     verbID,
		IsCorrect:  isCorrect,
		AnsweredAt: time.Now(),
	}
}
