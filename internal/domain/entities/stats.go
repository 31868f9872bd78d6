package entities

import "time"

// Stats windows.
const (
	WindowDay   = 24 * time.Hour
	WindowWeek  = 7 * 24 * time.Hour
	WindowMonth = 30 * 24 * time.Hour
)

// WindowStats holds answer counts for one rolling window.
type WindowStats struct {
	Total      int
	Correct    int
	Percentage float64
}

// NewWindowStats computes the percentage for the given counts.
// An empty window has a percentage of exactly zero.
func NewWindowStats(total, correct int) WindowStats {
	ws := WindowStats{Total: total, Correct: correct}
	if total > 0 {
		ws.Percentage = float64(correct) / float64(total) * 100
	}
	return ws
}

// Stats is the statistics summary of one user identity.
type Stats struct {
	Day   WindowStats
	Week  WindowStats
	Month WindowStats

	// GamesPlayed is the number of distinct verbs ever answered.
	GamesPlayed int
}
