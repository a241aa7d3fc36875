package model

import "time"

// Mood labels form a closed set — these are the five options the front end
// offers, and the server rejects anything else. The values double as mood
// scores for the average-mood stat (see MoodScore).
const (
	MoodMuyBien = "muy_bien"
	MoodBien    = "bien"
	MoodNeutral = "neutral"
	MoodTriste  = "triste"
	MoodAnsioso = "ansioso"
)

// moodScores maps each recognised mood label to a numeric score (5 = best).
// Used both for validation (membership test) and for the averageMood stat.
var moodScores = map[string]int{
	MoodMuyBien: 5,
	MoodBien:    4,
	MoodNeutral: 3,
	MoodTriste:  2,
	MoodAnsioso: 1,
}

// ValidMood reports whether mood is one of the recognised labels.
func ValidMood(mood string) bool {
	_, ok := moodScores[mood]
	return ok
}

// MoodScore returns the numeric score for a mood label, or 0 for an
// unrecognised one. Callers validate first; 0 is a defensive fallback.
func MoodScore(mood string) int {
	return moodScores[mood]
}

// Checkin is one mood check-in. Check-ins are immutable after creation and
// always belong to exactly one user; they are only ever queried by owner.
type Checkin struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Mood      string    `json:"mood"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats is the aggregate block returned alongside the profile.
//
// All four numbers are computed from real history (nothing is hardcoded):
//   - TotalCheckins: count of the caller's check-ins
//   - AverageMood:   emoji bucket of the mean mood score
//   - ChatbotSessions: chat interactions in the trailing 7 days
//   - Streak: consecutive calendar days with at least one check-in, ending today
type Stats struct {
	TotalCheckins   int    `json:"totalCheckins"`
	AverageMood     string `json:"averageMood"`
	ChatbotSessions int    `json:"chatbotSessions"`
	Streak          int    `json:"streak"`
}
