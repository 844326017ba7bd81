package model

import "time"

// Assignment links an account to a paper it must take.
type Assignment struct {
	PaperID     string     `json:"id"`
	AssignedAt  time.Time  `json:"assignedAt"`
	IsSubmitted bool       `json:"isSubmitted"`
	SubmittedOn *time.Time `json:"submittedOn"`
	ResultID    *string    `json:"resultId"`
	Score       *int       `json:"score"`
}
