package model

import "time"

// Result is the graded record of one submission. At most one exists per (paper, account).
type Result struct {
	ID        string            `json:"id"`
	PaperID   string            `json:"paperId"`
	AccountID string            `json:"userId"`
	Responses []ResponseOutcome `json:"responses"`
	Score     int               `json:"score"`
	Total     int               `json:"total"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ResponseOutcome is the grading of a single answer.
type ResponseOutcome struct {
	QuestionID    string `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// DetailedOutcome is an outcome enriched with the current catalog question.
// CorrectAnswer holds the catalog answer, not the one stored at grading time.
type DetailedOutcome struct {
	ResponseOutcome
	Question     string       `json:"question"`
	Options      []string     `json:"options"`
	QuestionType QuestionType `json:"questionType"`
}

// ResultDetail is a result whose outcomes reference existing catalog questions only.
type ResultDetail struct {
	ID        string            `json:"id"`
	PaperID   string            `json:"paperId"`
	AccountID string            `json:"userId"`
	Score     int               `json:"score"`
	Total     int               `json:"total"`
	CreatedAt time.Time         `json:"createdAt"`
	Questions []DetailedOutcome `json:"questions"`
}

// ResultRow is one line of a paper's results report.
type ResultRow struct {
	ResultID    string
	AccountID   string
	Name        string
	Email       string
	Score       int
	Total       int
	SubmittedAt time.Time
}

// SubmittedAnswer is one answer in a submission.
type SubmittedAnswer struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

// SubmitResultRequest is the payload for a result submission. An empty response list is allowed.
type SubmitResultRequest struct {
	PaperID   string            `json:"paperId" binding:"required"`
	UserID    string            `json:"userId" binding:"required"`
	Responses []SubmittedAnswer `json:"responses" binding:"required,dive"`
}

// SubmitOutcome is returned by a submission. Success is false for duplicates.
type SubmitOutcome struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	ResultID  string            `json:"resultId,omitempty"`
	Score     int               `json:"score"`
	Total     int               `json:"total"`
	Responses []ResponseOutcome `json:"responses"`
	Skipped   []SkippedItem     `json:"skipped,omitempty"`
}
