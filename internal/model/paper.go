package model

import "time"

// Paper is an exam definition. NumOfQuestions is the declared capacity of its question copies.
type Paper struct {
	ID             string    `json:"id"`
	PaperName      string    `json:"paperName"`
	Duration       int       `json:"duration"`
	NumOfQuestions int       `json:"numOfQuestions"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PaperWithQuestions is a paper and the question copies it owns.
type PaperWithQuestions struct {
	Paper
	Questions []Question `json:"questions"`
}

// SkippedItem explains why one id of a bulk request was not applied.
type SkippedItem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Skip reasons reported by bulk paper operations and submissions.
const (
	SkipPaperFull         = "paper is full"
	SkipQuestionNotFound  = "question not found"
	SkipAlreadyInPaper    = "already in paper"
	SkipPaperNotFound     = "paper not found"
	SkipAlreadyAssigned   = "already assigned"
	SkipNotInPaper        = "question not in paper"
	SkipDuplicateResponse = "duplicate response"
)

// BulkOutcome is the result of a bulk paper operation.
type BulkOutcome struct {
	Added   int           `json:"addedCount"`
	Skipped []SkippedItem `json:"skipped"`
	// WasFull is set when the paper had no free slot before the call.
	WasFull bool `json:"-"`
}

// CreatePaperRequest is the payload for paper creation.
type CreatePaperRequest struct {
	PaperName      string `json:"paperName" binding:"required,notblank,max=200"`
	Duration       int    `json:"duration" binding:"required,min=1"`
	NumOfQuestions int    `json:"numOfQuestions" binding:"required,min=1"`
}

// EditPaperRequest is the payload for updating paper metadata. Every field is required.
type EditPaperRequest struct {
	PaperID        string `json:"paperId" binding:"required"`
	PaperName      string `json:"paperName" binding:"required,notblank,max=200"`
	Duration       int    `json:"duration" binding:"required,min=1"`
	NumOfQuestions int    `json:"numOfQuestions" binding:"required,min=1"`
}

// PaperIDRequest carries a single paper id in the body.
type PaperIDRequest struct {
	PaperID string `json:"paperId" binding:"required"`
}

// AddQuestionsToPaperRequest copies catalog questions into a paper.
type AddQuestionsToPaperRequest struct {
	PaperID     string   `json:"paperId" binding:"required"`
	QuestionIDs []string `json:"questionIds" binding:"required,min=1,dive,required"`
}

// EditPaperQuestionRequest edits one question copy. Empty type/topic/level keep the stored value.
type EditPaperQuestionRequest struct {
	PaperID       string   `json:"paperId" binding:"required"`
	QuestionID    string   `json:"questionId" binding:"required"`
	Question      string   `json:"question" binding:"required,notblank"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer"`
	QuestionType  string   `json:"questionType" binding:"omitempty,oneof=mcq one-line coding"`
	QuestionTopic string   `json:"questionTopic"`
	QuestionLevel string   `json:"questionLevel"`
}

// PaperQuestionRequest identifies one question copy.
type PaperQuestionRequest struct {
	PaperID    string `json:"paperId" binding:"required"`
	QuestionID string `json:"questionId" binding:"required"`
}

// AssignPapersRequest assigns papers to an account.
type AssignPapersRequest struct {
	UserID   string   `json:"userId" binding:"required"`
	PaperIDs []string `json:"paperIds" binding:"required,min=1,dive,required"`
}
