package model

import "time"

// Question is a catalog entry. Paper copies share the same shape.
type Question struct {
	ID            string       `json:"id"`
	QuestionType  QuestionType `json:"questionType"`
	QuestionTopic string       `json:"questionTopic"`
	QuestionLevel string       `json:"questionLevel"`
	Question      string       `json:"question"`
	Options       []string     `json:"options"`
	Answer        string       `json:"answer"`
	CreatedAt     time.Time    `json:"createdAt"`
}

type QuestionType string

const (
	QuestionTypeMCQ     QuestionType = "mcq"
	QuestionTypeOneLine QuestionType = "one-line"
	QuestionTypeCoding  QuestionType = "coding"
)

// QuestionInput describes one question to store.
type QuestionInput struct {
	QuestionType  string   `json:"questionType" binding:"required,oneof=mcq one-line coding"`
	QuestionTopic string   `json:"questionTopic" binding:"required"`
	QuestionLevel string   `json:"questionLevel" binding:"required"`
	Question      string   `json:"question" binding:"required,notblank"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer"`
}

// AddQuestionsRequest is the payload for bulk question creation.
type AddQuestionsRequest struct {
	Questions []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}
