package model

// GenerateQuizRequest asks the AI gateway for a question set.
type GenerateQuizRequest struct {
	QuestionType  string `json:"questionType" binding:"required"`
	QuestionTopic string `json:"questionTopic" binding:"required,notblank,max=200"`
	QuestionLevel string `json:"questionLevel" binding:"required,max=50"`
}

// GeneratedQuestion is one AI-produced question. Options are present for mcq only.
type GeneratedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer"`
}
