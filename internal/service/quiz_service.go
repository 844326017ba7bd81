package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stemsi/quizbank-backend/internal/ai"
	"github.com/stemsi/quizbank-backend/internal/model"
)

// QuizService produces AI generated question sets.
type QuizService struct {
	gen QuizGenerator
}

// NewQuizService creates a new QuizService.
func NewQuizService(gen QuizGenerator) *QuizService {
	return &QuizService{gen: gen}
}

// Generate returns a question set for the requested type, topic and level.
func (s *QuizService) Generate(ctx context.Context, req model.GenerateQuizRequest) ([]model.GeneratedQuestion, error) {
	if strings.TrimSpace(req.QuestionType) == "" || strings.TrimSpace(req.QuestionTopic) == "" || strings.TrimSpace(req.QuestionLevel) == "" {
		return nil, invalidInput("questionType, questionTopic and questionLevel are required")
	}

	questions, err := s.gen.GenerateQuiz(ctx, req.QuestionType, req.QuestionTopic, req.QuestionLevel)
	if err != nil {
		if errors.Is(err, ai.ErrUnsupportedType) {
			return nil, invalidInput(ai.ErrUnsupportedType.Error())
		}
		return nil, err
	}
	return questions, nil
}
