package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/model"
)

// QuestionService handles the standalone question catalog.
type QuestionService struct {
	questions QuestionStore
	log       zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions QuestionStore, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		log:       log.With().Str("component", "question_service").Logger(),
	}
}

// List returns the whole catalog.
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, notFound("No questions found")
	}
	return questions, nil
}

// Create stores every input as a new catalog question in one atomic batch.
func (s *QuestionService) Create(ctx context.Context, inputs []model.QuestionInput) ([]model.Question, error) {
	if len(inputs) == 0 {
		return nil, invalidInput("Questions array required")
	}

	questions := make([]model.Question, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.Question) == "" {
			return nil, invalidInput("every question needs a question text")
		}
		options := in.Options
		if options == nil {
			options = []string{}
		}
		questions[i] = model.Question{
			QuestionType:  model.QuestionType(in.QuestionType),
			QuestionTopic: in.QuestionTopic,
			QuestionLevel: in.QuestionLevel,
			Question:      in.Question,
			Options:       options,
			Answer:        in.Answer,
		}
	}

	if err := s.questions.CreateBatch(ctx, questions); err != nil {
		return nil, err
	}

	s.log.Info().Int("count", len(questions)).Msg("Questions created")
	return questions, nil
}
