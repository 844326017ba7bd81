package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/repository"
)

// Submission outcome messages.
const (
	MsgSubmitted        = "Result submitted successfully"
	MsgAlreadySubmitted = "you have already submitted the test response"
	MsgSubmitInProgress = "your submission is already being processed"
)

// ResultService grades submissions and serves stored results.
type ResultService struct {
	results ResultStore
	papers  PaperStore
	catalog QuestionStore
	grader  AnswerGrader
	guard   SubmissionGuard
	log     zerolog.Logger
}

// NewResultService creates a new ResultService. guard may be nil.
func NewResultService(results ResultStore, papers PaperStore, catalog QuestionStore, grader AnswerGrader, guard SubmissionGuard, log zerolog.Logger) *ResultService {
	return &ResultService{
		results: results,
		papers:  papers,
		catalog: catalog,
		grader:  grader,
		guard:   guard,
		log:     log.With().Str("component", "result_service").Logger(),
	}
}

// Submit grades the responses against the paper's question copies and stores the result
// together with the assignment update. A second submission for the same pair is refused
// with Success=false.
func (s *ResultService) Submit(ctx context.Context, req model.SubmitResultRequest) (*model.SubmitOutcome, error) {
	if strings.TrimSpace(req.PaperID) == "" || strings.TrimSpace(req.UserID) == "" || req.Responses == nil {
		return nil, invalidInput("paperId, userId and responses are required")
	}

	if s.guard != nil {
		release, acquired, err := s.guard.Acquire(ctx, req.UserID, req.PaperID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("paper_id", req.PaperID).Str("account_id", req.UserID).Msg("Submission lock unavailable")
		case !acquired:
			return &model.SubmitOutcome{Success: false, Message: MsgSubmitInProgress, Responses: []model.ResponseOutcome{}}, nil
		default:
			defer release()
		}
	}

	exists, err := s.results.ExistsForPair(ctx, req.PaperID, req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return alreadySubmitted(), nil
	}

	copies, err := s.papers.ListQuestions(ctx, req.PaperID)
	if err != nil {
		return nil, err
	}
	if len(copies) == 0 {
		return nil, notFound("No questions found for this paper")
	}

	byID := make(map[string]model.Question, len(copies))
	for _, q := range copies {
		byID[q.ID] = q
	}

	outcomes := make([]model.ResponseOutcome, 0, len(req.Responses))
	skipped := []model.SkippedItem{}
	seen := make(map[string]bool, len(req.Responses))
	score := 0
	for _, r := range req.Responses {
		q, ok := byID[r.QuestionID]
		if !ok {
			skipped = append(skipped, model.SkippedItem{ID: r.QuestionID, Reason: model.SkipNotInPaper})
			continue
		}
		// Only the first answer to a question is graded.
		if seen[q.ID] {
			skipped = append(skipped, model.SkippedItem{ID: r.QuestionID, Reason: model.SkipDuplicateResponse})
			continue
		}
		seen[q.ID] = true
		correct := s.grader.Grade(ctx, q, r.Answer)
		if correct {
			score++
		}
		outcomes = append(outcomes, model.ResponseOutcome{
			QuestionID:    q.ID,
			UserAnswer:    r.Answer,
			CorrectAnswer: q.Answer,
			IsCorrect:     correct,
		})
	}

	res := &model.Result{
		PaperID:   req.PaperID,
		AccountID: req.UserID,
		Responses: outcomes,
		Score:     score,
		Total:     len(copies),
	}
	if err := s.results.CreateWithAssignment(ctx, res); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return alreadySubmitted(), nil
		case errors.Is(err, repository.ErrAssignmentMissing):
			s.log.Error().Str("paper_id", req.PaperID).Str("account_id", req.UserID).Msg("Submission without assignment rolled back")
			return nil, ErrAssignmentMissing
		}
		return nil, err
	}

	s.log.Info().
		Str("result_id", res.ID).
		Str("paper_id", res.PaperID).
		Str("account_id", res.AccountID).
		Int("score", score).
		Int("total", res.Total).
		Msg("Submission graded")

	return &model.SubmitOutcome{
		Success:   true,
		Message:   MsgSubmitted,
		ResultID:  res.ID,
		Score:     score,
		Total:     res.Total,
		Responses: outcomes,
		Skipped:   skipped,
	}, nil
}

func alreadySubmitted() *model.SubmitOutcome {
	return &model.SubmitOutcome{Success: false, Message: MsgAlreadySubmitted, Responses: []model.ResponseOutcome{}}
}

// GetLatest returns the newest result of the account for the paper.
func (s *ResultService) GetLatest(ctx context.Context, accountID, paperID string) (*model.Result, error) {
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(paperID) == "" {
		return nil, invalidInput("userId and paperId are required")
	}
	res, err := s.results.GetLatest(ctx, accountID, paperID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("No result found for this user & paper")
		}
		return nil, err
	}
	return res, nil
}

// GetDetail returns the result with each outcome joined to its current catalog question.
// Outcomes whose question was removed from the catalog are left out.
func (s *ResultService) GetDetail(ctx context.Context, resultID string) (*model.ResultDetail, error) {
	if strings.TrimSpace(resultID) == "" {
		return nil, invalidInput("resultId is required")
	}
	res, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Result not found")
		}
		return nil, err
	}

	ids := make([]string, 0, len(res.Responses))
	for _, r := range res.Responses {
		ids = append(ids, r.QuestionID)
	}
	catalog := map[string]model.Question{}
	if len(ids) > 0 {
		catalog, err = s.catalog.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	detail := &model.ResultDetail{
		ID:        res.ID,
		PaperID:   res.PaperID,
		AccountID: res.AccountID,
		Score:     res.Score,
		Total:     res.Total,
		CreatedAt: res.CreatedAt,
		Questions: make([]model.DetailedOutcome, 0, len(res.Responses)),
	}
	for _, r := range res.Responses {
		q, ok := catalog[r.QuestionID]
		if !ok {
			continue
		}
		outcome := r
		outcome.CorrectAnswer = q.Answer
		detail.Questions = append(detail.Questions, model.DetailedOutcome{
			ResponseOutcome: outcome,
			Question:        q.Question,
			Options:         orEmptyStrings(q.Options),
			QuestionType:    q.QuestionType,
		})
	}
	return detail, nil
}
