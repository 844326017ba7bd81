package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/repository"
)

// PaperService handles question papers, their question copies and paper assignment.
type PaperService struct {
	papers      PaperStore
	questions   QuestionStore
	accounts    AccountStore
	assignments AssignmentStore
	log         zerolog.Logger
}

// NewPaperService creates a new PaperService.
func NewPaperService(papers PaperStore, questions QuestionStore, accounts AccountStore, assignments AssignmentStore, log zerolog.Logger) *PaperService {
	return &PaperService{
		papers:      papers,
		questions:   questions,
		accounts:    accounts,
		assignments: assignments,
		log:         log.With().Str("component", "paper_service").Logger(),
	}
}

// Create stores a new, empty paper.
func (s *PaperService) Create(ctx context.Context, req model.CreatePaperRequest) (*model.Paper, error) {
	if err := validatePaperFields(req.PaperName, req.Duration, req.NumOfQuestions); err != nil {
		return nil, err
	}

	paper := &model.Paper{
		PaperName:      strings.TrimSpace(req.PaperName),
		Duration:       req.Duration,
		NumOfQuestions: req.NumOfQuestions,
	}
	if err := s.papers.Create(ctx, paper); err != nil {
		return nil, err
	}
	return paper, nil
}

// List returns every paper with its question copies.
func (s *PaperService) List(ctx context.Context) ([]model.PaperWithQuestions, error) {
	papers, err := s.papers.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, notFound("No question papers found")
	}

	out := make([]model.PaperWithQuestions, 0, len(papers))
	for _, p := range papers {
		questions, err := s.papers.ListQuestions(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.PaperWithQuestions{Paper: p, Questions: orEmpty(questions)})
	}
	return out, nil
}

// Get returns a single paper with its question copies.
func (s *PaperService) Get(ctx context.Context, id string) (*model.PaperWithQuestions, error) {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.papers.ListQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.PaperWithQuestions{Paper: *paper, Questions: orEmpty(questions)}, nil
}

// Edit replaces the paper's name, duration and capacity.
func (s *PaperService) Edit(ctx context.Context, req model.EditPaperRequest) error {
	if strings.TrimSpace(req.PaperID) == "" {
		return invalidInput("paperId is required")
	}
	if err := validatePaperFields(req.PaperName, req.Duration, req.NumOfQuestions); err != nil {
		return err
	}

	err := s.papers.Update(ctx, &model.Paper{
		ID:             req.PaperID,
		PaperName:      strings.TrimSpace(req.PaperName),
		Duration:       req.Duration,
		NumOfQuestions: req.NumOfQuestions,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Question paper not found")
	}
	return err
}

// Delete removes the paper together with its question copies.
func (s *PaperService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalidInput("paperId is required")
	}
	err := s.papers.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Question paper not found")
	}
	return err
}

// AddQuestions copies catalog questions into the paper, in request order, until it is full.
// Each id that is not copied is reported with the reason.
func (s *PaperService) AddQuestions(ctx context.Context, paperID string, questionIDs []string) (*model.BulkOutcome, error) {
	if strings.TrimSpace(paperID) == "" || len(questionIDs) == 0 {
		return nil, invalidInput("paperId and questionIds are required")
	}

	paper, err := s.getPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	count, err := s.papers.CountQuestions(ctx, paperID)
	if err != nil {
		return nil, err
	}
	sources, err := s.questions.GetByIDs(ctx, questionIDs)
	if err != nil {
		return nil, err
	}
	existing, err := s.papers.ExistingQuestionIDs(ctx, paperID, questionIDs)
	if err != nil {
		return nil, err
	}

	out := &model.BulkOutcome{Skipped: []model.SkippedItem{}, WasFull: count >= paper.NumOfQuestions}
	added := make(map[string]bool)
	var copies []model.Question

	for _, id := range questionIDs {
		src, found := sources[id]
		switch {
		case count+len(copies) >= paper.NumOfQuestions:
			out.Skipped = append(out.Skipped, model.SkippedItem{ID: id, Reason: model.SkipPaperFull})
		case !found:
			out.Skipped = append(out.Skipped, model.SkippedItem{ID: id, Reason: model.SkipQuestionNotFound})
		case existing[id] || added[id]:
			out.Skipped = append(out.Skipped, model.SkippedItem{ID: id, Reason: model.SkipAlreadyInPaper})
		default:
			copies = append(copies, src)
			added[id] = true
		}
	}

	if len(copies) == 0 {
		return out, nil
	}

	if err := s.papers.AppendQuestions(ctx, paperID, copies); err != nil {
		var reason string
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("Question paper not found")
		case errors.Is(err, repository.ErrPaperFull):
			reason = model.SkipPaperFull
		case errors.Is(err, repository.ErrDuplicate):
			reason = model.SkipAlreadyInPaper
		default:
			return nil, err
		}
		// Another request changed the paper between our checks and the insert.
		for _, q := range copies {
			out.Skipped = append(out.Skipped, model.SkippedItem{ID: q.ID, Reason: reason})
		}
		return out, nil
	}

	out.Added = len(copies)
	s.log.Info().Str("paper_id", paperID).Int("added", out.Added).Int("skipped", len(out.Skipped)).Msg("Questions added to paper")
	return out, nil
}

// EditQuestion rewrites one question copy. Empty type, topic and level keep the stored value.
func (s *PaperService) EditQuestion(ctx context.Context, req model.EditPaperQuestionRequest) (*model.Question, error) {
	if strings.TrimSpace(req.PaperID) == "" || strings.TrimSpace(req.QuestionID) == "" || strings.TrimSpace(req.Question) == "" {
		return nil, invalidInput("paperId, questionId and question are required")
	}

	if _, err := s.getPaper(ctx, req.PaperID); err != nil {
		return nil, err
	}
	current, err := s.papers.GetQuestion(ctx, req.PaperID, req.QuestionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Question not found in this paper")
		}
		return nil, err
	}

	updated := *current
	updated.Question = req.Question
	updated.Options = orEmptyStrings(req.Options)
	updated.Answer = req.Answer
	if req.QuestionType != "" {
		updated.QuestionType = model.QuestionType(req.QuestionType)
	}
	if req.QuestionTopic != "" {
		updated.QuestionTopic = req.QuestionTopic
	}
	if req.QuestionLevel != "" {
		updated.QuestionLevel = req.QuestionLevel
	}

	if err := s.papers.UpdateQuestion(ctx, req.PaperID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Question not found in this paper")
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteQuestion removes one question copy from the paper.
func (s *PaperService) DeleteQuestion(ctx context.Context, paperID, questionID string) error {
	if strings.TrimSpace(paperID) == "" || strings.TrimSpace(questionID) == "" {
		return invalidInput("paperId and questionId are required")
	}
	if _, err := s.getPaper(ctx, paperID); err != nil {
		return err
	}
	err := s.papers.DeleteQuestion(ctx, paperID, questionID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Question not found in this paper")
	}
	return err
}

// AssignPapers assigns each existing, not yet assigned paper to the account.
func (s *PaperService) AssignPapers(ctx context.Context, accountID string, paperIDs []string) (*model.BulkOutcome, error) {
	if strings.TrimSpace(accountID) == "" || len(paperIDs) == 0 {
		return nil, invalidInput("userId and paperIds are required")
	}

	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, err
	}

	existing, err := s.assignments.ExistingPaperIDs(ctx, accountID, paperIDs)
	if err != nil {
		return nil, err
	}

	out := &model.BulkOutcome{Skipped: []model.SkippedItem{}}
	var toAssign []string
	queued := make(map[string]bool)

	for _, pid := range paperIDs {
		if existing[pid] || queued[pid] {
			out.Skipped = append(out.Skipped, model.SkippedItem{ID: pid, Reason: model.SkipAlreadyAssigned})
			continue
		}
		if _, err := s.papers.GetByID(ctx, pid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				out.Skipped = append(out.Skipped, model.SkippedItem{ID: pid, Reason: model.SkipPaperNotFound})
				continue
			}
			return nil, err
		}
		toAssign = append(toAssign, pid)
		queued[pid] = true
	}

	if len(toAssign) == 0 {
		return out, nil
	}

	if err := s.assignments.CreateBatch(ctx, accountID, toAssign); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		for _, pid := range toAssign {
			out.Skipped = append(out.Skipped, model.SkippedItem{ID: pid, Reason: model.SkipAlreadyAssigned})
		}
		return out, nil
	}

	out.Added = len(toAssign)
	s.log.Info().Str("account_id", accountID).Int("assigned", out.Added).Msg("Papers assigned")
	return out, nil
}

func (s *PaperService) getPaper(ctx context.Context, id string) (*model.Paper, error) {
	paper, err := s.papers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Question paper not found")
		}
		return nil, err
	}
	return paper, nil
}

func validatePaperFields(name string, duration, numOfQuestions int) error {
	if strings.TrimSpace(name) == "" || duration <= 0 || numOfQuestions <= 0 {
		return invalidInput("paperName, duration and numOfQuestions are required")
	}
	return nil
}

func orEmpty(questions []model.Question) []model.Question {
	if questions == nil {
		return []model.Question{}
	}
	return questions
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
