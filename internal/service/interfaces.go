package service

import (
	"context"

	"github.com/stemsi/quizbank-backend/internal/identity"
	"github.com/stemsi/quizbank-backend/internal/model"
)

// AccountStore persists account profiles.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	Update(ctx context.Context, id string, u model.AccountUpdate) error
	Delete(ctx context.Context, id string) error
}

// AssignmentStore persists the papers assigned to accounts.
type AssignmentStore interface {
	ListByAccount(ctx context.Context, accountID string) ([]model.Assignment, error)
	ExistingPaperIDs(ctx context.Context, accountID string, paperIDs []string) (map[string]bool, error)
	CreateBatch(ctx context.Context, accountID string, paperIDs []string) error
}

// QuestionStore persists the question catalog.
type QuestionStore interface {
	List(ctx context.Context) ([]model.Question, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]model.Question, error)
	CreateBatch(ctx context.Context, questions []model.Question) error
}

// PaperStore persists papers and their question copies.
type PaperStore interface {
	Create(ctx context.Context, p *model.Paper) error
	GetByID(ctx context.Context, id string) (*model.Paper, error)
	List(ctx context.Context) ([]model.Paper, error)
	Update(ctx context.Context, p *model.Paper) error
	Delete(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, paperID string) ([]model.Question, error)
	GetQuestion(ctx context.Context, paperID, questionID string) (*model.Question, error)
	CountQuestions(ctx context.Context, paperID string) (int, error)
	ExistingQuestionIDs(ctx context.Context, paperID string, ids []string) (map[string]bool, error)
	AppendQuestions(ctx context.Context, paperID string, copies []model.Question) error
	UpdateQuestion(ctx context.Context, paperID string, q *model.Question) error
	DeleteQuestion(ctx context.Context, paperID, questionID string) error
}

// ResultStore persists graded submissions.
type ResultStore interface {
	ExistsForPair(ctx context.Context, paperID, accountID string) (bool, error)
	CreateWithAssignment(ctx context.Context, res *model.Result) error
	GetByID(ctx context.Context, id string) (*model.Result, error)
	GetLatest(ctx context.Context, accountID, paperID string) (*model.Result, error)
	ListRowsByPaper(ctx context.Context, paperID string) ([]model.ResultRow, error)
}

// IdentityProvider manages accounts at the external identity provider.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, acc identity.NewAccount) (string, error)
	UpdateAccount(ctx context.Context, id string, upd identity.AccountUpdate) error
	DeleteAccount(ctx context.Context, id string) error
}

// QuizGenerator produces question sets.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, questionType, topic, level string) ([]model.GeneratedQuestion, error)
}

// AnswerGrader decides whether a submitted answer is correct.
type AnswerGrader interface {
	Grade(ctx context.Context, q model.Question, submitted string) bool
}

// SubmissionGuard serializes submissions of one account for one paper.
// Acquire reports false when another submission holds the guard.
type SubmissionGuard interface {
	Acquire(ctx context.Context, accountID, paperID string) (release func(), acquired bool, err error)
}
