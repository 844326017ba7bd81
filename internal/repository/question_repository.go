package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quizbank-backend/internal/model"
)

const questionColumns = `id, question_type, question_topic, question_level, question, options, answer, created_at`

// QuestionRepository handles the question catalog.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var q model.Question
	if err := row.Scan(&q.ID, &q.QuestionType, &q.QuestionTopic, &q.QuestionLevel, &q.Question, &q.Options, &q.Answer, &q.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// List returns the whole catalog, oldest first.
func (r *QuestionRepository) List(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// GetByID returns a single catalog question.
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// GetByIDs returns the catalog questions that exist among ids, keyed by id.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []string) (map[string]model.Question, error) {
	found := make(map[string]model.Question, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	questions, err := collectQuestions(rows)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		found[q.ID] = q
	}
	return found, nil
}

// CreateBatch inserts all questions in one transaction. Missing ids are generated.
func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range questions {
			if questions[i].ID == "" {
				questions[i].ID = uuid.NewString()
			}
			q := questions[i]
			batch.Queue(
				`INSERT INTO questions (id, question_type, question_topic, question_level, question, options, answer)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 RETURNING created_at`,
				q.ID, q.QuestionType, q.QuestionTopic, q.QuestionLevel, q.Question, nonNilStrings(q.Options), q.Answer,
			)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range questions {
			if err := br.QueryRow().Scan(&questions[i].CreatedAt); err != nil {
				br.Close()
				return err
			}
		}
		return br.Close()
	})
}
