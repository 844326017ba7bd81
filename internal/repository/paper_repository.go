package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quizbank-backend/internal/model"
)

const paperColumns = `id, paper_name, duration, num_of_questions, created_at`

const paperQuestionColumns = `question_id, question_type, question_topic, question_level, question, options, answer, created_at`

// PaperRepository handles question papers and the question copies they own.
type PaperRepository struct {
	pool *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{pool: pool}
}

func scanPaper(row pgx.Row) (*model.Paper, error) {
	var p model.Paper
	if err := row.Scan(&p.ID, &p.PaperName, &p.Duration, &p.NumOfQuestions, &p.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Create inserts a new paper. A missing id is generated.
func (r *PaperRepository) Create(ctx context.Context, p *model.Paper) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO papers (id, paper_name, duration, num_of_questions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		p.ID, p.PaperName, p.Duration, p.NumOfQuestions,
	).Scan(&p.CreatedAt)
}

// GetByID returns a single paper without its questions.
func (r *PaperRepository) GetByID(ctx context.Context, id string) (*model.Paper, error) {
	return scanPaper(r.pool.QueryRow(ctx, `SELECT `+paperColumns+` FROM papers WHERE id = $1`, id))
}

// List returns every paper, oldest first.
func (r *PaperRepository) List(ctx context.Context) ([]model.Paper, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paperColumns+` FROM papers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []model.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

// Update replaces the paper metadata.
func (r *PaperRepository) Update(ctx context.Context, p *model.Paper) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE papers SET paper_name = $2, duration = $3, num_of_questions = $4 WHERE id = $1`,
		p.ID, p.PaperName, p.Duration, p.NumOfQuestions,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the paper and its question copies atomically.
func (r *PaperRepository) Delete(ctx context.Context, id string) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM paper_questions WHERE paper_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM papers WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListQuestions returns the question copies of a paper in insertion order.
func (r *PaperRepository) ListQuestions(ctx context.Context, paperID string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paperQuestionColumns+` FROM paper_questions WHERE paper_id = $1 ORDER BY added_at, question_id`, paperID)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// GetQuestion returns one question copy of a paper.
func (r *PaperRepository) GetQuestion(ctx context.Context, paperID, questionID string) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+paperQuestionColumns+` FROM paper_questions WHERE paper_id = $1 AND question_id = $2`,
		paperID, questionID))
}

// CountQuestions returns how many copies a paper holds.
func (r *PaperRepository) CountQuestions(ctx context.Context, paperID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM paper_questions WHERE paper_id = $1`, paperID).Scan(&n)
	return n, err
}

// ExistingQuestionIDs reports which of ids are already copied into the paper.
func (r *PaperRepository) ExistingQuestionIDs(ctx context.Context, paperID string, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(ids) == 0 {
		return existing, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT question_id FROM paper_questions WHERE paper_id = $1 AND question_id = ANY($2)`, paperID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// AppendQuestions copies questions into the paper as one atomic batch.
// The paper row is locked while its capacity is re-checked, so concurrent
// appends can never push the copy count past num_of_questions.
func (r *PaperRepository) AppendQuestions(ctx context.Context, paperID string, copies []model.Question) error {
	if len(copies) == 0 {
		return nil
	}

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		var capacity int
		err := tx.QueryRow(ctx, `SELECT num_of_questions FROM papers WHERE id = $1 FOR UPDATE`, paperID).Scan(&capacity)
		if err != nil {
			return notFound(err)
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM paper_questions WHERE paper_id = $1`, paperID).Scan(&count); err != nil {
			return err
		}
		if count+len(copies) > capacity {
			return ErrPaperFull
		}

		batch := &pgx.Batch{}
		for _, q := range copies {
			batch.Queue(
				`INSERT INTO paper_questions (paper_id, question_id, question_type, question_topic, question_level, question, options, answer, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				paperID, q.ID, q.QuestionType, q.QuestionTopic, q.QuestionLevel, q.Question, nonNilStrings(q.Options), q.Answer, q.CreatedAt,
			)
		}
		if err := execBatch(ctx, tx, batch); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

// UpdateQuestion rewrites one question copy.
func (r *PaperRepository) UpdateQuestion(ctx context.Context, paperID string, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE paper_questions
		 SET question_type = $3, question_topic = $4, question_level = $5, question = $6, options = $7, answer = $8
		 WHERE paper_id = $1 AND question_id = $2`,
		paperID, q.ID, q.QuestionType, q.QuestionTopic, q.QuestionLevel, q.Question, nonNilStrings(q.Options), q.Answer,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuestion removes one question copy.
func (r *PaperRepository) DeleteQuestion(ctx context.Context, paperID, questionID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM paper_questions WHERE paper_id = $1 AND question_id = $2`, paperID, questionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
