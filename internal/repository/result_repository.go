package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quizbank-backend/internal/model"
)

const resultColumns = `id, paper_id, account_id, responses, score, total, created_at`

// ResultRepository handles graded submissions.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func scanResult(row pgx.Row) (*model.Result, error) {
	var (
		res model.Result
		raw []byte
	)
	if err := row.Scan(&res.ID, &res.PaperID, &res.AccountID, &raw, &res.Score, &res.Total, &res.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	if err := json.Unmarshal(raw, &res.Responses); err != nil {
		return nil, fmt.Errorf("decode responses of result %s: %w", res.ID, err)
	}
	return &res, nil
}

// ExistsForPair reports whether the account already has a result for the paper.
func (r *ResultRepository) ExistsForPair(ctx context.Context, paperID, accountID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM results WHERE paper_id = $1 AND account_id = $2)`,
		paperID, accountID,
	).Scan(&exists)
	return exists, err
}

// CreateWithAssignment stores the result and marks the matching assignment submitted
// in one transaction. ErrDuplicate means a result for the pair already exists;
// ErrAssignmentMissing means the paper was never assigned and nothing was written.
func (r *ResultRepository) CreateWithAssignment(ctx context.Context, res *model.Result) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.Responses == nil {
		res.Responses = []model.ResponseOutcome{}
	}
	raw, err := json.Marshal(res.Responses)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO results (id, paper_id, account_id, responses, score, total)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT ON CONSTRAINT results_paper_account_key DO NOTHING
			 RETURNING created_at`,
			res.ID, res.PaperID, res.AccountID, raw, res.Score, res.Total,
		).Scan(&res.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrDuplicate
			}
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE assignments
			 SET is_submitted = TRUE, submitted_on = $3, result_id = $4, score = $5
			 WHERE account_id = $1 AND paper_id = $2`,
			res.AccountID, res.PaperID, res.CreatedAt, res.ID, res.Score,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAssignmentMissing
		}
		return nil
	})
}

// GetByID returns one result.
func (r *ResultRepository) GetByID(ctx context.Context, id string) (*model.Result, error) {
	return scanResult(r.pool.QueryRow(ctx, `SELECT `+resultColumns+` FROM results WHERE id = $1`, id))
}

// GetLatest returns the newest result of the account for the paper.
func (r *ResultRepository) GetLatest(ctx context.Context, accountID, paperID string) (*model.Result, error) {
	return scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE account_id = $1 AND paper_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`, accountID, paperID))
}

// ListRowsByPaper returns one report row per result of the paper, best score first.
// Results of deleted accounts keep empty name and email.
func (r *ResultRepository) ListRowsByPaper(ctx context.Context, paperID string) ([]model.ResultRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.account_id, COALESCE(a.name, ''), COALESCE(a.email, ''), r.score, r.total, r.created_at
		 FROM results r
		 LEFT JOIN accounts a ON a.id = r.account_id
		 WHERE r.paper_id = $1
		 ORDER BY r.score DESC, r.created_at`, paperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ResultRow
	for rows.Next() {
		var row model.ResultRow
		if err := rows.Scan(&row.ResultID, &row.AccountID, &row.Name, &row.Email, &row.Score, &row.Total, &row.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
