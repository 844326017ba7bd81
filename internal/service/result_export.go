package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/quizbank-backend/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ResultsSheetHeaders are the column titles of the results workbook.
var ResultsSheetHeaders = []string{"result_id", "user_id", "name", "email", "score", "total", "submitted_at"}

// ExportPaperResults renders every result of the paper as an xlsx workbook.
// It returns the workbook bytes and a suggested file name.
func (s *ResultService) ExportPaperResults(ctx context.Context, paperID string) ([]byte, string, error) {
	paper, err := s.papers.GetByID(ctx, paperID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", notFound("Question paper not found")
		}
		return nil, "", err
	}

	rows, err := s.results.ListRowsByPaper(ctx, paperID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	header := make([]any, len(ResultsSheetHeaders))
	for i, h := range ResultsSheetHeaders {
		header[i] = h
	}
	if err := writeSheetRow(f, sheet, 1, header); err != nil {
		return nil, "", err
	}
	for i, r := range rows {
		values := []any{
			r.ResultID,
			r.AccountID,
			r.Name,
			r.Email,
			r.Score,
			r.Total,
			r.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writeSheetRow(f, sheet, i+2, values); err != nil {
			return nil, "", err
		}
	}
	if err := f.SetColWidth(sheet, "A", "G", 22); err != nil {
		return nil, "", fmt.Errorf("set column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	s.log.Info().Str("paper_id", paper.ID).Int("rows", len(rows)).Msg("Results exported")
	return buf.Bytes(), fmt.Sprintf("results-%s.xlsx", paper.ID), nil
}

// writeSheetRow fills one row starting at column A and stops at the first error.
func writeSheetRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
