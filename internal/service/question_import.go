package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportRowError reports a sheet row that could not be turned into a question.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ParseQuestionSheet reads questions from the first sheet of an xlsx workbook.
// The header row must contain question_type and question; question_topic,
// question_level, options (separated by "|") and answer are optional.
func ParseQuestionSheet(r io.Reader) ([]model.QuestionInput, []ImportRowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, errors.New("no data rows found")
	}

	header := map[string]int{}
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"question_type", "question"} {
		if _, ok := header[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var (
		inputs  []model.QuestionInput
		rowErrs []ImportRowError
	)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		get := func(key string) string {
			idx, ok := header[key]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		qType := strings.ToLower(get("question_type"))
		text := get("question")
		if text == "" {
			rowErrs = append(rowErrs, ImportRowError{Row: i + 1, Error: "question is empty"})
			continue
		}
		switch model.QuestionType(qType) {
		case model.QuestionTypeMCQ, model.QuestionTypeOneLine, model.QuestionTypeCoding:
		default:
			rowErrs = append(rowErrs, ImportRowError{Row: i + 1, Error: fmt.Sprintf("unknown question_type %q", qType)})
			continue
		}

		options := []string{}
		if raw := get("options"); raw != "" {
			for _, o := range strings.Split(raw, "|") {
				if o = strings.TrimSpace(o); o != "" {
					options = append(options, o)
				}
			}
		}

		inputs = append(inputs, model.QuestionInput{
			QuestionType:  qType,
			QuestionTopic: get("question_topic"),
			QuestionLevel: get("question_level"),
			Question:      text,
			Options:       options,
			Answer:        get("answer"),
		})
	}
	return inputs, rowErrs, nil
}
