// Package grading decides whether a submitted answer matches a question's reference answer.
package grading

import (
	"context"
	"strings"

	"github.com/stemsi/quizbank-backend/internal/model"
)

// Judge rules on free-text answers. Implementations must return false on any failure.
type Judge interface {
	JudgeFreeText(ctx context.Context, question, reference, submitted string) bool
}

// Strategy grades one answer for a single question type.
type Strategy interface {
	Grade(ctx context.Context, q model.Question, submitted string) bool
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(ctx context.Context, q model.Question, submitted string) bool

func (f StrategyFunc) Grade(ctx context.Context, q model.Question, submitted string) bool {
	return f(ctx, q, submitted)
}

// Grader routes by question type to the matching Strategy.
type Grader struct {
	strategies map[model.QuestionType]Strategy
}

// NewGrader builds the default grader: choice and output matching are local,
// one-line answers go to the judge.
func NewGrader(judge Judge) *Grader {
	return &Grader{
		strategies: map[model.QuestionType]Strategy{
			model.QuestionTypeMCQ: StrategyFunc(func(_ context.Context, q model.Question, submitted string) bool {
				return MatchChoice(submitted, q.Answer)
			}),
			model.QuestionTypeCoding: StrategyFunc(func(_ context.Context, q model.Question, submitted string) bool {
				return MatchOutput(submitted, q.Answer)
			}),
			model.QuestionTypeOneLine: StrategyFunc(func(ctx context.Context, q model.Question, submitted string) bool {
				return judge.JudgeFreeText(ctx, q.Question, q.Answer, submitted)
			}),
		},
	}
}

// Grade reports whether submitted is correct for q. Unknown question types are never correct.
func (g *Grader) Grade(ctx context.Context, q model.Question, submitted string) bool {
	s, ok := g.strategies[q.QuestionType]
	if !ok {
		return false
	}
	return s.Grade(ctx, q, submitted)
}

// MatchChoice compares a chosen option with the reference, ignoring surrounding space and case.
func MatchChoice(submitted, reference string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(reference))
}

// MatchOutput compares a program output with the reference, ignoring surrounding space only.
func MatchOutput(submitted, reference string) bool {
	return strings.TrimSpace(submitted) == strings.TrimSpace(reference)
}
