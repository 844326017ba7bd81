package grading

import (
	"context"
	"testing"

	"github.com/stemsi/quizbank-backend/internal/model"
)

type stubJudge struct {
	verdict bool
	calls   int
	last    [3]string
}

func (j *stubJudge) JudgeFreeText(_ context.Context, question, reference, submitted string) bool {
	j.calls++
	j.last = [3]string{question, reference, submitted}
	return j.verdict
}

func TestMatchChoice(t *testing.T) {
	tests := []struct {
		submitted, reference string
		want                 bool
	}{
		{" paris ", "Paris", true},
		{"PARIS", "paris", true},
		{"Paris", "  Paris\n", true},
		{"Lyon", "Paris", false},
		{"", "Paris", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := MatchChoice(tt.submitted, tt.reference); got != tt.want {
			t.Errorf("MatchChoice(%q, %q) = %v, want %v", tt.submitted, tt.reference, got, tt.want)
		}
	}
}

func TestMatchOutput(t *testing.T) {
	tests := []struct {
		submitted, reference string
		want                 bool
	}{
		{" 8 ", "8", true},
		{"Hello", "hello", false},
		{"8\n", "8", true},
		{"8 9", "8  9", false},
	}
	for _, tt := range tests {
		if got := MatchOutput(tt.submitted, tt.reference); got != tt.want {
			t.Errorf("MatchOutput(%q, %q) = %v, want %v", tt.submitted, tt.reference, got, tt.want)
		}
	}
}

func TestGraderRoutesByType(t *testing.T) {
	judge := &stubJudge{verdict: true}
	g := NewGrader(judge)
	ctx := context.Background()

	mcq := model.Question{QuestionType: model.QuestionTypeMCQ, Answer: "Paris"}
	if !g.Grade(ctx, mcq, " paris ") {
		t.Error("mcq answer should match case-insensitively")
	}

	coding := model.Question{QuestionType: model.QuestionTypeCoding, Answer: "Hello"}
	if g.Grade(ctx, coding, "hello") {
		t.Error("coding output must match case-sensitively")
	}

	if judge.calls != 0 {
		t.Fatalf("judge called %d times for local types", judge.calls)
	}

	oneLine := model.Question{QuestionType: model.QuestionTypeOneLine, Question: "Capital of France?", Answer: "Paris"}
	if !g.Grade(ctx, oneLine, "It is Paris") {
		t.Error("one-line answer should follow the judge verdict")
	}
	if judge.calls != 1 || judge.last != [3]string{"Capital of France?", "Paris", "It is Paris"} {
		t.Errorf("judge got %v after %d calls", judge.last, judge.calls)
	}
}

func TestGraderFailClosed(t *testing.T) {
	g := NewGrader(&stubJudge{verdict: false})

	oneLine := model.Question{QuestionType: model.QuestionTypeOneLine, Answer: "Paris"}
	if g.Grade(context.Background(), oneLine, "Paris") {
		t.Error("a failing judge must grade the answer incorrect")
	}

	unknown := model.Question{QuestionType: "essay", Answer: "x"}
	if g.Grade(context.Background(), unknown, "x") {
		t.Error("unknown question types must never be correct")
	}
}
