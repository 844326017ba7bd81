package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/service"
	"github.com/stemsi/quizbank-backend/internal/service/servicetest"
)

func TestQuestionService_CreateAndList(t *testing.T) {
	store := servicetest.NewStore()
	svc := service.NewQuestionService(store.Questions(), nopLog)
	ctx := context.Background()

	if _, err := svc.List(ctx); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("empty catalog = %v", err)
	}

	created, err := svc.Create(ctx, []model.QuestionInput{
		{QuestionType: "mcq", QuestionTopic: "geo", QuestionLevel: "easy", Question: "Capital of France?", Options: []string{"Paris", "Rome"}, Answer: "Paris"},
		{QuestionType: "one-line", QuestionTopic: "bio", QuestionLevel: "easy", Question: "What do plants need?", Answer: "sunlight"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created) != 2 || created[0].ID == "" || created[0].ID == created[1].ID {
		t.Fatalf("created = %+v", created)
	}
	if created[1].Options == nil {
		t.Error("options should default to an empty list")
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("list = %d, want 2", len(list))
	}
}

func TestQuestionService_CreateRejectsEmpty(t *testing.T) {
	svc := service.NewQuestionService(servicetest.NewStore().Questions(), nopLog)

	if _, err := svc.Create(context.Background(), nil); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("nil list = %v", err)
	}
	if _, err := svc.Create(context.Background(), []model.QuestionInput{{QuestionType: "mcq", Question: "  "}}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("blank question = %v", err)
	}
}
