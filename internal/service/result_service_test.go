package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stemsi/quizbank-backend/internal/grading"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/service"
	"github.com/stemsi/quizbank-backend/internal/service/servicetest"
	"github.com/xuri/excelize/v2"
)

type resultFixture struct {
	store   *servicetest.Store
	judge   *servicetest.StubJudge
	guard   *servicetest.StubGuard
	svc     *service.ResultService
	paperID string
}

func newResultFixture(t *testing.T) *resultFixture {
	t.Helper()
	store := servicetest.NewStore()
	judge := &servicetest.StubJudge{}
	guard := &servicetest.StubGuard{}

	for _, q := range []model.Question{
		{ID: "q1", QuestionType: model.QuestionTypeMCQ, Question: "Capital of France?", Options: []string{"Paris", "Rome"}, Answer: "Paris"},
		{ID: "q2", QuestionType: model.QuestionTypeOneLine, Question: "Why is the sky blue?", Answer: "Rayleigh scattering"},
		{ID: "q3", QuestionType: model.QuestionTypeCoding, Question: "print(1+1)", Answer: "2"},
	} {
		store.SeedQuestion(q)
	}
	catalog, _ := store.Questions().List(context.Background())
	paperID := store.SeedPaper(model.Paper{PaperName: "P", Duration: 10, NumOfQuestions: 3}, catalog...)

	store.SeedAccount(model.Account{ID: "u1", Name: "Ada", Email: "ada@example.com"})
	store.SeedAssignment("u1", paperID)

	svc := service.NewResultService(store.Results(), store.Papers(), store.Questions(), grading.NewGrader(judge), guard, nopLog)
	return &resultFixture{store: store, judge: judge, guard: guard, svc: svc, paperID: paperID}
}

func TestResultService_SubmitGrades(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()

	out, err := f.svc.Submit(ctx, model.SubmitResultRequest{
		PaperID: f.paperID,
		UserID:  "u1",
		Responses: []model.SubmittedAnswer{
			{QuestionID: "q1", Answer: " paris "},
			{QuestionID: "q3", Answer: "3"},
			{QuestionID: "zzz", Answer: "x"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.Success || out.Message != service.MsgSubmitted || out.ResultID == "" {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Score != 1 || out.Total != 3 {
		t.Errorf("score/total = %d/%d, want 1/3", out.Score, out.Total)
	}
	if len(out.Responses) != 2 || !out.Responses[0].IsCorrect || out.Responses[1].IsCorrect {
		t.Errorf("responses = %+v", out.Responses)
	}
	if out.Responses[0].CorrectAnswer != "Paris" || out.Responses[0].UserAnswer != " paris " {
		t.Errorf("mcq outcome = %+v", out.Responses[0])
	}
	if len(out.Skipped) != 1 || out.Skipped[0] != (model.SkippedItem{ID: "zzz", Reason: model.SkipNotInPaper}) {
		t.Errorf("skipped = %+v", out.Skipped)
	}
	if f.guard.Released != 1 {
		t.Errorf("guard released %d times", f.guard.Released)
	}

	a, ok := f.store.Assignment("u1", f.paperID)
	if !ok || !a.IsSubmitted || a.ResultID == nil || *a.ResultID != out.ResultID || a.Score == nil || *a.Score != 1 || a.SubmittedOn == nil {
		t.Errorf("assignment = %+v", a)
	}
}

func TestResultService_SubmitOneLineUsesJudge(t *testing.T) {
	f := newResultFixture(t)
	f.judge.Verdict = false

	out, err := f.svc.Submit(context.Background(), model.SubmitResultRequest{
		PaperID:   f.paperID,
		UserID:    "u1",
		Responses: []model.SubmittedAnswer{{QuestionID: "q2", Answer: "light scattering"}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if f.judge.Calls != 1 {
		t.Errorf("judge calls = %d", f.judge.Calls)
	}
	if out.Score != 0 || out.Responses[0].IsCorrect {
		t.Errorf("failed judgment must grade incorrect: %+v", out)
	}
}

func TestResultService_SubmitDuplicateResponse(t *testing.T) {
	f := newResultFixture(t)

	out, err := f.svc.Submit(context.Background(), model.SubmitResultRequest{
		PaperID: f.paperID,
		UserID:  "u1",
		Responses: []model.SubmittedAnswer{
			{QuestionID: "q1", Answer: "Paris"},
			{QuestionID: "q1", Answer: "Paris"},
			{QuestionID: "q1", Answer: "Rome"},
			{QuestionID: "q1", Answer: "Paris"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Message != "Result submitted successfully" {
		t.Errorf("message = %q", out.Message)
	}
	if out.Score > out.Total || out.Score != 1 {
		t.Errorf("score/total = %d/%d, want 1/3", out.Score, out.Total)
	}
	if len(out.Responses) != 1 || out.Responses[0].UserAnswer != "Paris" {
		t.Errorf("only the first answer must be graded: %+v", out.Responses)
	}
	if len(out.Skipped) != 3 {
		t.Fatalf("skipped = %+v", out.Skipped)
	}
	for _, sk := range out.Skipped {
		if sk != (model.SkippedItem{ID: "q1", Reason: model.SkipDuplicateResponse}) {
			t.Errorf("skipped item = %+v", sk)
		}
	}

	a, _ := f.store.Assignment("u1", f.paperID)
	if a.Score == nil || *a.Score != 1 {
		t.Errorf("assignment score = %v", a.Score)
	}
}

func TestResultService_SubmitUnmatchedKeepsResponseList(t *testing.T) {
	f := newResultFixture(t)

	out, err := f.svc.Submit(context.Background(), model.SubmitResultRequest{
		PaperID:   f.paperID,
		UserID:    "u1",
		Responses: []model.SubmittedAnswer{{QuestionID: "ghost", Answer: "x"}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.Success || out.Score != 0 {
		t.Fatalf("outcome = %+v", out)
	}

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte(`"responses":[]`)) {
		t.Errorf("responses list missing from %s", raw)
	}
}

func TestResultService_SubmitTwice(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()
	req := model.SubmitResultRequest{PaperID: f.paperID, UserID: "u1", Responses: []model.SubmittedAnswer{}}

	first, err := f.svc.Submit(ctx, req)
	if err != nil || !first.Success {
		t.Fatalf("first = %+v, %v", first, err)
	}
	if first.Score != 0 || first.Total != 3 {
		t.Errorf("empty submission = %d/%d", first.Score, first.Total)
	}

	second, err := f.svc.Submit(ctx, req)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Success || second.Message != service.MsgAlreadySubmitted {
		t.Errorf("second = %+v", second)
	}
	if n := f.store.ResultCount(); n != 1 {
		t.Errorf("results = %d, want 1", n)
	}
}

func TestResultService_SubmitGuardHeld(t *testing.T) {
	f := newResultFixture(t)
	f.guard.Held = true

	out, err := f.svc.Submit(context.Background(), model.SubmitResultRequest{PaperID: f.paperID, UserID: "u1", Responses: []model.SubmittedAnswer{}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Success || out.Message != service.MsgSubmitInProgress {
		t.Errorf("outcome = %+v", out)
	}
	if f.store.ResultCount() != 0 {
		t.Error("result stored while guard held")
	}
}

func TestResultService_SubmitGuardErrorIgnored(t *testing.T) {
	f := newResultFixture(t)
	f.guard.Err = errors.New("redis down")

	out, err := f.svc.Submit(context.Background(), model.SubmitResultRequest{PaperID: f.paperID, UserID: "u1", Responses: []model.SubmittedAnswer{}})
	if err != nil || !out.Success {
		t.Fatalf("submit = %+v, %v", out, err)
	}
}

func TestResultService_SubmitWithoutAssignment(t *testing.T) {
	f := newResultFixture(t)
	f.store.SeedAccount(model.Account{ID: "u2", Email: "u2@example.com"})

	_, err := f.svc.Submit(context.Background(), model.SubmitResultRequest{PaperID: f.paperID, UserID: "u2", Responses: []model.SubmittedAnswer{}})
	if !errors.Is(err, service.ErrAssignmentMissing) {
		t.Fatalf("err = %v, want ErrAssignmentMissing", err)
	}
	if f.store.ResultCount() != 0 {
		t.Error("result kept after missing assignment")
	}
}

func TestResultService_SubmitValidation(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, model.SubmitResultRequest{PaperID: f.paperID, UserID: "u1"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("nil responses = %v", err)
	}
	if _, err := f.svc.Submit(ctx, model.SubmitResultRequest{PaperID: "", UserID: "u1", Responses: []model.SubmittedAnswer{}}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("no paper = %v", err)
	}

	empty := f.store.SeedPaper(model.Paper{PaperName: "Empty", Duration: 1, NumOfQuestions: 1})
	if _, err := f.svc.Submit(ctx, model.SubmitResultRequest{PaperID: empty, UserID: "u1", Responses: []model.SubmittedAnswer{}}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("paper without questions = %v", err)
	}
}

func TestResultService_GetLatestAndDetail(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GetLatest(ctx, "u1", f.paperID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("latest before submit = %v", err)
	}

	out, err := f.svc.Submit(ctx, model.SubmitResultRequest{
		PaperID: f.paperID,
		UserID:  "u1",
		Responses: []model.SubmittedAnswer{
			{QuestionID: "q1", Answer: "Rome"},
			{QuestionID: "q3", Answer: "2"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	latest, err := f.svc.GetLatest(ctx, "u1", f.paperID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != out.ResultID || latest.Score != 1 {
		t.Errorf("latest = %+v", latest)
	}

	f.store.RemoveQuestion("q3")
	detail, err := f.svc.GetDetail(ctx, out.ResultID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Questions) != 1 {
		t.Fatalf("detail questions = %+v, want only q1", detail.Questions)
	}
	q := detail.Questions[0]
	if q.QuestionID != "q1" || q.Question != "Capital of France?" || q.CorrectAnswer != "Paris" || len(q.Options) != 2 {
		t.Errorf("detail = %+v", q)
	}

	if _, err := f.svc.GetDetail(ctx, "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("missing result = %v", err)
	}
}

func TestResultService_ExportPaperResults(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, model.SubmitResultRequest{
		PaperID:   f.paperID,
		UserID:    "u1",
		Responses: []model.SubmittedAnswer{{QuestionID: "q1", Answer: "Paris"}},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	data, name, err := f.svc.ExportPaperResults(ctx, f.paperID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "results-"+f.paperID+".xlsx" {
		t.Errorf("file name = %q", name)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()
	rows, err := wb.GetRows(wb.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != service.ResultsSheetHeaders[0] {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "u1" || rows[1][2] != "Ada" || rows[1][4] != "1" || rows[1][5] != "3" {
		t.Errorf("row = %v", rows[1])
	}

	if _, _, err := f.svc.ExportPaperResults(ctx, "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("missing paper = %v", err)
	}
}
