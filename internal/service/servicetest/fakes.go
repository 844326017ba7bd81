package servicetest

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/stemsi/quizbank-backend/internal/identity"
	"github.com/stemsi/quizbank-backend/internal/model"
)

// FakeIdentity is an in-memory identity provider keyed by account id.
type FakeIdentity struct {
	mu        sync.Mutex
	Accounts  map[string]identity.NewAccount
	CreateErr error
	UpdateErr error
	DeleteErr error
	Deleted   []string
}

// NewFakeIdentity returns an empty FakeIdentity.
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{Accounts: map[string]identity.NewAccount{}}
}

func (f *FakeIdentity) CreateAccount(_ context.Context, acc identity.NewAccount) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	for _, existing := range f.Accounts {
		if strings.EqualFold(existing.Email, acc.Email) {
			return "", &identity.ProviderError{Code: identity.CodeEmailExists, Message: "The email address is already in use by another account."}
		}
	}
	id := uuid.NewString()
	f.Accounts[id] = acc
	return id, nil
}

func (f *FakeIdentity) UpdateAccount(_ context.Context, id string, upd identity.AccountUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	acc, ok := f.Accounts[id]
	if !ok {
		return &identity.ProviderError{Code: identity.CodeUserNotFound, Message: "There is no user record corresponding to the provided identifier."}
	}
	if upd.Email != nil {
		acc.Email = *upd.Email
	}
	if upd.Password != nil {
		acc.Password = *upd.Password
	}
	if upd.DisplayName != nil {
		acc.DisplayName = *upd.DisplayName
	}
	if upd.Phone != nil {
		acc.Phone = *upd.Phone
	}
	f.Accounts[id] = acc
	return nil
}

func (f *FakeIdentity) DeleteAccount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.Accounts, id)
	f.Deleted = append(f.Deleted, id)
	return nil
}

// Has reports whether the provider still holds the account.
func (f *FakeIdentity) Has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Accounts[id]
	return ok
}

// StubGenerator returns a fixed question set or error.
type StubGenerator struct {
	Questions []model.GeneratedQuestion
	Err       error
	Calls     int
}

func (g *StubGenerator) GenerateQuiz(_ context.Context, _, _, _ string) ([]model.GeneratedQuestion, error) {
	g.Calls++
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Questions, nil
}

// StubJudge answers every free-text judgment with Verdict.
type StubJudge struct {
	Verdict bool
	Calls   int
}

func (j *StubJudge) JudgeFreeText(_ context.Context, _, _, _ string) bool {
	j.Calls++
	return j.Verdict
}

// StubGuard is a SubmissionGuard whose outcome is set by the test.
type StubGuard struct {
	Held     bool
	Err      error
	Released int
}

func (g *StubGuard) Acquire(_ context.Context, _, _ string) (func(), bool, error) {
	if g.Err != nil {
		return func() {}, false, g.Err
	}
	if g.Held {
		return func() {}, false, nil
	}
	return func() { g.Released++ }, true, nil
}
