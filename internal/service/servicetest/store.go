// Package servicetest provides in-memory implementations of the service ports for tests.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/repository"
)

// Store keeps every collection in memory and mirrors the repository error contract.
type Store struct {
	mu          sync.Mutex
	now         time.Time
	accounts    map[string]model.Account
	questions   map[string]model.Question
	papers      map[string]model.Paper
	copies      map[string][]model.Question
	assignments map[string][]model.Assignment
	results     map[string]model.Result
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		now:         time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		accounts:    map[string]model.Account{},
		questions:   map[string]model.Question{},
		papers:      map[string]model.Paper{},
		copies:      map[string][]model.Question{},
		assignments: map[string][]model.Assignment{},
		results:     map[string]model.Result{},
	}
}

// tick returns a strictly increasing timestamp.
func (s *Store) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

// Accounts returns the AccountStore view.
func (s *Store) Accounts() *Accounts { return &Accounts{s} }

// Questions returns the QuestionStore view.
func (s *Store) Questions() *Questions { return &Questions{s} }

// Papers returns the PaperStore view.
func (s *Store) Papers() *Papers { return &Papers{s} }

// Assignments returns the AssignmentStore view.
func (s *Store) Assignments() *Assignments { return &Assignments{s} }

// Results returns the ResultStore view.
func (s *Store) Results() *Results { return &Results{s} }

// SeedAccount stores an account as is.
func (s *Store) SeedAccount(a model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.tick()
	}
	s.accounts[a.ID] = a
}

// SeedQuestion stores a catalog question and returns its id.
func (s *Store) SeedQuestion(q model.Question) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.tick()
	}
	s.questions[q.ID] = q
	return q.ID
}

// SeedPaper stores a paper with the given copies and returns its id.
func (s *Store) SeedPaper(p model.Paper, copies ...model.Question) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = s.tick()
	s.papers[p.ID] = p
	s.copies[p.ID] = append([]model.Question(nil), copies...)
	return p.ID
}

// SeedAssignment assigns a paper to an account.
func (s *Store) SeedAssignment(accountID, paperID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[accountID] = append(s.assignments[accountID], model.Assignment{PaperID: paperID, AssignedAt: s.tick()})
}

// Assignment returns the stored assignment of the pair.
func (s *Store) Assignment(accountID, paperID string) (model.Assignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignments[accountID] {
		if a.PaperID == paperID {
			return a, true
		}
	}
	return model.Assignment{}, false
}

// ResultCount returns the number of stored results.
func (s *Store) ResultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// CopyCount returns the number of copies the paper holds.
func (s *Store) CopyCount(paperID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.copies[paperID])
}

// RemoveQuestion drops a catalog question.
func (s *Store) RemoveQuestion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, id)
}

// Accounts implements service.AccountStore.
type Accounts struct{ s *Store }

func (v *Accounts) Create(_ context.Context, a *model.Account) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.accounts[a.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, other := range v.s.accounts {
		if strings.EqualFold(other.Email, a.Email) {
			return repository.ErrDuplicate
		}
	}
	a.CreatedAt = v.s.tick()
	v.s.accounts[a.ID] = *a
	return nil
}

func (v *Accounts) GetByID(_ context.Context, id string) (*model.Account, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	a, ok := v.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (v *Accounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, a := range v.s.accounts {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (v *Accounts) List(_ context.Context) ([]model.Account, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make([]model.Account, 0, len(v.s.accounts))
	for _, a := range v.s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *Accounts) Update(_ context.Context, id string, u model.AccountUpdate) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	a, ok := v.s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Email != nil {
		for oid, other := range v.s.accounts {
			if oid != id && strings.EqualFold(other.Email, *u.Email) {
				return repository.ErrDuplicate
			}
		}
		a.Email = *u.Email
	}
	if u.PasswordHash != nil {
		a.PasswordHash = *u.PasswordHash
	}
	if u.Address != nil {
		a.Address = u.Address
	}
	if u.Phone != nil {
		a.Phone = u.Phone
	}
	v.s.accounts[id] = a
	return nil
}

func (v *Accounts) Delete(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(v.s.accounts, id)
	delete(v.s.assignments, id)
	return nil
}

// Questions implements service.QuestionStore.
type Questions struct{ s *Store }

func (v *Questions) List(_ context.Context) ([]model.Question, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make([]model.Question, 0, len(v.s.questions))
	for _, q := range v.s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *Questions) GetByIDs(_ context.Context, ids []string) (map[string]model.Question, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make(map[string]model.Question)
	for _, id := range ids {
		if q, ok := v.s.questions[id]; ok {
			out[id] = q
		}
	}
	return out, nil
}

func (v *Questions) CreateBatch(_ context.Context, questions []model.Question) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		questions[i].CreatedAt = v.s.tick()
		v.s.questions[questions[i].ID] = questions[i]
	}
	return nil
}

// Papers implements service.PaperStore.
type Papers struct{ s *Store }

func (v *Papers) Create(_ context.Context, p *model.Paper) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = v.s.tick()
	v.s.papers[p.ID] = *p
	return nil
}

func (v *Papers) GetByID(_ context.Context, id string) (*model.Paper, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	p, ok := v.s.papers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (v *Papers) List(_ context.Context) ([]model.Paper, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make([]model.Paper, 0, len(v.s.papers))
	for _, p := range v.s.papers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *Papers) Update(_ context.Context, p *model.Paper) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	cur, ok := v.s.papers[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.PaperName, cur.Duration, cur.NumOfQuestions = p.PaperName, p.Duration, p.NumOfQuestions
	v.s.papers[p.ID] = cur
	return nil
}

func (v *Papers) Delete(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.papers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(v.s.papers, id)
	delete(v.s.copies, id)
	return nil
}

func (v *Papers) ListQuestions(_ context.Context, paperID string) ([]model.Question, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return append([]model.Question(nil), v.s.copies[paperID]...), nil
}

func (v *Papers) GetQuestion(_ context.Context, paperID, questionID string) (*model.Question, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, q := range v.s.copies[paperID] {
		if q.ID == questionID {
			return &q, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (v *Papers) CountQuestions(_ context.Context, paperID string) (int, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return len(v.s.copies[paperID]), nil
}

func (v *Papers) ExistingQuestionIDs(_ context.Context, paperID string, ids []string) (map[string]bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[string]bool)
	for _, q := range v.s.copies[paperID] {
		if want[q.ID] {
			out[q.ID] = true
		}
	}
	return out, nil
}

func (v *Papers) AppendQuestions(_ context.Context, paperID string, copies []model.Question) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	p, ok := v.s.papers[paperID]
	if !ok {
		return repository.ErrNotFound
	}
	if len(v.s.copies[paperID])+len(copies) > p.NumOfQuestions {
		return repository.ErrPaperFull
	}
	for _, c := range copies {
		for _, q := range v.s.copies[paperID] {
			if q.ID == c.ID {
				return repository.ErrDuplicate
			}
		}
	}
	v.s.copies[paperID] = append(v.s.copies[paperID], copies...)
	return nil
}

func (v *Papers) UpdateQuestion(_ context.Context, paperID string, q *model.Question) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for i, c := range v.s.copies[paperID] {
		if c.ID == q.ID {
			v.s.copies[paperID][i] = *q
			return nil
		}
	}
	return repository.ErrNotFound
}

func (v *Papers) DeleteQuestion(_ context.Context, paperID, questionID string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	list := v.s.copies[paperID]
	for i, c := range list {
		if c.ID == questionID {
			v.s.copies[paperID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// Assignments implements service.AssignmentStore.
type Assignments struct{ s *Store }

func (v *Assignments) ListByAccount(_ context.Context, accountID string) ([]model.Assignment, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return append([]model.Assignment(nil), v.s.assignments[accountID]...), nil
}

func (v *Assignments) ExistingPaperIDs(_ context.Context, accountID string, paperIDs []string) (map[string]bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make(map[string]bool)
	for _, a := range v.s.assignments[accountID] {
		for _, pid := range paperIDs {
			if a.PaperID == pid {
				out[pid] = true
			}
		}
	}
	return out, nil
}

func (v *Assignments) CreateBatch(_ context.Context, accountID string, paperIDs []string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, pid := range paperIDs {
		for _, a := range v.s.assignments[accountID] {
			if a.PaperID == pid {
				return repository.ErrDuplicate
			}
		}
	}
	for _, pid := range paperIDs {
		v.s.assignments[accountID] = append(v.s.assignments[accountID], model.Assignment{PaperID: pid, AssignedAt: v.s.tick()})
	}
	return nil
}

// Results implements service.ResultStore.
type Results struct{ s *Store }

func (v *Results) ExistsForPair(_ context.Context, paperID, accountID string) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.findResult(accountID, paperID) != nil, nil
}

func (s *Store) findResult(accountID, paperID string) *model.Result {
	var latest *model.Result
	for _, r := range s.results {
		if r.AccountID == accountID && r.PaperID == paperID {
			if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
				r := r
				latest = &r
			}
		}
	}
	return latest
}

func (v *Results) CreateWithAssignment(_ context.Context, res *model.Result) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.findResult(res.AccountID, res.PaperID) != nil {
		return repository.ErrDuplicate
	}

	idx := -1
	for i, a := range v.s.assignments[res.AccountID] {
		if a.PaperID == res.PaperID {
			idx = i
		}
	}
	if idx < 0 {
		return repository.ErrAssignmentMissing
	}

	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.CreatedAt = v.s.tick()
	v.s.results[res.ID] = *res

	at := res.CreatedAt
	id := res.ID
	score := res.Score
	a := &v.s.assignments[res.AccountID][idx]
	a.IsSubmitted = true
	a.SubmittedOn = &at
	a.ResultID = &id
	a.Score = &score
	return nil
}

func (v *Results) GetByID(_ context.Context, id string) (*model.Result, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	r, ok := v.s.results[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (v *Results) GetLatest(_ context.Context, accountID, paperID string) (*model.Result, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	r := v.s.findResult(accountID, paperID)
	if r == nil {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (v *Results) ListRowsByPaper(_ context.Context, paperID string) ([]model.ResultRow, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	var rows []model.ResultRow
	for _, r := range v.s.results {
		if r.PaperID != paperID {
			continue
		}
		acc := v.s.accounts[r.AccountID]
		rows = append(rows, model.ResultRow{
			ResultID:    r.ID,
			AccountID:   r.AccountID,
			Name:        acc.Name,
			Email:       acc.Email,
			Score:       r.Score,
			Total:       r.Total,
			SubmittedAt: r.CreatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SubmittedAt.Before(rows[j].SubmittedAt) })
	return rows, nil
}
