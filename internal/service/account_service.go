package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/identity"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/repository"
)

// AccountService handles registration, login and account administration.
type AccountService struct {
	accounts    AccountStore
	assignments AssignmentStore
	idp         IdentityProvider
	auth        *AuthService
	log         zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts AccountStore, assignments AssignmentStore, idp IdentityProvider, auth *AuthService, log zerolog.Logger) *AccountService {
	return &AccountService{
		accounts:    accounts,
		assignments: assignments,
		idp:         idp,
		auth:        auth,
		log:         log.With().Str("component", "account_service").Logger(),
	}
}

// Register creates the provider account and the profile of a regular user.
func (s *AccountService) Register(ctx context.Context, req model.RegisterRequest) (*model.Account, error) {
	return s.register(ctx, req, false)
}

// RegisterAdmin is Register for an administrator. Only operational commands call it.
func (s *AccountService) RegisterAdmin(ctx context.Context, req model.RegisterRequest) (*model.Account, error) {
	return s.register(ctx, req, true)
}

func (s *AccountService) register(ctx context.Context, req model.RegisterRequest, isAdmin bool) (*model.Account, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, invalidInput("name, email and password are required")
	}

	phone := ""
	if req.Phone != nil {
		phone = *req.Phone
	}

	uid, err := s.idp.CreateAccount(ctx, identity.NewAccount{
		Email:       email,
		Password:    req.Password,
		DisplayName: name,
		Phone:       phone,
	})
	if err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		s.rollbackProviderAccount(ctx, uid)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:           uid,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		Address:      req.Address,
		Phone:        req.Phone,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		s.rollbackProviderAccount(ctx, uid)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &identity.ProviderError{Code: identity.CodeEmailExists, Message: "The email address is already in use by another account."}
		}
		return nil, fmt.Errorf("store profile: %w", err)
	}

	s.log.Info().Str("account_id", uid).Bool("is_admin", isAdmin).Msg("Account registered")
	return account, nil
}

func (s *AccountService) rollbackProviderAccount(ctx context.Context, uid string) {
	if err := s.idp.DeleteAccount(context.WithoutCancel(ctx), uid); err != nil {
		s.log.Error().Err(err).Str("account_id", uid).Msg("Provider account left without profile")
	}
}

// Login verifies the credentials and issues a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalidInput("email and password are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, err
	}

	if err := s.auth.CheckPassword(account.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.auth.IssueSessionToken(ctx, account.ID, account.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: token, IsAdmin: account.IsAdmin}, nil
}

// ListNonAdmin returns every account that is not an administrator.
// An empty collection and a collection of administrators only both report NotFound.
func (s *AccountService) ListNonAdmin(ctx context.Context) ([]model.Account, error) {
	all, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, notFound("No users found")
	}

	users := make([]model.Account, 0, len(all))
	for _, a := range all {
		if !a.IsAdmin {
			users = append(users, a)
		}
	}
	if len(users) == 0 {
		return nil, notFound("No non-admin users found")
	}
	return users, nil
}

// GetWithSubcollections returns the account with every sub-collection it owns.
func (s *AccountService) GetWithSubcollections(ctx context.Context, id string) (*model.AccountDetail, error) {
	account, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	assigned, err := s.assignments.ListByAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if assigned == nil {
		assigned = []model.Assignment{}
	}

	return &model.AccountDetail{
		Account: *account,
		Subcollections: map[string][]model.Assignment{
			model.SubcollectionAssignedPapers: assigned,
		},
	}, nil
}

// Edit applies a partial update to the profile and mirrors it to the identity provider.
func (s *AccountService) Edit(ctx context.Context, id string, req model.EditAccountRequest) error {
	if strings.TrimSpace(id) == "" {
		return invalidInput("User UID is required")
	}
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	upd := model.AccountUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if req.Password != nil {
		hash, err := s.auth.HashPassword(*req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &hash
	}
	if upd.Empty() {
		return nil
	}

	if err := s.accounts.Update(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound("User not found")
		case errors.Is(err, repository.ErrDuplicate):
			return &identity.ProviderError{Code: identity.CodeEmailExists, Message: "The email address is already in use by another account."}
		}
		return err
	}

	return s.idp.UpdateAccount(ctx, id, identity.AccountUpdate{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.Name,
		Phone:       req.Phone,
	})
}

// Delete removes the profile, its assignments, its session and the provider account.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalidInput("User UID is required")
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User not found")
		}
		return err
	}

	if err := s.auth.ResetSession(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("account_id", id).Msg("Session reset failed")
	}

	if err := s.idp.DeleteAccount(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("account_id", id).Msg("Account deleted")
	return nil
}

func (s *AccountService) get(ctx context.Context, id string) (*model.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, err
	}
	return account, nil
}
