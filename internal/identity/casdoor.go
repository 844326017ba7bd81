// Package identity manages accounts at the Casdoor identity provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/config"
)

// casdoorAPI is the subset of the Casdoor SDK client used here.
type casdoorAPI interface {
	GetUser(name string) (*casdoorsdk.User, error)
	GetUserByEmail(email string) (*casdoorsdk.User, error)
	AddUser(user *casdoorsdk.User) (bool, error)
	UpdateUser(user *casdoorsdk.User) (bool, error)
	DeleteUser(user *casdoorsdk.User) (bool, error)
}

// NewAccount is the data needed to create a provider account.
type NewAccount struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
}

// AccountUpdate changes provider account fields. Nil means unchanged.
type AccountUpdate struct {
	Email       *string
	Password    *string
	DisplayName *string
	Phone       *string
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Email == nil && u.Password == nil && u.DisplayName == nil && u.Phone == nil
}

// CasdoorGateway creates, updates and deletes accounts in a Casdoor organization.
// Provider account names are the ids used across the rest of the system.
type CasdoorGateway struct {
	client casdoorAPI
	org    string
	log    zerolog.Logger
}

// NewCasdoorGateway connects the SDK client with the configured application credentials.
func NewCasdoorGateway(cfg config.CasdoorConfig, log zerolog.Logger) *CasdoorGateway {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.OrganizationName,
		cfg.ApplicationName,
	)
	return newCasdoorGateway(client, cfg.OrganizationName, log)
}

func newCasdoorGateway(client casdoorAPI, org string, log zerolog.Logger) *CasdoorGateway {
	return &CasdoorGateway{
		client: client,
		org:    org,
		log:    log.With().Str("component", "casdoor_gateway").Logger(),
	}
}

// CreateAccount registers a provider account and returns its id.
func (g *CasdoorGateway) CreateAccount(ctx context.Context, acc NewAccount) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	existing, err := g.client.GetUserByEmail(acc.Email)
	if err != nil {
		return "", g.classify("look up email", err)
	}
	if existing != nil {
		return "", &ProviderError{Code: CodeEmailExists, Message: "The email address is already in use by another account."}
	}

	id := uuid.NewString()
	user := &casdoorsdk.User{
		Owner:       g.org,
		Name:        id,
		Id:          id,
		Type:        "normal-user",
		DisplayName: acc.DisplayName,
		Email:       acc.Email,
		Phone:       acc.Phone,
		Password:    acc.Password,
		CreatedTime: time.Now().UTC().Format(time.RFC3339),
	}

	ok, err := g.client.AddUser(user)
	if err != nil {
		return "", g.classify("add user", err)
	}
	if !ok {
		return "", &ProviderError{Code: CodeInvalidArgument, Message: "The identity provider did not accept the account."}
	}

	g.log.Info().Str("account_id", id).Msg("Provider account created")
	return id, nil
}

// UpdateAccount changes the supplied fields of a provider account.
func (g *CasdoorGateway) UpdateAccount(ctx context.Context, id string, upd AccountUpdate) error {
	if upd.Empty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	user, err := g.lookup(id)
	if err != nil {
		return err
	}

	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Password != nil {
		user.Password = *upd.Password
	}
	if upd.DisplayName != nil {
		user.DisplayName = *upd.DisplayName
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	user.UpdatedTime = time.Now().UTC().Format(time.RFC3339)

	ok, err := g.client.UpdateUser(user)
	if err != nil {
		return g.classify("update user", err)
	}
	if !ok {
		return &ProviderError{Code: CodeInvalidArgument, Message: "The identity provider did not accept the update."}
	}
	return nil
}

// DeleteAccount removes a provider account.
func (g *CasdoorGateway) DeleteAccount(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	user, err := g.lookup(id)
	if err != nil {
		return err
	}

	ok, err := g.client.DeleteUser(user)
	if err != nil {
		return g.classify("delete user", err)
	}
	if !ok {
		return &ProviderError{Code: CodeRejected, Message: "The identity provider did not delete the account."}
	}

	g.log.Info().Str("account_id", id).Msg("Provider account deleted")
	return nil
}

func (g *CasdoorGateway) lookup(id string) (*casdoorsdk.User, error) {
	user, err := g.client.GetUser(id)
	if err != nil {
		return nil, g.classify("get user", err)
	}
	if user == nil {
		return nil, &ProviderError{Code: CodeUserNotFound, Message: "There is no user record corresponding to the provided identifier."}
	}
	return user, nil
}

// classify keeps transport failures generic and turns provider responses into ProviderError.
func (g *CasdoorGateway) classify(op string, err error) error {
	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return fmt.Errorf("casdoor %s: %w", op, err)
	}
	g.log.Debug().Err(err).Str("op", op).Msg("Provider rejected request")
	return &ProviderError{Code: CodeRejected, Message: err.Error()}
}
