package identity

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/rs/zerolog"
)

type fakeCasdoor struct {
	users     map[string]*casdoorsdk.User
	addErr    error
	addOK     bool
	deleted   []string
	lastSaved *casdoorsdk.User
}

func newFakeCasdoor() *fakeCasdoor {
	return &fakeCasdoor{users: map[string]*casdoorsdk.User{}, addOK: true}
}

func (f *fakeCasdoor) GetUser(name string) (*casdoorsdk.User, error) {
	u, ok := f.users[name]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeCasdoor) GetUserByEmail(email string) (*casdoorsdk.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeCasdoor) AddUser(user *casdoorsdk.User) (bool, error) {
	if f.addErr != nil || !f.addOK {
		return false, f.addErr
	}
	f.users[user.Name] = user
	return true, nil
}

func (f *fakeCasdoor) UpdateUser(user *casdoorsdk.User) (bool, error) {
	f.users[user.Name] = user
	f.lastSaved = user
	return true, nil
}

func (f *fakeCasdoor) DeleteUser(user *casdoorsdk.User) (bool, error) {
	delete(f.users, user.Name)
	f.deleted = append(f.deleted, user.Name)
	return true, nil
}

func TestCreateAccount(t *testing.T) {
	fake := newFakeCasdoor()
	g := newCasdoorGateway(fake, "org", zerolog.Nop())

	id, err := g.CreateAccount(context.Background(), NewAccount{Email: "a@x.io", Password: "secret1", DisplayName: "A"})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	u := fake.users[id]
	if u == nil || u.Owner != "org" || u.Id != id || u.Email != "a@x.io" {
		t.Fatalf("stored user = %+v", u)
	}
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	fake := newFakeCasdoor()
	fake.users["u1"] = &casdoorsdk.User{Name: "u1", Email: "a@x.io"}
	g := newCasdoorGateway(fake, "org", zerolog.Nop())

	_, err := g.CreateAccount(context.Background(), NewAccount{Email: "a@x.io", Password: "secret1"})
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Code != CodeEmailExists {
		t.Fatalf("err = %v, want %s", err, CodeEmailExists)
	}
}

func TestCreateAccountErrorClassification(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		fake := newFakeCasdoor()
		fake.addErr = errors.New("password too weak")
		g := newCasdoorGateway(fake, "org", zerolog.Nop())

		_, err := g.CreateAccount(context.Background(), NewAccount{Email: "b@x.io"})
		var perr *ProviderError
		if !errors.As(err, &perr) || perr.Code != CodeRejected {
			t.Fatalf("err = %v, want provider rejection", err)
		}
	})

	t.Run("not accepted", func(t *testing.T) {
		fake := newFakeCasdoor()
		fake.addOK = false
		g := newCasdoorGateway(fake, "org", zerolog.Nop())

		_, err := g.CreateAccount(context.Background(), NewAccount{Email: "b@x.io"})
		var perr *ProviderError
		if !errors.As(err, &perr) || perr.Code != CodeInvalidArgument {
			t.Fatalf("err = %v, want invalid argument", err)
		}
	})

	t.Run("transport", func(t *testing.T) {
		fake := newFakeCasdoor()
		fake.addErr = &url.Error{Op: "Post", URL: "http://casdoor", Err: errors.New("connection refused")}
		g := newCasdoorGateway(fake, "org", zerolog.Nop())

		_, err := g.CreateAccount(context.Background(), NewAccount{Email: "b@x.io"})
		var perr *ProviderError
		if err == nil || errors.As(err, &perr) {
			t.Fatalf("err = %v, want generic transport error", err)
		}
	})
}

func TestUpdateAccount(t *testing.T) {
	fake := newFakeCasdoor()
	fake.users["u1"] = &casdoorsdk.User{Name: "u1", Email: "a@x.io", DisplayName: "Old"}
	g := newCasdoorGateway(fake, "org", zerolog.Nop())

	name := "New"
	if err := g.UpdateAccount(context.Background(), "u1", AccountUpdate{DisplayName: &name}); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if fake.lastSaved.DisplayName != "New" || fake.lastSaved.Email != "a@x.io" {
		t.Errorf("saved = %+v", fake.lastSaved)
	}

	if err := g.UpdateAccount(context.Background(), "u1", AccountUpdate{}); err != nil {
		t.Errorf("empty update: %v", err)
	}

	var perr *ProviderError
	err := g.UpdateAccount(context.Background(), "missing", AccountUpdate{DisplayName: &name})
	if !errors.As(err, &perr) || perr.Code != CodeUserNotFound {
		t.Errorf("err = %v, want %s", err, CodeUserNotFound)
	}
}

func TestDeleteAccount(t *testing.T) {
	fake := newFakeCasdoor()
	fake.users["u1"] = &casdoorsdk.User{Name: "u1"}
	g := newCasdoorGateway(fake, "org", zerolog.Nop())

	if err := g.DeleteAccount(context.Background(), "u1"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "u1" {
		t.Errorf("deleted = %v", fake.deleted)
	}
}
