package model

import "time"

// SubcollectionAssignedPapers names the per-account list of assignments.
const SubcollectionAssignedPapers = "assignedPapers"

// Account is a registered user profile. ID is the identity provider's account id.
type Account struct {
	ID           string    `json:"uid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	Address      *string   `json:"address"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AccountDetail is an account together with its sub-collections keyed by name.
type AccountDetail struct {
	Account
	Subcollections map[string][]Assignment `json:"subcollections"`
}

// AccountUpdate carries the fields of a partial profile update. Nil means unchanged.
type AccountUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Address      *string
	Phone        *string
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil && u.Address == nil && u.Phone == nil
}

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,notblank,max=200"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6,max=72"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

// LoginRequest is the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token   string `json:"token"`
	IsAdmin bool   `json:"isAdmin"`
}

// EditAccountRequest is the payload for a partial profile update.
type EditAccountRequest struct {
	Name     *string `json:"name" binding:"omitempty,notblank,max=200"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}
