package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizbank-backend/internal/model"
	"github.com/stemsi/quizbank-backend/internal/response"
	"github.com/stemsi/quizbank-backend/internal/service"
	"github.com/stemsi/quizbank-backend/internal/validator"
)

// AccountHandler handles registration, login and user management endpoints.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Register godoc
// POST /api/users/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "User registered successfully", account)
}

// Login godoc
// POST /api/users/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.accountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Login successful", resp)
}

// ListUsers godoc
// GET /api/users/getAllUsers
// Lists every account that is not an administrator.
func (h *AccountHandler) ListUsers(c *gin.Context) {
	users, err := h.accountService.ListNonAdmin(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// GetUser godoc
// GET /api/users/getUser/:id
func (h *AccountHandler) GetUser(c *gin.Context) {
	detail, err := h.accountService.GetWithSubcollections(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// EditUser godoc
// PUT /api/users/editUser/:uid
func (h *AccountHandler) EditUser(c *gin.Context) {
	var req model.EditAccountRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.accountService.Edit(c.Request.Context(), c.Param("uid"), req); err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "User updated successfully", nil)
}

// DeleteUser godoc
// DELETE /api/users/deleteUser/:uid
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	if err := h.accountService.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "User deleted successfully", nil)
}
