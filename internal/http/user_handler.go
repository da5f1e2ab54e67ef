package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,notblank,max=80"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,max=80"`
	Password *string `json:"password" validate:"omitempty,min=4,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
}

type userHandler struct {
	*Service
	userSvc service.UserService
}

func (h *userHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}

	user, err := h.userSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return fmt.Errorf("user service login: %w", err)
	}

	return writeJSON(w, http.StatusOK, loginResponse{Message: "login successful", User: user})
}

func (h *userHandler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.userSvc.ListUsers(r.Context())
	if err != nil {
		return fmt.Errorf("user service list users: %w", err)
	}

	return writeJSON(w, http.StatusOK, users)
}

func (h *userHandler) CreateUser(w http.ResponseWriter, r *http.Request) error {
	var req createUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}

	user, err := h.userSvc.CreateUser(r.Context(), service.CreateUserParams(req))
	if err != nil {
		return fmt.Errorf("user service create user: %w", err)
	}

	return writeJSON(w, http.StatusCreated, user)
}

func (h *userHandler) UpdateUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}
	if err := requireNonBlank("username", req.Username); err != nil {
		return err
	}

	user, err := h.userSvc.UpdateUser(r.Context(), id, service.UpdateUserParams(req))
	if err != nil {
		return fmt.Errorf("user service update user: %w", err)
	}

	return writeJSON(w, http.StatusOK, user)
}

func (h *userHandler) DeleteUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.userSvc.DeleteUser(r.Context(), id); err != nil {
		return fmt.Errorf("user service delete user: %w", err)
	}

	return writeJSON(w, http.StatusOK, messageResponse{Message: "user deleted"})
}
