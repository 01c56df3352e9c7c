package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-taskboard/internal/middleware"
	"go-taskboard/internal/model"
	"go-taskboard/internal/service"
	"go-taskboard/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("Invalid JSON body."), "")
		return
	}

	if err := h.service.Register(r.Context(), payload.Username, payload.Password); err != nil {
		writeError(w, err, "Registration failed. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully."})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("Invalid JSON body."), "")
		return
	}

	signed, err := h.service.Login(r.Context(), payload.Username, payload.Password)

	var resetErr *service.PasswordResetRequiredError
	if errors.As(err, &resetErr) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":           "Password must be reset before logging in.",
			"passwordExpired": true,
			"tempToken":       resetErr.TempToken,
		})
		return
	}
	if err != nil {
		writeError(w, err, "Login failed.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// RequestPasswordReset issues a change-password token from the username
// alone; the recovery flow has no second identity factor.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("Invalid JSON body."), "")
		return
	}

	tempToken, err := h.service.RequestPasswordReset(r.Context(), payload.Username)
	if err != nil {
		writeError(w, err, "Failed to process password reset request.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"tempToken": tempToken})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Authentication required."), "")
		return
	}

	var payload model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("Invalid JSON body."), "")
		return
	}

	signed, err := h.service.ChangePassword(r.Context(), claims.UserID, payload.Password)
	if err != nil {
		writeError(w, err, "Failed to change password.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully.",
		"token":   signed,
	})
}
