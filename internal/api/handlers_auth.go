// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

package api

import (
	"errors"
	"net/http"

	"github.com/lanternhq/lantern/internal/validation"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Register creates an account and returns a session token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if err := validateRequest(rw, &req); err != nil {
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		rw.ServiceError(err)
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(sessionResponse{Token: token, UserID: user.ID, Username: user.Username})
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("invalid request body")
		return
	}
	if err := validateRequest(rw, &req); err != nil {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		// Map every authentication failure to 401 rather than leaking
		// whether the username exists.
		rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(sessionResponse{Token: token, UserID: user.ID, Username: user.Username})
}

// validateRequest runs struct validation and writes the error response
// itself; callers bail out when it returns non-nil.
func validateRequest(rw *ResponseWriter, req interface{}) error {
	err := validation.ValidateStruct(req)
	if err == nil {
		return nil
	}
	var reqErr *validation.RequestError
	if errors.As(err, &reqErr) {
		rw.ValidationError(reqErr)
	} else {
		rw.BadRequest("invalid request")
	}
	return err
}
