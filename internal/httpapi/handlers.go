// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package httpapi

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/giftlink/giftlink/internal/auth"
	"github.com/giftlink/giftlink/pkg/errutil"
)

// HeaderEmail names the account an update targets.
const HeaderEmail = "email"

const maxBodyBytes = 64 << 10

// Response bodies.
const (
	msgDuplicateEmail    = "Email already exists"
	msgUserNotFound      = "User not found"
	msgIncorrectPassword = "Incorrect password"
	msgMissingEmail      = "Email not found in the request headers"
	msgForbidden         = "Token does not match the account being updated"
	msgInvalidBody       = "Invalid request body"
	msgTokenRequired     = "Authorization token required"
	msgTokenInvalid      = "Invalid token"
	msgTokenExpired      = "Token expired"
	msgInternal          = "Internal server error"
)

type registerResponse struct {
	AuthToken string `json:"authtoken"`
	Email     string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken string `json:"authtoken"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type updateResponse struct {
	AuthToken string `json:"authtoken"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors []auth.Violation `json:"errors"`
}

func (h *handler) register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}

	start := time.Now()
	res, err := h.svc.Register(c.Request.Context(), req)
	h.observe("register", err, start)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, registerResponse{AuthToken: res.Token, Email: res.Email})
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}

	start := time.Now()
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	h.observe("login", err, start)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{AuthToken: res.Token, UserName: res.DisplayName, UserEmail: res.Email})
}

func (h *handler) update(c *gin.Context) {
	callerID, ok := h.bearerSubject(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}

	start := time.Now()
	res, err := h.svc.Update(c.Request.Context(), auth.UpdateInput{
		Email:    c.GetHeader(HeaderEmail),
		CallerID: callerID,
		Body:     body,
	})
	h.observe("update", err, start)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updateResponse{AuthToken: res.Token})
}

// bearerSubject returns the user id of a valid bearer token. It writes a 401
// and returns false when the token is malformed, or absent but required.
func (h *handler) bearerSubject(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if h.updateRequiresToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msgTokenRequired})
			return "", false
		}
		return "", true
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msgTokenInvalid})
		return "", false
	}

	claims, err := h.tokens.Decode(strings.TrimSpace(token))
	if err != nil {
		msg := msgTokenInvalid
		if auth.HasCode(err, auth.CodeTokenExpired) {
			msg = msgTokenExpired
		}
		h.logger.InfoContext(c.Request.Context(), "bearer token rejected", "code", errutil.Code(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msg})
		return "", false
	}
	return claims.User.ID, true
}

// writeError maps a service error to its status and body. Internal errors
// carry no detail.
func (h *handler) writeError(c *gin.Context, err error) {
	switch errutil.Code(err) {
	case auth.CodeDuplicateEmail:
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgDuplicateEmail})
	case auth.CodeUserNotFound:
		c.JSON(http.StatusNotFound, errorResponse{Error: msgUserNotFound})
	case auth.CodeInvalidCredentials:
		c.JSON(http.StatusUnauthorized, errorResponse{Error: msgIncorrectPassword})
	case auth.CodeValidationFailed:
		violations := auth.ViolationsOf(err)
		if violations == nil {
			violations = []auth.Violation{}
		}
		c.JSON(http.StatusBadRequest, validationResponse{Errors: violations})
	case auth.CodeMissingIdentifier:
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgMissingEmail})
	case auth.CodeIdentityMismatch:
		c.JSON(http.StatusForbidden, errorResponse{Error: msgForbidden})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}

func (h *handler) observe(operation string, err error, start time.Time) {
	outcome := "ok"
	switch auth.KindOf(err) {
	case auth.KindClient:
		outcome = "client_error"
	case auth.KindInternal:
		outcome = "internal_error"
	}
	h.metrics.ObserveAuth(operation, outcome, time.Since(start))
}
