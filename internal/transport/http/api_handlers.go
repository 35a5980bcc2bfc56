package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/chatline-server/internal/auth"
	"github.com/vovakirdan/chatline-server/internal/core"
	"github.com/vovakirdan/chatline-server/internal/proto"
	"github.com/vovakirdan/chatline-server/internal/store"
)

// APIHandlers serves the REST mirror of the account and history operations.
type APIHandlers struct {
	authService *auth.Service
	directory   store.Directory
	chats       store.MessageLog
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(authService *auth.Service, directory store.Directory, chats store.MessageLog, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		directory:   directory,
		chats:       chats,
		log:         logger,
	}
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response body.
type AuthResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Register handles account creation.
// POST /api/register
func (h *APIHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid register request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	identity, err := h.authService.Register(c.Request.Context(), auth.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgPasswordMismatch})
		return
	case errors.Is(err, auth.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgPasswordTooLong})
		return
	case errors.Is(err, auth.ErrInvalidRegistration):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgInvalidRegistration})
		return
	case errors.Is(err, auth.ErrUserExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: core.MsgDuplicateEmail})
		return
	case err != nil:
		h.log.Error().Err(err).Str("email", req.Email).Msg("failed to register user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgRegistrationFailed})
		return
	}

	h.log.Info().Str("email", identity.Email).Msg("user registered")
	c.JSON(http.StatusCreated, proto.User{Name: identity.Name, Email: identity.Email})
}

// Login exchanges credentials for a session token.
// POST /api/login
func (h *APIHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: core.MsgIncorrectLogin})
			return
		}
		h.log.Error().Err(err).Str("email", req.Email).Msg("failed to login user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgTryAgainLater})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

// ListUsers returns the directory without password hashes.
// GET /api/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	identities, err := h.directory.ListIdentities(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgTryAgainLater})
		return
	}

	c.JSON(http.StatusOK, lo.Map(identities, func(u *store.Identity, _ int) proto.User {
		return proto.User{Name: u.Name, Email: u.Email}
	}))
}

// ListChats returns the full chat history in insertion order.
// GET /api/chats
func (h *APIHandlers) ListChats(c *gin.Context) {
	records, err := h.chats.ListChats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list chats")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgTryAgainLater})
		return
	}

	c.JSON(http.StatusOK, lo.Map(records, chatFromRecord))
}
