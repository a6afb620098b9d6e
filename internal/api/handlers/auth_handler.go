package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/stonescan/stonescan-be/internal/models"
	"github.com/stonescan/stonescan-be/internal/services"
)

// AuthHandler handles HTTP requests for authentication and password
// recovery.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// ForgotPasswordPayload carries the email requesting a reset code.
type ForgotPasswordPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPPayload carries an email and its 6-digit code.
type VerifyOTPPayload struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResetPasswordPayload carries the email and replacement password.
type ResetPasswordPayload struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	token, user, err := h.service.Register(payload.Email, payload.Password, payload.Name)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

// Login handles user authentication and token generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	token, user, err := h.service.Login(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

// ForgotPassword generates a reset code and delivers it out-of-band. The
// response never contains the code.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload ForgotPasswordPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := h.service.ForgotPassword(payload.Email); err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to start password recovery")
		writeDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "OTP sent to email")
}

// VerifyOTP checks a reset code. Codes are single-use.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var payload VerifyOTPPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := h.service.VerifyOTP(payload.Email, payload.OTP); err != nil {
		writeDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "OTP verified")
}

// ResetPassword overwrites the account's password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload ResetPasswordPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := h.service.ResetPassword(payload.Email, payload.NewPassword); err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to reset password")
		writeDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successful")
}
