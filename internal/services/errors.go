package services

import "errors"

// Domain errors surfaced by the services. Handlers map these onto HTTP
// status codes; anything else is an internal failure.
var (
	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned when login fails, whether the email
	// is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by password-recovery operations for an
	// unknown email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidOTP is returned when a one-time code is absent, expired or
	// does not match.
	ErrInvalidOTP = errors.New("invalid OTP")

	// ErrReportStoreMissing is returned when a delete is attempted but the
	// report store document does not exist at all.
	ErrReportStoreMissing = errors.New("report store missing")
)
