package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stonescan/stonescan-be/internal/auth"
	"github.com/stonescan/stonescan-be/internal/storage"
	"github.com/stretchr/testify/require"
)

var otpPattern = regexp.MustCompile(`\d{6}`)

// fakeSender captures outgoing mail so tests can read the delivered code.
type fakeSender struct {
	to   string
	body string
}

func (f *fakeSender) Send(to, subject, body string) error {
	f.to = to
	f.body = body
	return nil
}

func (f *fakeSender) code() string {
	return otpPattern.FindString(f.body)
}

func newAuthService(t *testing.T, otpTTL time.Duration) (*AuthService, *fakeSender) {
	t.Helper()
	store := storage.NewFileStore(t.TempDir())
	tokens, err := auth.NewTokenService("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	mail := &fakeSender{}
	events := NewEventService(store, nil)
	return NewAuthService(store, tokens, mail, events, otpTTL), mail
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, time.Minute)

	token, user, err := svc.Register("alice@example.com", "hunter2", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "Alice", user.Name)

	token, user, err = svc.Login("alice@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Alice", user.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, time.Minute)

	_, _, err := svc.Register("alice@example.com", "hunter2", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Register("alice@example.com", "other", "Imposter")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, time.Minute)

	_, _, err := svc.Login("nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Register("alice@example.com", "hunter2", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Login("alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, time.Minute)

	require.ErrorIs(t, svc.ForgotPassword("nobody@example.com"), ErrUserNotFound)
}

func TestOTPFlow(t *testing.T) {
	t.Parallel()
	svc, mail := newAuthService(t, time.Minute)

	_, _, err := svc.Register("alice@example.com", "hunter2", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword("alice@example.com"))
	require.Equal(t, "alice@example.com", mail.to)
	code := mail.code()
	require.Len(t, code, 6)

	// Wrong code fails, and does not consume the stored one.
	require.ErrorIs(t, svc.VerifyOTP("alice@example.com", "000000"), ErrInvalidOTP)

	// Correct code succeeds exactly once.
	require.NoError(t, svc.VerifyOTP("alice@example.com", code))
	require.ErrorIs(t, svc.VerifyOTP("alice@example.com", code), ErrInvalidOTP)
}

func TestOTPReplacedByNewRequest(t *testing.T) {
	t.Parallel()
	svc, mail := newAuthService(t, time.Minute)

	_, _, err := svc.Register("alice@example.com", "hunter2", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword("alice@example.com"))
	first := mail.code()
	require.NoError(t, svc.ForgotPassword("alice@example.com"))
	second := mail.code()

	if first != second {
		require.ErrorIs(t, svc.VerifyOTP("alice@example.com", first), ErrInvalidOTP)
	}
	require.NoError(t, svc.VerifyOTP("alice@example.com", second))
}

func TestOTPExpiry(t *testing.T) {
	t.Parallel()
	svc, mail := newAuthService(t, -time.Second)

	_, _, err := svc.Register("alice@example.com", "hunter2", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword("alice@example.com"))
	require.ErrorIs(t, svc.VerifyOTP("alice@example.com", mail.code()), ErrInvalidOTP)
}

func TestEvictExpiredOTPs(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, -time.Second)

	_, _, err := svc.Register("alice@example.com", "hunter2", "Alice")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword("alice@example.com"))

	require.Equal(t, 1, svc.EvictExpiredOTPs())
	require.Equal(t, 0, svc.EvictExpiredOTPs())
}

func TestResetPassword(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, time.Minute)

	require.ErrorIs(t, svc.ResetPassword("nobody@example.com", "new"), ErrUserNotFound)

	_, _, err := svc.Register("alice@example.com", "hunter2", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword("alice@example.com", "correct horse"))

	_, _, err = svc.Login("alice@example.com", "hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, user, err := svc.Login("alice@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "Alice", user.Name)
}
