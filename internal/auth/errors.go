// File: internal/auth/errors.go
package auth

import (
	"errors"
	"fmt"
	"strings"

	"barberlink_backend/internal/identity"
)

// Kind classifies an authentication failure into the stable set callers can
// branch on. Provider-native codes are translated exactly once, at the facade
// boundary; nothing downstream ever sees a raw provider code.
type Kind string

const (
	KindInvalidCredentials      Kind = "invalid_credentials"
	KindAccountDisabled         Kind = "account_disabled"
	KindAccountNotFound         Kind = "account_not_found"
	KindEmailInUse              Kind = "email_in_use"
	KindWeakPassword            Kind = "weak_password"
	KindInvalidPhoneNumber      Kind = "invalid_phone_number"
	KindInvalidVerificationCode Kind = "invalid_verification_code"
	KindInvalidCredential       Kind = "invalid_credential"
	KindTooManyAttempts         Kind = "too_many_attempts"
	KindUnsupportedPlatform     Kind = "unsupported_platform"
	KindPartialRegistration     Kind = "partial_registration"
	KindUnknown                 Kind = "unknown"
)

// messages are the user-presentable texts per kind. Unknown failures get a
// generic message so raw provider internals never leak to the user.
var messages = map[Kind]string{
	KindInvalidCredentials:      "Incorrect email or password.",
	KindAccountDisabled:         "This account has been disabled.",
	KindAccountNotFound:         "No account exists for this email.",
	KindEmailInUse:              "An account already exists for this email.",
	KindWeakPassword:            "Password is too weak. Use at least 6 characters.",
	KindInvalidPhoneNumber:      "The phone number is not valid.",
	KindInvalidVerificationCode: "The verification code is incorrect or has expired.",
	KindInvalidCredential:       "The sign-in credential is invalid or has expired.",
	KindTooManyAttempts:         "Too many attempts. Please try again later.",
	KindUnsupportedPlatform:     "This sign-in method is not available on this platform.",
	KindPartialRegistration:     "Your account was created but could not be fully set up. Please sign in and complete your profile.",
	KindUnknown:                 "Authentication failed. Please try again.",
}

// providerCodes maps Identity Toolkit error codes onto failure kinds. Codes
// not listed here fall through to KindUnknown.
var providerCodes = map[string]Kind{
	"EMAIL_NOT_FOUND":             KindAccountNotFound,
	"INVALID_PASSWORD":            KindInvalidCredentials,
	"INVALID_LOGIN_CREDENTIALS":   KindInvalidCredentials,
	"INVALID_EMAIL":               KindInvalidCredentials,
	"USER_DISABLED":               KindAccountDisabled,
	"EMAIL_EXISTS":                KindEmailInUse,
	"WEAK_PASSWORD":               KindWeakPassword,
	"INVALID_PHONE_NUMBER":        KindInvalidPhoneNumber,
	"MISSING_PHONE_NUMBER":        KindInvalidPhoneNumber,
	"INVALID_CODE":                KindInvalidVerificationCode,
	"MISSING_CODE":                KindInvalidVerificationCode,
	"SESSION_EXPIRED":             KindInvalidVerificationCode,
	"INVALID_IDP_RESPONSE":        KindInvalidCredential,
	"INVALID_ID_TOKEN":            KindInvalidCredential,
	"TOKEN_EXPIRED":               KindInvalidCredential,
	"TOO_MANY_ATTEMPTS_TRY_LATER": KindTooManyAttempts,
	"QUOTA_EXCEEDED":              KindTooManyAttempts,

	identity.CodeUnsupportedPlatform: KindUnsupportedPlatform,
}

// Error is a classified authentication failure with a user-presentable
// message and the underlying cause preserved for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("auth: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error of the given kind with its canonical message.
func NewError(kind Kind, cause error) *Error {
	msg, ok := messages[kind]
	if !ok {
		msg = messages[KindUnknown]
	}
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// Translate converts a provider failure into a classified Error. Non-provider
// errors and unmapped codes become KindUnknown.
func Translate(err error) *Error {
	if err == nil {
		return nil
	}
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr
	}
	var provErr *identity.ProviderError
	if errors.As(err, &provErr) {
		code := strings.TrimSpace(provErr.Code)
		if kind, ok := providerCodes[code]; ok {
			return NewError(kind, err)
		}
	}
	return NewError(KindUnknown, err)
}

// IsKind reports whether err is an auth Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var authErr *Error
	return errors.As(err, &authErr) && authErr.Kind == kind
}
