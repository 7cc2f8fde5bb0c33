package session

import (
	"errors"
	"fmt"
)

// ErrAuthenticationFailed matches every *AuthError via errors.Is.
var ErrAuthenticationFailed = errors.New("authentication failed")

type AuthErrorKind string

const (
	AuthTimeout        AuthErrorKind = "timeout"
	AuthMissingElement AuthErrorKind = "missing-element"
	AuthNoCredentials  AuthErrorKind = "no-credentials"
	AuthDriver         AuthErrorKind = "driver"
)

// AuthError reports an unrecoverable login failure. No partial session is
// usable after it; the caller must abort the harvest.
type AuthError struct {
	Kind AuthErrorKind
	Step string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("authentication failed (%s) at %s", e.Kind, e.Step)
	}
	return fmt.Sprintf("authentication failed (%s) at %s: %v", e.Kind, e.Step, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuthenticationFailed
}
