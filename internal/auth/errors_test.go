package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberlink_backend/internal/identity"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
	}{
		{"mapped code", identity.NewProviderError("EMAIL_EXISTS", nil), KindEmailInUse},
		{"weak password", identity.NewProviderError("WEAK_PASSWORD", nil), KindWeakPassword},
		{"unsupported platform", identity.NewProviderError(identity.CodeUnsupportedPlatform, nil), KindUnsupportedPlatform},
		{"unmapped code", identity.NewProviderError("ERROR_42", nil), KindUnknown},
		{"plain error", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, messages[tt.wantKind], got.Message)
		})
	}
}

func TestTranslate_PreservesExistingAuthError(t *testing.T) {
	original := NewError(KindPartialRegistration, errors.New("store down"))
	got := Translate(original)
	assert.Same(t, original, got)
}

func TestTranslate_Nil(t *testing.T) {
	assert.Nil(t, Translate(nil))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NewError(KindInvalidCredentials, cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindInvalidCredentials))
	assert.False(t, IsKind(err, KindAccountDisabled))
}
