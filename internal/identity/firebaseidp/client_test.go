package firebaseidp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"barberlink_backend/internal/config"
	"barberlink_backend/internal/identity"
)

type stubChallengeHost struct{ token string }

func (s *stubChallengeHost) RecaptchaToken(ctx context.Context) (string, error) {
	return s.token, nil
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": status, "message": message},
	})
}

func newToolkitServer(t *testing.T, requests *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			atomic.AddInt64(requests, 1)
		}
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Path {
		case "/accounts:signInWithPassword":
			if body["password"] != "correct-horse" {
				writeAPIError(w, 400, "INVALID_PASSWORD : The password is invalid.")
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"localId":      "uid-1",
				"email":        body["email"],
				"idToken":      "id-token-1",
				"refreshToken": "refresh-1",
			})
		case "/accounts:signUp":
			if body["email"] == "taken@example.com" {
				writeAPIError(w, 400, "EMAIL_EXISTS")
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"localId":      "uid-new",
				"email":        body["email"],
				"idToken":      "id-token-new",
				"refreshToken": "refresh-new",
			})
		case "/accounts:update":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"localId":     "uid-new",
				"displayName": body["displayName"],
				"idToken":     "id-token-updated",
			})
		case "/accounts:lookup":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"users": []map[string]interface{}{{
					"localId":     "uid-1",
					"email":       "user@example.com",
					"displayName": "Looked Up",
					"photoUrl":    "https://example.com/p.png",
					"createdAt":   "1700000000000",
				}},
			})
		case "/accounts:sendVerificationCode":
			assert.Equal(t, "captcha-token", body["recaptchaToken"])
			json.NewEncoder(w).Encode(map[string]interface{}{"sessionInfo": "session-abc"})
		case "/accounts:signInWithPhoneNumber":
			if body["code"] != "123456" {
				writeAPIError(w, 400, "INVALID_CODE")
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"localId":      "uid-phone",
				"phoneNumber":  "+525512345678",
				"idToken":      "id-token-phone",
				"refreshToken": "refresh-phone",
			})
		default:
			t.Errorf("unexpected toolkit action: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()
	cfg := &config.Config{
		FirebaseWebAPIKey:    "test-key",
		PhoneVerificationTTL: 5 * time.Minute,
	}
	opts = append([]Option{WithEndpoint(server.URL)}, opts...)
	return NewClient(cfg, zap.NewNop(), opts...)
}

func TestClient_SignInWithPassword(t *testing.T) {
	server := newToolkitServer(t, nil)
	defer server.Close()
	client := newTestClient(t, server)

	var notified *identity.Session
	client.Subscribe(func(s *identity.Session) { notified = s })

	sess, err := client.SignInWithPassword(context.Background(), "user@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", sess.SubjectID)
	assert.Equal(t, "id-token-1", sess.IDToken)
	// Enriched from the account lookup.
	assert.Equal(t, "Looked Up", sess.DisplayName)
	assert.Equal(t, "https://example.com/p.png", sess.PhotoURL)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), sess.CreatedAt)

	require.NotNil(t, notified, "subscribers must observe the new session")
	assert.Equal(t, sess.SubjectID, notified.SubjectID)
}

func TestClient_SignInWithPassword_ProviderErrorCode(t *testing.T) {
	server := newToolkitServer(t, nil)
	defer server.Close()
	client := newTestClient(t, server)

	_, err := client.SignInWithPassword(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	var provErr *identity.ProviderError
	require.ErrorAs(t, err, &provErr)
	// The human-readable suffix is stripped from the code.
	assert.Equal(t, "INVALID_PASSWORD", provErr.Code)
}

func TestClient_RegisterWithPassword_SetsDisplayName(t *testing.T) {
	server := newToolkitServer(t, nil)
	defer server.Close()
	client := newTestClient(t, server)

	sess, err := client.RegisterWithPassword(context.Background(), "new@example.com", "secret123", "Nuevo Usuario")
	require.NoError(t, err)
	assert.Equal(t, "uid-new", sess.SubjectID)
	// The updated token replaces the sign-up token.
	assert.Equal(t, "id-token-updated", sess.IDToken)
}

func TestClient_RegisterWithPassword_EmailExists(t *testing.T) {
	server := newToolkitServer(t, nil)
	defer server.Close()
	client := newTestClient(t, server)

	_, err := client.RegisterWithPassword(context.Background(), "taken@example.com", "secret123", "X")
	var provErr *identity.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "EMAIL_EXISTS", provErr.Code)
}

func TestClient_SignOut_NotifiesSynchronously(t *testing.T) {
	server := newToolkitServer(t, nil)
	defer server.Close()
	client := newTestClient(t, server)

	observed := false
	client.Subscribe(func(s *identity.Session) {
		observed = true
		assert.Nil(t, s)
	})

	require.NoError(t, client.SignOut(context.Background()))
	assert.True(t, observed, "sign-out must notify before returning")
}

func TestClient_PhoneVerification_FullFlow(t *testing.T) {
	server := newToolkitServer(t, nil)
	defer server.Close()
	client := newTestClient(t, server, WithChallengeHost(&stubChallengeHost{token: "captcha-token"}))

	ctx := context.Background()
	handle, err := client.BeginPhoneVerification(ctx, "+525512345678")
	require.NoError(t, err)
	assert.Equal(t, "session-abc", handle.ID)
	assert.Equal(t, "+525512345678", handle.Phone)
	assert.False(t, handle.Expired(time.Now()))

	_, err = client.ConfirmPhoneVerification(ctx, handle, "999999")
	var provErr *identity.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "INVALID_CODE", provErr.Code)

	sess, err := client.ConfirmPhoneVerification(ctx, handle, "123456")
	require.NoError(t, err)
	assert.Equal(t, "uid-phone", sess.SubjectID)
	assert.Equal(t, "+525512345678", sess.Phone)
}

func TestClient_PhoneVerification_UnsupportedWithoutChallengeHost(t *testing.T) {
	var requests int64
	server := newToolkitServer(t, &requests)
	defer server.Close()
	client := newTestClient(t, server)

	_, err := client.BeginPhoneVerification(context.Background(), "+525512345678")
	var provErr *identity.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, identity.CodeUnsupportedPlatform, provErr.Code)
	// Failing fast means no network call was made.
	assert.Zero(t, atomic.LoadInt64(&requests))
}

func TestClient_ConfirmPhoneVerification_ExpiredHandle(t *testing.T) {
	server := newToolkitServer(t, nil)
	defer server.Close()
	client := newTestClient(t, server, WithChallengeHost(&stubChallengeHost{token: "captcha-token"}))

	expired := &identity.VerificationHandle{
		ID:        "session-old",
		Phone:     "+525512345678",
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-30 * time.Minute),
	}
	_, err := client.ConfirmPhoneVerification(context.Background(), expired, "123456")
	var provErr *identity.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "SESSION_EXPIRED", provErr.Code)
}

func TestClient_SignInFederated_UnsupportedWithoutGranter(t *testing.T) {
	var requests int64
	server := newToolkitServer(t, &requests)
	defer server.Close()
	client := newTestClient(t, server)

	_, err := client.SignInFederated(context.Background(), identity.ProviderGoogle)
	var provErr *identity.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, identity.CodeUnsupportedPlatform, provErr.Code)
	assert.Zero(t, atomic.LoadInt64(&requests))
}
