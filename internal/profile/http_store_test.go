package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"barberlink_backend/internal/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		ProfileStoreBaseURL: baseURL,
		ProfileStoreTimeout: 2 * time.Second,
	}
}

func TestHTTPStore_FindByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/profiles", r.URL.Path)

		switch r.URL.Query().Get("email") {
		case "found@example.com":
			json.NewEncoder(w).Encode([]Profile{{
				UserID: "u-1",
				Email:  "found@example.com",
				Name:   "Found",
				Role:   "barber",
			}})
		case "missing@example.com":
			json.NewEncoder(w).Encode([]Profile{})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, 2*time.Second, zap.NewNop())
	ctx := context.Background()

	t.Run("existing profile", func(t *testing.T) {
		p, err := store.FindByEmail(ctx, "found@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", p.UserID)
		assert.Equal(t, "barber", p.Role)
	})

	t.Run("missing profile returns ErrNotFound", func(t *testing.T) {
		_, err := store.FindByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server error is not ErrNotFound", func(t *testing.T) {
		_, err := store.FindByEmail(ctx, "boom@example.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestHTTPStore_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/profiles", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// An existing email is adopted with 200, a new one created with 201.
		status := http.StatusCreated
		if req.Email == "existing@example.com" {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(Profile{
			UserID: "u-2",
			Email:  req.Email,
			Name:   req.Name,
			Role:   req.Role,
		})
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, 2*time.Second, zap.NewNop())
	ctx := context.Background()

	t.Run("created", func(t *testing.T) {
		p, err := store.Create(ctx, CreateRequest{Email: "new@example.com", Name: "New", Role: "client"})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", p.Email)
	})

	t.Run("adopted existing record", func(t *testing.T) {
		p, err := store.Create(ctx, CreateRequest{Email: "existing@example.com", Name: "X", Role: "client"})
		require.NoError(t, err)
		assert.Equal(t, "existing@example.com", p.Email)
	})
}

func TestNewStoreFromConfig_DegradedWithoutBaseURL(t *testing.T) {
	store := NewStoreFromConfig(testConfig(""), zap.NewNop())
	assert.Nil(t, store)

	store = NewStoreFromConfig(testConfig("http://localhost:8080"), zap.NewNop())
	assert.NotNil(t, store)
}
