package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	handler := NewHandler(svc, zap.NewNop())

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateProfile_ContractShapes(t *testing.T) {
	router := setupTestRouter(t)

	// First create returns 201 with a bare profile object.
	w := doJSON(t, router, http.MethodPost, "/api/v1/profiles", CreateRequest{
		Email: "contract@example.com",
		Name:  "Contract",
		Role:  "client",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "contract@example.com", created.Email)
	assert.NotEmpty(t, created.UserID)

	// Repeating the create adopts the record with 200.
	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles", CreateRequest{
		Email: "contract@example.com",
		Name:  "Other Name",
		Role:  "client",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var adopted Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adopted))
	assert.Equal(t, created.UserID, adopted.UserID)
}

func TestHandler_CreateProfile_Validation(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"name": "X", "role": "client"}},
		{"bad email", map[string]string{"email": "not-an-email", "name": "X", "role": "client"}},
		{"bad role", map[string]string{"email": "x@example.com", "name": "X", "role": "owner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/profiles", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_ListProfiles_BareArray(t *testing.T) {
	router := setupTestRouter(t)

	// Empty store: still a JSON array, never null or an envelope.
	w := doJSON(t, router, http.MethodGet, "/api/v1/profiles?email=none@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	doJSON(t, router, http.MethodPost, "/api/v1/profiles", CreateRequest{
		Email: "list@example.com", Name: "L", Role: "barber",
	})

	w = doJSON(t, router, http.MethodGet, "/api/v1/profiles?email=list@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profiles []Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, "barber", profiles[0].Role)

	w = doJSON(t, router, http.MethodGet, "/api/v1/profiles?role=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetProfileByID(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/profiles", CreateRequest{
		Email: "byid@example.com", Name: "ByID", Role: "client",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodGet, "/api/v1/profiles/"+created.UserID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/profiles/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
